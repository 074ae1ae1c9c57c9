// Package authz decides whether an identity may perform an operation.
// Decisions are pure: the gate holds no mutable state and touches no
// stores, so every call is safe to repeat and trivial to test.
package authz

import (
	"errors"

	"github.com/notedrop/notedrop/internal/model"
)

var (
	// ErrUnauthorized means no identity was present where one is
	// required. Maps to 401 at the HTTP boundary.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means an identity was present but the operation is
	// disallowed for it. Maps to 403 at the HTTP boundary.
	ErrForbidden = errors.New("forbidden")
)

type Operation string

const (
	// admin-only
	OpAdminPanel Operation = "admin_panel"
	OpListUsers  Operation = "list_users"
	OpAddUser    Operation = "add_user"
	OpDeleteUser Operation = "delete_user"

	// owner-only
	OpViewPrivate Operation = "view_private"
	OpWriteNote   Operation = "write_note"
	OpDeleteNote  Operation = "delete_note"
	OpUploadImage Operation = "upload_image"
	OpDeleteImage Operation = "delete_image"

	// public
	OpViewPublic Operation = "view_public"
	OpLogin      Operation = "login"
	OpFetchURL   Operation = "fetch_url"
	OpSerialSink Operation = "serial_sink"
)

var adminOnly = map[Operation]bool{
	OpAdminPanel: true,
	OpListUsers:  true,
	OpAddUser:    true,
	OpDeleteUser: true,
}

var ownerOnly = map[Operation]bool{
	OpViewPrivate: true,
	OpWriteNote:   true,
	OpDeleteNote:  true,
	OpUploadImage: true,
	OpDeleteImage: true,
}

// Identity is the authenticated caller, as established by the session
// layer. A nil *Identity means anonymous.
type Identity struct {
	ID      string
	IsAdmin bool
}

// Resource describes the target of an operation, when there is one.
// TargetID is the user id for delete_user; OwnerID is the owning
// identity for notes and images.
type Resource struct {
	OwnerID  string
	TargetID string
}

// Gate evaluates authorization rules.
//
// StrictOwnership controls whether note/image deletion requires the
// caller to own the resource. The original system intended that check
// but never enforced it; lenient mode reproduces that behavior, strict
// mode enforces the intent.
type Gate struct {
	StrictOwnership bool
}

func NewGate(strictOwnership bool) *Gate {
	return &Gate{StrictOwnership: strictOwnership}
}

// Allow returns nil when id may perform op against res, ErrUnauthorized
// when no (sufficient) identity is present, and ErrForbidden when the
// identity is known but the operation is denied. Rules are checked in
// precedence order; the reserved admin account wins over everything.
func (g *Gate) Allow(id *Identity, op Operation, res *Resource) error {
	if adminOnly[op] {
		if id == nil || !id.IsAdmin {
			return ErrUnauthorized
		}
		// The reserved admin account can never be deleted, even by
		// another admin.
		if op == OpDeleteUser && res != nil && model.IsReservedAdmin(res.TargetID) {
			return ErrForbidden
		}
		return nil
	}

	if ownerOnly[op] {
		if id == nil {
			return ErrUnauthorized
		}
		if g.StrictOwnership && res != nil && res.OwnerID != "" && res.OwnerID != id.ID {
			return ErrForbidden
		}
		return nil
	}

	// Everything else is public.
	return nil
}

// IdentityFor converts a user record into a gate identity.
func IdentityFor(user *model.User) *Identity {
	if user == nil {
		return nil
	}
	return &Identity{ID: user.ID, IsAdmin: user.IsAdmin}
}
