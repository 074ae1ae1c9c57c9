package handler

import (
	"errors"
	"net/http"

	"github.com/notedrop/notedrop/internal/authz"
	"github.com/notedrop/notedrop/internal/ctxkeys"
	"github.com/notedrop/notedrop/internal/model"
	"github.com/notedrop/notedrop/internal/repository"
	"github.com/notedrop/notedrop/internal/service"
	"github.com/notedrop/notedrop/internal/ui"
	"github.com/notedrop/notedrop/internal/validation"
)

type AdminHandler struct {
	gate        *authz.Gate
	userService *service.UserService
}

func NewAdminHandler(gate *authz.Gate, userService *service.UserService) *AdminHandler {
	return &AdminHandler{
		gate:        gate,
		userService: userService,
	}
}

type adminPage struct {
	Users       []*model.User
	DuplicateID bool
	InvalidID   bool
}

// AdminPage lists every identity with delete links.
func (h *AdminHandler) AdminPage(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.gate.Allow(authz.IdentityFor(user), authz.OpAdminPanel, nil)
	if err != nil {
		Fail(w, r, err)
		return
	}

	h.renderPanel(w, r, &adminPage{})
}

func (h *AdminHandler) renderPanel(w http.ResponseWriter, r *http.Request, page *adminPage) {
	users, err := h.userService.All()
	if err != nil {
		Fail(w, r, err)
		return
	}
	page.Users = users

	ui.Render(w, r, "admin", "Admin", page)
}

// AddUser creates a regular account. Duplicate or malformed ids
// re-render the panel with the matching marker instead of failing hard.
func (h *AdminHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.gate.Allow(authz.IdentityFor(user), authz.OpAddUser, nil)
	if err != nil {
		Fail(w, r, err)
		return
	}

	id := r.FormValue("id")
	pw := r.FormValue("pw")

	err = h.userService.Add(id, pw)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUser):
			h.renderPanel(w, r, &adminPage{DuplicateID: true})
		case errors.Is(err, validation.ErrInvalidUserID), errors.Is(err, validation.ErrEmptyUserID):
			h.renderPanel(w, r, &adminPage{InvalidID: true})
		default:
			Fail(w, r, err)
		}
		return
	}

	http.Redirect(w, r, "/admin/", http.StatusSeeOther)
}

// DeleteUser cascades a user's images, notes and account away. The
// reserved admin account is protected no matter who asks.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	targetID := r.PathValue("id")

	err := h.gate.Allow(authz.IdentityFor(user), authz.OpDeleteUser, &authz.Resource{TargetID: targetID})
	if err != nil {
		Fail(w, r, err)
		return
	}

	err = h.userService.DeleteCascade(targetID)
	if err != nil {
		Fail(w, r, err)
		return
	}

	http.Redirect(w, r, "/admin/", http.StatusSeeOther)
}
