package model

import (
	"strings"
	"time"
)

// ReservedAdminID is the built-in administrator account. It is matched
// case-insensitively and can never be deleted.
const ReservedAdminID = "admin"

type User struct {
	ID           string    `db:"id"`
	PasswordHash string    `db:"password_hash"`
	IsAdmin      bool      `db:"is_admin"`
	CreatedAt    time.Time `db:"created_at"`
}

// IsReservedAdmin reports whether id names the built-in admin account.
func IsReservedAdmin(id string) bool {
	return strings.EqualFold(id, ReservedAdminID)
}
