package validation

import (
	"errors"
	"strings"
)

var (
	ErrInvalidUserID = errors.New("user id contains invalid characters")
	ErrEmptyUserID   = errors.New("user id is required")
)

// CheckUserID validates a new account id. Ids containing a space or a
// single quote are rejected.
func CheckUserID(id string) error {
	if id == "" {
		return ErrEmptyUserID
	}

	if strings.Contains(id, " ") || strings.Contains(id, "'") {
		return ErrInvalidUserID
	}

	return nil
}
