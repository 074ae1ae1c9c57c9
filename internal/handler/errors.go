package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/notedrop/notedrop/internal/authz"
	"github.com/notedrop/notedrop/internal/repository"
	"github.com/notedrop/notedrop/internal/service"
	"github.com/notedrop/notedrop/internal/ui"
)

type errorPage struct {
	Status  int
	Message string
}

var statusMessages = map[int]string{
	http.StatusUnauthorized:          "You need to log in for that",
	http.StatusForbidden:             "You are not allowed to do that",
	http.StatusNotFound:              "Page not found",
	http.StatusMethodNotAllowed:      "Method not allowed",
	http.StatusRequestEntityTooLarge: "Upload too large",
}

// RenderError writes the themed error page for a status code.
func RenderError(w http.ResponseWriter, r *http.Request, status int) {
	message, ok := statusMessages[status]
	if !ok {
		message = http.StatusText(status)
	}
	ui.RenderStatus(w, r, status, "error", message, &errorPage{Status: status, Message: message})
}

// Fail maps a categorical error to its HTTP status and renders the
// matching error page. Unexpected errors become a logged 500.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, authz.ErrUnauthorized):
		RenderError(w, r, http.StatusUnauthorized)
	case errors.Is(err, authz.ErrForbidden), errors.Is(err, service.ErrReservedUser):
		RenderError(w, r, http.StatusForbidden)
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrNoteNotFound),
		errors.Is(err, repository.ErrImageNotFound):
		RenderError(w, r, http.StatusNotFound)
	default:
		slog.Error("request failed", "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
