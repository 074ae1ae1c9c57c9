package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/notedrop/notedrop/internal/service"
)

type AuthHandler struct {
	sessionService *service.SessionService
}

func NewAuthHandler(sessionService *service.SessionService) *AuthHandler {
	return &AuthHandler{
		sessionService: sessionService,
	}
}

// Login verifies submitted credentials and binds a session. Both
// outcomes land back on the start page, failure with a flash message.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	id := r.FormValue("id")
	pw := r.FormValue("pw")

	user, err := h.sessionService.Login(id, pw)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			http.Redirect(w, r, "/?flash="+url.QueryEscape("Wrong id or password"), http.StatusSeeOther)
			return
		}
		Fail(w, r, err)
		return
	}

	token, err := h.sessionService.IssueToken(user)
	if err != nil {
		Fail(w, r, err)
		return
	}

	h.sessionService.SetSessionCookie(w, token, time.Now().Add(h.sessionService.Expiry()))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout clears the session. It succeeds even without one.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessionService.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
