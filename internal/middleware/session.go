package middleware

import (
	"net/http"

	"github.com/notedrop/notedrop/internal/ctxkeys"
	"github.com/notedrop/notedrop/internal/service"
)

// Session resolves the request's session cookie to an identity and puts
// it on the context. Requests without a valid token continue as
// anonymous; gating happens later, per operation.
func Session(sessionService *service.SessionService, userService *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(service.SessionCookieName())
			if err != nil {
				// No cookie, continue without identity
				next.ServeHTTP(w, r)
				return
			}

			userID, err := sessionService.VerifyToken(cookie.Value)
			if err != nil {
				// Invalid or expired token, clear cookie and continue
				sessionService.ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			user, err := userService.ByID(userID)
			if err != nil {
				// Token refers to a deleted user
				sessionService.ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
