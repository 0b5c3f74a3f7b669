package middleware

import (
	"context"
	"net/http"

	"github.com/lunaria-app/lunaria/internal/auth"
	"github.com/lunaria-app/lunaria/internal/domain/user"
	"github.com/lunaria-app/lunaria/internal/pkg/errors"
	"github.com/lunaria-app/lunaria/internal/pkg/utils"
)

// ContextKey is a custom type for context keys
type ContextKey string

// UserKey is the context key for the authenticated user
const UserKey ContextKey = "user"

// Session returns a middleware that resolves the session cookie to a user.
// Requests without a valid session get the same 401 whether the cookie is
// missing, tampered, expired, or orphaned.
func Session(users user.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookie)
			if err != nil || cookie.Value == "" {
				utils.WriteError(w, errors.Unauthorized("Not authenticated"))
				return
			}

			u, err := users.Authenticate(r.Context(), cookie.Value)
			if err != nil {
				utils.WriteError(w, errors.Unauthorized("Not authenticated"))
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, u)

			AddLogField(w, "user_id", u.ID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin returns a middleware that rejects non-admin users. It must
// run inside Session.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := GetUser(r)
			if u == nil || !u.IsAdmin {
				utils.WriteError(w, errors.Forbidden("Admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUser extracts the authenticated user from the request context
func GetUser(r *http.Request) *user.User {
	if u, ok := r.Context().Value(UserKey).(*user.User); ok {
		return u
	}
	return nil
}
