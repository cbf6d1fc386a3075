package middleware

import (
	"context"
	"net/http"

	"authgate/internal/logger"
	"authgate/internal/session"
	"authgate/internal/user"
)

// unexported, collision-proof context key
type userContextKeyType struct{}

var userKey = userContextKeyType{}

// UserFromContext extracts the authenticated user from a request context.
func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(userKey).(*user.User)
	return u, ok
}

// Validator is the slice of the session lifecycle manager the gate needs.
type Validator interface {
	Validate(ctx context.Context, sessionID string) (*user.User, error)
}

// AuthMiddleware is the request gate: it validates the session cookie on
// every request and attaches the resolved user to the request context.
type AuthMiddleware struct {
	Lifecycle Validator

	// LoginURL, when set, redirects unauthenticated requests there instead
	// of answering 401. Used for browser-facing routes.
	LoginURL string
}

func NewAuthMiddleware(lifecycle Validator) *AuthMiddleware {
	return &AuthMiddleware{Lifecycle: lifecycle}
}

// WithRedirect returns a copy of the middleware that redirects instead of
// returning 401.
func (a *AuthMiddleware) WithRedirect(loginURL string) *AuthMiddleware {
	return &AuthMiddleware{Lifecycle: a.Lifecycle, LoginURL: loginURL}
}

func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID string
		if cookie, err := r.Cookie(session.CookieName); err == nil {
			sessionID = cookie.Value
		}

		u, err := a.Lifecycle.Validate(r.Context(), sessionID)
		if err != nil {
			// store-level failure: log and fall through to unauthenticated
			logger.Error("session validation failed", map[string]any{
				"error": err.Error(),
			})
		}
		if u == nil {
			a.reject(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request) {
	if a.LoginURL != "" {
		http.Redirect(w, r, a.LoginURL, http.StatusSeeOther)
		return
	}
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}
