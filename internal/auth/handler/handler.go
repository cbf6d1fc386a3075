// Package handler exposes the form-facing signup, login and logout actions.
package handler

import (
	"net/http"

	"authgate/internal/auth"
	"authgate/internal/auth/credentials"
	"authgate/internal/logger"
	"authgate/internal/session"

	"github.com/gin-gonic/gin"
)

// loginRedirectTarget is where a successful login lands.
const loginRedirectTarget = "/dashboard"

type Handler struct {
	creds     *credentials.Service
	lifecycle *auth.Manager
	cookies   session.CookieOptions
}

func NewHandler(
	creds *credentials.Service,
	lifecycle *auth.Manager,
	cookies session.CookieOptions,
) *Handler {
	return &Handler{
		creds:     creds,
		lifecycle: lifecycle,
		cookies:   cookies,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/auth/signup", h.Signup)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)
}

// Logout deletes the session row (best effort), clears the cookie and
// responds 204 whether or not a session existed.
func (h *Handler) Logout(c *gin.Context) {
	cookie, err := c.Request.Cookie(session.CookieName)
	if err == nil && cookie.Value != "" {
		if err := h.lifecycle.Invalidate(c.Request.Context(), cookie.Value); err != nil {
			logger.Warn("logout: failed to delete session", map[string]any{
				"error": err.Error(),
			})
		}
	}

	session.ClearCookie(c.Writer, h.cookies)
	c.Status(http.StatusNoContent)
}
