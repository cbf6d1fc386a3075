package handler

import (
	"errors"
	"net/http"

	"authgate/internal/auth/credentials"
	"authgate/internal/logger"
	"authgate/internal/session"

	"github.com/gin-gonic/gin"
)

type loginForm struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// Login consumes the form-encoded email/password pair, issues a session on
// success and redirects. Failures are 422 with a human-readable error; the
// message is identical for an unknown email and a wrong password.
func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "email and password are required"})
		return
	}

	u, err := h.creds.Authenticate(c.Request.Context(), form.Email, form.Password)
	if errors.Is(err, credentials.ErrInvalidCredentials) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": credentials.ErrInvalidCredentials.Error()})
		return
	}
	if err != nil {
		logger.Error("login failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	sessionID, err := h.lifecycle.Issue(c.Request.Context(), u.ID)
	if err != nil {
		logger.Error("failed to create session", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	session.SetCookie(c.Writer, sessionID, h.cookies)

	logger.Info("login succeeded", map[string]any{
		"user_id": u.ID,
		"ip":      c.ClientIP(),
	})

	c.Redirect(http.StatusSeeOther, loginRedirectTarget)
}
