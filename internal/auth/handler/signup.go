package handler

import (
	"errors"
	"net/http"

	"authgate/internal/auth/credentials"
	"authgate/internal/logger"
	"authgate/internal/user"

	"github.com/gin-gonic/gin"
)

type signupForm struct {
	FirstName string `form:"firstName" binding:"required"`
	LastName  string `form:"lastName" binding:"required"`
	Email     string `form:"email" binding:"required"`
	Password  string `form:"password" binding:"required"`
}

// Signup creates the user record. It does not log the user in; signup and
// login are separate actions.
func (h *Handler) Signup(c *gin.Context) {
	var form signupForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "firstName, lastName, email and password are required"})
		return
	}

	_, err := h.creds.Register(c.Request.Context(), credentials.SignupInput{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Password:  form.Password,
	})

	if errors.Is(err, user.ErrDuplicateEmail) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": user.ErrDuplicateEmail.Error()})
		return
	}
	if err != nil {
		logger.Error("signup failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "registered"})
}
