package middleware

import (
	"net/http"

	"authgate/internal/user"

	"github.com/gin-gonic/gin"
)

// GinRequireAuth adapts the net/http AuthMiddleware to Gin. The validated
// user travels on the request context, so downstream handlers read it with
// CurrentUser regardless of framework.
func GinRequireAuth(auth *AuthMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		// bridge handler so the net/http middleware can run the gin chain
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		})

		handler := auth.RequireAuth(next)
		handler.ServeHTTP(c.Writer, c.Request)

		// if the gate already wrote a response, stop the gin chain
		if c.Writer.Written() {
			c.Abort()
			return
		}
	}
}

// CurrentUser returns the user attached by the request gate.
func CurrentUser(c *gin.Context) (*user.User, bool) {
	return UserFromContext(c.Request.Context())
}
