package middlewares

import (
	"net/http"

	"github.com/clubhouse/messageboard/internal/session"
	"github.com/gin-gonic/gin"
)

// RequireAuth sends anonymous requests back to the board without performing
// the guarded action.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.IsAuthenticated(c) {
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdmin gates destructive actions behind the admin flag. Non-admins get
// the same silent redirect home as anonymous users.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := session.CurrentUser(c)

		if !ok || !u.Admin {
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}

		c.Next()
	}
}
