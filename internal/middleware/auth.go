package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/joinboard/join-api/internal/errors"
	"github.com/joinboard/join-api/internal/models"
	"github.com/joinboard/join-api/internal/session"
)

const contextKeyActiveUser = "activeUser"

// RequireAuth loads the active-user snapshot from the session and aborts
// with 401 when none exists.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := session.ActiveUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		c.Set(contextKeyActiveUser, user)
		c.Next()
	}
}

// GetActiveUser retrieves the snapshot placed in the context by RequireAuth.
func GetActiveUser(c *gin.Context) (*models.ActiveUser, bool) {
	value, exists := c.Get(contextKeyActiveUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.ActiveUser)
	return user, ok
}
