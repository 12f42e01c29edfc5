package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/releasenotes-backend/pkg/errors"
)

// StaffOnly must run after AuthMiddleware. It lets through active staff
// users, the only accounts allowed to change content.
func StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.Error(errors.ErrUnauthorized)
			c.Abort()
			return
		}

		if !user.CanEdit() {
			c.Error(errors.ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}
