// README: Rider identity middleware; session auth lives upstream.
package middleware

import (
	"github.com/gin-gonic/gin"
)

const UserIDKey = "userID"

// Identity lifts the authenticated rider id from the X-User-ID header set by
// the auth proxy in front of this service. Handlers that require a rider
// reject requests where it is missing.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader("X-User-ID"); id != "" {
			c.Set(UserIDKey, id)
		}
		c.Next()
	}
}
