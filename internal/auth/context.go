package auth

import "github.com/gin-gonic/gin"

const userIDKey = "userID"

// GetUserID returns the caller's user ID, or 0 when the request carries none.
func GetUserID(c *gin.Context) int64 {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// SetUserID stores the caller's user ID in the Gin context.
func SetUserID(c *gin.Context, id int64) {
	c.Set(userIDKey, id)
}
