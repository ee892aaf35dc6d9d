package auth

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserIDHeader carries the caller's user ID. Its value is trusted as-is.
const UserIDHeader = "X-Sharer-User-Id"

// UserRequired is a Gin middleware that identifies the caller.
// The X-Sharer-User-Id header wins; otherwise an Authorization: Bearer <token>
// issued by jwtManager is accepted. jwtManager may be nil to disable tokens.
func UserRequired(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader(UserIDHeader); raw != "" {
			id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
			if err != nil || id <= 0 {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"error": "invalid " + UserIDHeader + " header",
				})
				return
			}
			SetUserID(c, id)
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" || jwtManager == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing " + UserIDHeader + " header",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid Authorization header format",
			})
			return
		}

		claims, err := jwtManager.ParseAndValidate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		id, err := claims.UserID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		SetUserID(c, id)
		c.Next()
	}
}
