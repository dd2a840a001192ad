package utilities

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware ensures admin requests carry a valid access token.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"message": "인증이 필요합니다."},
			})
			c.Abort()
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := ValidateToken(tokenStr, false)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"message": "유효하지 않거나 만료된 토큰입니다."},
			})
			c.Abort()
			return
		}

		// Store claims in context for later use
		c.Set("admin_id", claims.AdminID)
		c.Set("admin_name", claims.Name)
		c.Set("admin_email", claims.Email)
		c.Set("admin_role", claims.Role)

		c.Next()
	}
}

// AdminID extracts the authenticated admin id from the Gin context.
func AdminID(c *gin.Context) (uint, bool) {
	v, ok := c.Get("admin_id")
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
