package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminRequired gates write operations behind the shared admin secret.
// The check runs before any handler touches the store, so unauthorized
// requests never partially apply. An empty configured token disables all
// writes rather than allowing anonymous ones.
func AdminRequired(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = authHeader[7:]
		}

		if adminToken == "" || token == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Next()
	}
}
