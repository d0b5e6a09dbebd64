package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const usernameContextKey = "auth_username"

// RequireAdmin verifies the bearer token on back-office routes.
func RequireAdmin(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header missing"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header malformed"})
			return
		}

		username, err := jwtManager.Verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(usernameContextKey, username)
		c.Next()
	}
}

// GetUsername returns the authenticated username set by RequireAdmin.
func GetUsername(c *gin.Context) (string, bool) {
	v, ok := c.Get(usernameContextKey)
	if !ok {
		return "", false
	}
	username, ok := v.(string)
	return username, ok
}
