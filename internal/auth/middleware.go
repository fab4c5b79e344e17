package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer access token and stores the acting
// user's identity in the request context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := ValidateAccessToken(parts[1])
		if err != nil {
			if err == ErrExpiredToken {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has expired, please log in again"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid access token"})
			}
			c.Abort()
			return
		}

		// Store user info in context for handlers to use
		c.Set("userId", claims.UserID)
		c.Set("email", claims.Email)

		c.Next()
	}
}
