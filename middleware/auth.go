package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"phonebook/auth"
	"phonebook/store"
)

// AuthRequired resolves the bearer token into an identity and attaches it to
// the request context. Any failure aborts with 401 before the handler runs.
func AuthRequired(secret []byte, users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
			return
		}

		userID, err := auth.ParseToken(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
			return
		}

		user, err := users.GetByID(userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
			return
		}

		// A token invalidated by logout (or superseded by a newer login) must
		// be rejected even while cryptographically valid.
		if user.Token == nil || *user.Token != tokenString {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
			return
		}

		c.Set("userID", user.ID)
		c.Set("userEmail", user.Email)
		c.Next()
	}
}
