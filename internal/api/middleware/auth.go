package middleware

import (
	"net/http"
	"strings"

	"agri-marketplace-api-server/internal/auth"
	"agri-marketplace-api-server/internal/models"

	"github.com/gin-gonic/gin"
)

// Context keys set by Authenticate.
const (
	ContextAccountID = "account_id"
	ContextRole      = "account_role"
)

// Authenticate validates the bearer token and puts the caller's account id
// and role into the request context.
func Authenticate(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := auth.ParseJWT(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ContextAccountID, claims.AccountID)
		c.Set(ContextRole, string(claims.Role))

		c.Next()
	}
}

// AuthenticateOptional sets the caller's identity when a valid bearer token
// is present and lets the request through either way. Public endpoints use it
// so logged-in callers keep their owner or admin visibility.
func AuthenticateOptional(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if authHeader == "" || tokenString == authHeader {
			c.Next()
			return
		}

		if claims, err := auth.ParseJWT(tokenString, secret); err == nil {
			c.Set(ContextAccountID, claims.AccountID)
			c.Set(ContextRole, string(claims.Role))
		}

		c.Next()
	}
}

// Authorize is a middleware factory checking the caller's role against an
// allow list. It assumes Authenticate ran first.
func Authorize(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get(ContextRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Account role not found in context"})
			return
		}

		role, ok := roleValue.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Account role has an invalid type"})
			return
		}

		for _, allowed := range allowedRoles {
			if string(allowed) == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
	}
}
