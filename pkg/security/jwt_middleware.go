package security

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Marcelo-Rosas/container-storage/internal/repository"
	"github.com/Marcelo-Rosas/container-storage/internal/session"
	"github.com/Marcelo-Rosas/container-storage/pkg/roles"

	"github.com/gin-gonic/gin"
)

// JWTMiddleware validates the bearer token and the session behind it, then
// stores the identity in the gin context and, for the row security policies,
// in the request context.
func JWTMiddleware(tokens *TokenIssuer, sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		identity, err := sessions.Get(c.Request.Context(), claims.SessionID)
		if errors.Is(err, session.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			return
		} else if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session", "details": err.Error()})
			return
		}
		if identity.UserID != claims.Subject {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		session.SetContext(c, identity)
		c.Request = c.Request.WithContext(repository.WithIdentity(c.Request.Context(), repository.Identity{
			UserID:   identity.UserID,
			Role:     identity.Role.String(),
			ClientID: identity.ClientID,
		}))
		c.Next()
	}
}

// Authorize ensures the caller has at least requiredRole.
func Authorize(requiredRole roles.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := session.FromContext(c)
		if !ok || !identity.Role.IsValid() || !identity.Role.HasPermission(requiredRole) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
			return
		}

		c.Next()
	}
}
