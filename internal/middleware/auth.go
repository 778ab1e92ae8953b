package middleware

import (
	"net/http"
	"strings"

	"civicos/internal/auth"
	"civicos/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	UserIDKey = "user_id"
	RoleKey   = "user_role"
)

// Verifier is satisfied by *auth.TokenManager.
type Verifier interface {
	Verify(raw string) (*auth.Claims, error)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// AuthRequired rejects requests without a valid bearer token and stores the
// caller's id and role on the context.
func AuthRequired(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := v.Verify(bearerToken(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		userID, _ := claims.UserID()
		c.Set(UserIDKey, userID)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// OptionalAuth loads the caller when a valid token is present and lets
// anonymous requests through.
func OptionalAuth(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := bearerToken(c); raw != "" {
			if claims, err := v.Verify(raw); err == nil {
				userID, _ := claims.UserID()
				c.Set(UserIDKey, userID)
				c.Set(RoleKey, claims.Role)
			}
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id, or 0 for anonymous callers.
func CurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get(UserIDKey); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func CurrentRole(c *gin.Context) string {
	return c.GetString(RoleKey)
}

// AdminRequired must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentRole(c) != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}
