package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/modelsnapper/snapper_go_server/internal/pkg/response"
)

// RoleResolver maps a user to an effective role string.
type RoleResolver interface {
	ResolveRole(userID int64) string
}

// RequireRole gates a route on the caller's effective role. The role is
// resolved fresh on every request so admin allow-list changes and onboarding
// take effect immediately.
func RequireRole(resolver RoleResolver, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		role := resolver.ResolveRole(userID)
		for _, allowed := range roles {
			if role == allowed {
				c.Set("userRole", role)
				c.Next()
				return
			}
		}

		response.PermissionError(c, "")
		c.Abort()
	}
}

// GetUserRole reads the role RequireRole resolved for this request.
func GetUserRole(c *gin.Context) string {
	if role, exists := c.Get("userRole"); exists {
		if s, ok := role.(string); ok {
			return s
		}
	}
	return ""
}
