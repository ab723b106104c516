package middleware

import (
	"net/http"

	"github.com/campusclear/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
)

// RequireRoles aborts with 403 unless the authenticated actor carries at
// least one of the given roles. It must be placed after the JWT middleware.
// Fine-grained checks (department scoping, clearance eligibility) stay in
// the application services; this gate only keeps whole route groups away
// from roles that can never use them.
func RequireRoles(roles ...identity.RoleKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
			return
		}

		for _, role := range roles {
			if actor.HasRole(role) {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ERR_FORBIDDEN",
				"message": "Insufficient role",
			},
		})
	}
}

// RequireSuperAdmin restricts a route group to super admins
func RequireSuperAdmin() gin.HandlerFunc {
	return RequireRoles(identity.RoleSuperAdmin)
}
