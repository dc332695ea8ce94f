package middleware

import (
	"net/http"

	"complaint_portal/internal/model"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware creates a middleware to check for specific user roles
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(AuthRoleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Role not found in token, ensure JWT middleware runs first"})
			return
		}

		userRole, ok := roleVal.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid role type in token"})
			return
		}

		isAllowed := false
		for _, allowedRole := range allowedRoles {
			if userRole == allowedRole {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			return
		}

		c.Next()
	}
}

// AdminMiddleware checks if the user is an admin
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleAdmin)
}

// OfficialMiddleware checks if the user is an official
func OfficialMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleOfficial)
}

// TriageMiddleware allows the roles that may browse the full complaint feed
func TriageMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleOfficial, model.RoleAdmin)
}

// StrictlyUserMiddleware checks if the user has only 'user' role
func StrictlyUserMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleUser)
}
