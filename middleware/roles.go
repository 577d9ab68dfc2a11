package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type RoleMiddleware struct{}

func NewRoleMiddleware() *RoleMiddleware {
	return &RoleMiddleware{}
}

func (r *RoleMiddleware) RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		if role == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error_code": "unauthorized",
				"message":    "User role not found",
			})
			c.Abort()
			return
		}

		hasRole := false
		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				hasRole = true
				break
			}
		}

		if !hasRole {
			c.JSON(http.StatusForbidden, gin.H{
				"error_code": "forbidden",
				"message":    "Insufficient permissions",
				"details": gin.H{
					"required_roles": allowedRoles,
					"user_role":      role,
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminGuard limits a route to content administrators.
func (r *RoleMiddleware) AdminGuard() gin.HandlerFunc {
	return r.RequireRole("admin", "manager")
}
