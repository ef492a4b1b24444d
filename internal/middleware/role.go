package middleware

import (
	"net/http"

	"studiobook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole ensures that the authenticated user has the specified role
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(CtxRole)
		if !exists {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}

		if r, _ := role.(string); r != requiredRole {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			return
		}

		c.Next()
	}
}

// OwnerOnly requires the studio owner role.
func OwnerOnly() gin.HandlerFunc {
	return RequireRole("owner")
}
