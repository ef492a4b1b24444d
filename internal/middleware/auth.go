package middleware

import (
	"net/http"
	"strings"

	"studiobook/internal/pkg/jwt"
	"studiobook/internal/pkg/request"
	"studiobook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	CtxUserID   = "user_id"
	CtxStudioID = "studio_id"
	CtxRole     = "role"
)

// JWTAuth validates the bearer token and stores the staff identity on the
// context under user_id, studio_id and role.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxStudioID, claims.StudioID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// RequireStudioAccess rejects staff acting on a studio other than the one
// their token was issued for. The studio comes from the :id path parameter.
func RequireStudioAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetInt64(CtxUserID) == 0 {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		studioID, ok := request.ParamID(c, "id")
		if !ok {
			c.Abort()
			return
		}
		if c.GetInt64(CtxStudioID) != studioID {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "You don't have access to this studio")
			return
		}
		c.Next()
	}
}
