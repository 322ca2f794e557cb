package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"bayarcash-backend/internal/shared/response"
	"bayarcash-backend/pkg/jwt"
	"bayarcash-backend/pkg/logger"
)

const ContextKeyAdminID = "admin_id"

// AdminAuth requires a bearer token carrying the admin role
func AdminAuth(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		// 2. "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		// 3. Verify token and role
		claims, err := manager.ValidateAdminToken(strings.TrimSpace(parts[1]))
		if err != nil {
			logger.Warn("Admin token rejected", map[string]interface{}{
				"request_id": c.GetString(ContextKeyRequestID),
				"error":      err.Error(),
			})
			response.Forbidden(c, "Access denied: admin role required")
			c.Abort()
			return
		}

		c.Set(ContextKeyAdminID, claims.Subject)
		c.Next()
	}
}
