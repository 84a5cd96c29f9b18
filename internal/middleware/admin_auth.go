package middleware

import (
	"net/http"

	"adlaan-backend/internal/utils"
	"adlaan-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminAuthMiddleware validates that the user has admin privileges.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, http.StatusForbidden)
		if !ok {
			return
		}

		role, ok := claims["role"].(string)
		if !ok || role != "admin" {
			logger.L().Warn("Unauthorized admin access attempt",
				zap.Any("user_id", claims["user_id"]),
				zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusForbidden, utils.NewErrorResponse(http.StatusForbidden, "Forbidden: Admins only"))
			return
		}

		c.Next()
	}
}
