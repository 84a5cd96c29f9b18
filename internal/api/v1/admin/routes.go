package admin

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts admin endpoints. The group must already carry
// AdminAuthMiddleware.
func RegisterRoutes(router *gin.RouterGroup, h *Handler) {
	router.POST("/tasks/sweep", h.SweepTasks)
	router.POST("/users", h.CreateUser)
}
