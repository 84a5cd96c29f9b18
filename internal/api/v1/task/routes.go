package task

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the task endpoints. The group must already carry
// authentication.
func RegisterRoutes(router *gin.RouterGroup, h *Handler) {
	tasks := router.Group("/tasks")
	{
		tasks.POST("/generate", h.GenerateDocument)
		tasks.POST("/analyze", h.AnalyzeDocument)
		tasks.POST("/classify", h.ClassifyDocuments)
		tasks.GET("", h.ListTasks)
		tasks.GET("/:id", h.GetTask)
		tasks.GET("/:id/results.csv", h.ExportClassificationResults)
	}
}
