package api

import (
	"adlaan-backend/internal/api/v1/admin"
	"adlaan-backend/internal/api/v1/auth"
	"adlaan-backend/internal/api/v1/classification"
	"adlaan-backend/internal/api/v1/task"
	"adlaan-backend/internal/middleware"
	"adlaan-backend/internal/services"
	"adlaan-backend/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	Tasks        *services.TaskService
	Sweeper      *services.Sweeper
	AllowOrigins []string
}

func NewRouter(deps Dependencies) *gin.Engine {
	utils.RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger())

	origins := deps.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", task.IdempotencyHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// API v1
	v1 := router.Group("/api/v1")
	{
		auth.RegisterRoutes(v1)

		authorized := v1.Group("/")
		authorized.Use(middleware.AuthMiddleware())
		{
			task.RegisterRoutes(authorized, task.NewHandler(deps.Tasks))
			classification.RegisterRoutes(authorized, classification.NewHandler(deps.Tasks))
		}

		if deps.Sweeper != nil {
			adminGroup := v1.Group("/admin")
			adminGroup.Use(middleware.AdminAuthMiddleware())
			admin.RegisterRoutes(adminGroup, admin.NewHandler(deps.Sweeper))
		}
	}

	return router
}
