package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/skindiary/careplan-backend/internal/handlers"
	"github.com/skindiary/careplan-backend/internal/middleware"
)

type RouterConfig struct {
	PlanHandler    *handlers.PlanHandler
	AuthMiddleware *middleware.AuthMiddleware
	AllowOrigins   []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	api.POST("/plan/generate", cfg.PlanHandler.GeneratePlan)
	api.GET("/plan", cfg.PlanHandler.GetPlan)

	return router
}
