package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"memorial-backend/internal/shared/middleware"
	"memorial-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		v1.POST("/upload-url", c.UploadHandler.IssueUploadURL)

		memorials := v1.Group("/memorials")
		{
			memorials.POST("", c.MemorialHandler.Create)
			memorials.POST("/lookup", c.MemorialHandler.Lookup)
			memorials.GET("/:slug", c.MemorialHandler.Get)
			memorials.PUT("/:slug", c.MemorialHandler.Update)
			memorials.DELETE("/:slug", c.MemorialHandler.Delete)
		}
	}

	return router
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := "ok"
		httpStatus := http.StatusOK

		if err := c.KV.HealthCheck(ctx.Request.Context()); err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}

		ctx.JSON(httpStatus, gin.H{
			"status":  status,
			"name":    c.Config.App.Name,
			"version": c.Config.App.Version,
		})
	}
}
