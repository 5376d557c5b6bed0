package main

import (
	"context"
	"net/http"
	"time"

	"bookmanager/internal/shared/middleware"
	"bookmanager/internal/shared/response"
	"bookmanager/pkg/container"

	"github.com/gin-gonic/gin"
)

func SetupRouter(c *container.MockAPIContainer) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.Timeout(c.Config.MockAPI.Timeout),
	)

	router.GET("/healthz", func(ctx *gin.Context) {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		if err := c.Ping(pingCtx); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "ok", "store": c.Config.MockAPI.Store})
	})

	c.APIHandler.RegisterRoutes(router)

	router.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, "Route not found")
	})

	return router
}
