package main

import (
	"context"
	"net/http"
	"time"

	"bookmanager/internal/domains/book/view"
	"bookmanager/internal/shared/middleware"
	"bookmanager/pkg/container"

	"github.com/gin-gonic/gin"
)

func SetupRouter(c *container.Container) (*gin.Engine, error) {
	tmpl, err := view.Templates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	router.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.SecurityHeaders(),
		middleware.Notifications(),
	)

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok", "version": c.Config.App.Version})
	})
	router.GET("/readyz", readinessHandler(c))

	c.PageHandler.RegisterRoutes(router)

	router.NoRoute(func(ctx *gin.Context) {
		ctx.Redirect(http.StatusSeeOther, "/")
	})

	return router, nil
}

// readinessHandler reports whether the cache is reachable.
func readinessHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"cache":     c.Config.Cache.Driver,
		}
		if err := c.Cache.Ping(pingCtx); err != nil {
			status = http.StatusServiceUnavailable
			health["status"] = "degraded"
			health["error"] = err.Error()
		}

		ctx.JSON(status, health)
	}
}
