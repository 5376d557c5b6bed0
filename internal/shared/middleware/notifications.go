package middleware

import (
	"bookmanager/internal/domains/notification"

	"github.com/gin-gonic/gin"
)

// Notifications gives each request a fresh toast collector.
func Notifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := notification.WithCollector(c.Request.Context(), &notification.Collector{})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
