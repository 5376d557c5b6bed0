package middleware

import (
	"net/http"

	"bookmanager/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str(RequestIDKey, c.GetString(RequestIDKey)).
					Interface("error", err).
					Msg("Panic recovered")

				if c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML {
					c.Data(http.StatusInternalServerError, "text/html; charset=utf-8",
						[]byte("<!doctype html><title>Error</title><h1>Something went wrong.</h1>"))
				} else {
					response.InternalServerError(c, "Internal server error")
				}
				c.Abort()
			}
		}()

		c.Next()
	}
}
