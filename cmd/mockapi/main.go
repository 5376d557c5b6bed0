// Command mockapi serves the books REST API the web UI talks to, backed by
// an in-memory catalog or Postgres.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookmanager/pkg/container"
	"bookmanager/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	envErr := godotenv.Load()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	logger.Init(env)
	if envErr != nil {
		logger.Debug("no .env file found, using system environment variables")
	}
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	c, err := container.NewMockAPIContainer()
	if err != nil {
		logger.Error("failed to initialize mock api", err)
		os.Exit(1)
	}
	defer c.Cleanup()

	port := c.Config.MockAPI.Port
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           SetupRouter(c),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", "http://localhost:"+port).Str("store", c.Config.MockAPI.Store).Msg("mock api starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start mock api")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("mock api forced to shutdown", map[string]interface{}{"error": err.Error()})
	}
	logger.Info("mock api exited", nil)
}
