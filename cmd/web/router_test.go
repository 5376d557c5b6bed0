package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookmanager/internal/config"
	"bookmanager/pkg/container"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRouter_Health(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, err := container.Build(&config.Config{
		App:      config.AppConfig{Name: "BookManager", Version: "test"},
		BooksAPI: config.BooksAPIConfig{BaseURL: "http://127.0.0.1:1", Timeout: 100 * time.Millisecond},
		Cache:    config.CacheConfig{Driver: config.CacheDriverMemory, StaleTime: time.Minute, GCTime: time.Hour},
	})
	require.NoError(t, err)

	router, err := SetupRouter(c)
	require.NoError(t, err)

	for _, path := range []string{"/healthz", "/readyz"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"), path)
	}

	t.Run("index renders skeleton before the store answers", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `class="skeleton"`)
	})

	t.Run("unreachable store yields the error fragment", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books/table", nil))
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}
