package container

import (
	"context"
	"fmt"
	"time"

	"bookmanager/internal/config"
	"bookmanager/internal/domains/book/handler"
	"bookmanager/internal/domains/book/repository"
	"bookmanager/internal/domains/book/service"
	"bookmanager/internal/domains/notification"
	infraCache "bookmanager/internal/infrastructure/cache"
	"bookmanager/pkg/cache"

	"github.com/rs/zerolog/log"
)

const redisKeyPrefix = "bookmanager"

// Container holds the dependency graph of the web UI.
//
// Initialization order:
//  1. Config
//  2. Cache (memory or Redis)
//  3. Repository (HTTP client for the books API)
//  4. Service
//  5. Handlers
type Container struct {
	Config *config.Config

	// Infrastructure
	Cache cache.Cache
	Redis *infraCache.RedisClient // nil unless CACHE_DRIVER=redis

	// Book domain
	BookRepo    repository.Repository
	BookService *service.BookService
	Guard       *service.SubmitGuard
	PageHandler *handler.PageHandler
}

func NewContainer() (*Container, error) {
	log.Info().Msg("initializing container")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return Build(cfg)
}

// Build wires the graph from an already loaded config.
func Build(cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}
	log.Info().Str("env", cfg.App.Environment).Msg("config loaded")

	c.initCache()

	c.BookRepo = repository.NewHTTPClient(repository.HTTPClientConfig{
		BaseURL: cfg.BooksAPI.BaseURL,
		Timeout: cfg.BooksAPI.Timeout,
		RPS:     cfg.BooksAPI.RPS,
		Burst:   cfg.BooksAPI.Burst,
	})

	c.BookService = service.NewService(
		c.BookRepo,
		c.Cache,
		notification.NewNotifier(),
		service.Config{
			StaleTime: cfg.Cache.StaleTime,
			GCTime:    cfg.Cache.GCTime,
		},
	)

	c.Guard = service.NewSubmitGuard()
	c.PageHandler = handler.NewPageHandler(c.BookService, c.Guard, cfg.App.Name)

	log.Info().
		Str("books_api", cfg.BooksAPI.BaseURL).
		Str("cache", cfg.Cache.Driver).
		Msg("container initialized")
	return c, nil
}

// initCache connects Redis when configured. A Redis that cannot be reached
// at startup is not fatal: the process falls back to the in-memory cache.
func (c *Container) initCache() {
	if c.Config.Cache.Driver != config.CacheDriverRedis {
		c.Cache = cache.NewMemory()
		return
	}

	rc := infraCache.NewRedisClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rc.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, using in-memory cache")
		_ = rc.Close()
		c.Cache = cache.NewMemory()
		return
	}

	c.Redis = rc
	c.Cache = infraCache.NewRedisCache(rc, redisKeyPrefix)
}

// Cleanup releases connections on shutdown.
func (c *Container) Cleanup() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis")
		}
	}
	log.Info().Msg("container cleanup completed")
}
