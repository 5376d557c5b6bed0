package container

import (
	"context"
	"fmt"
	"time"

	"bookmanager/internal/config"
	"bookmanager/internal/domains/book/handler"
	"bookmanager/internal/domains/book/model"
	"bookmanager/internal/domains/book/repository"
	"bookmanager/internal/infrastructure/database"

	"github.com/rs/zerolog/log"
)

// MockAPIContainer holds the dependency graph of the bundled books API.
type MockAPIContainer struct {
	Config *config.Config
	DB     *database.PostgresDB // nil for the memory store

	BookRepo   repository.Repository
	APIHandler *handler.APIHandler
}

func NewMockAPIContainer() (*MockAPIContainer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	c := &MockAPIContainer{Config: cfg}

	switch cfg.MockAPI.Store {
	case config.StorePostgres:
		if err := c.initPostgres(); err != nil {
			return nil, err
		}
	default:
		c.BookRepo = repository.NewMemoryRepository(model.SeedBooks(), cfg.MockAPI.Delay)
	}

	c.APIHandler = handler.NewAPIHandler(c.BookRepo)

	log.Info().Str("store", cfg.MockAPI.Store).Dur("delay", cfg.MockAPI.Delay).Msg("mock api container initialized")
	return c, nil
}

func (c *MockAPIContainer) initPostgres() error {
	dbConfig, err := c.Config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("database health check failed: %w", err)
	}

	repo := repository.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx, model.SeedBooks()); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to prepare books table: %w", err)
	}

	c.DB = db
	c.BookRepo = repo
	return nil
}

// Ping reports whether the backing store is reachable.
func (c *MockAPIContainer) Ping(ctx context.Context) error {
	if c.DB == nil {
		return nil
	}
	return c.DB.Ping(ctx)
}

func (c *MockAPIContainer) Cleanup() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close database")
			return
		}
		log.Info().Msg("database connections closed")
	}
}
