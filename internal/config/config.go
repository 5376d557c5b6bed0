package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"

	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config holds the whole application configuration.
// It is populated from environment variables.
type Config struct {
	App      AppConfig
	BooksAPI BooksAPIConfig
	Cache    CacheConfig
	Redis    RedisConfig
	MockAPI  MockAPIConfig
	Database DatabaseConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

// BooksAPIConfig describes the REST backend the UI talks to.
type BooksAPIConfig struct {
	BaseURL string
	Timeout time.Duration
	RPS     float64 // 0 disables client side rate limiting
	Burst   int
}

type CacheConfig struct {
	Driver    string        // memory, redis
	StaleTime time.Duration // list is served without refetch while younger than this
	GCTime    time.Duration // hard expiry of cached entries
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

// MockAPIConfig configures the bundled mock backend.
type MockAPIConfig struct {
	Port    string
	Store   string // memory, postgres
	Delay   time.Duration
	Timeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	MaxConns int
	MinConns int
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "BookManager"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		BooksAPI: BooksAPIConfig{
			BaseURL: getEnv("BOOKS_API_BASE_URL", "http://localhost:8081"),
			Timeout: getEnvDuration("BOOKS_API_TIMEOUT", 15*time.Second),
			RPS:     getEnvFloat("BOOKS_API_RPS", 0),
			Burst:   getEnvInt("BOOKS_API_BURST", 1),
		},
		Cache: CacheConfig{
			Driver:    getEnv("CACHE_DRIVER", CacheDriverMemory),
			StaleTime: getEnvDuration("CACHE_STALE_TIME", 5*time.Minute),
			GCTime:    getEnvDuration("CACHE_GC_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		MockAPI: MockAPIConfig{
			Port:    getEnv("MOCKAPI_PORT", "8081"),
			Store:   getEnv("MOCKAPI_STORE", StoreMemory),
			Delay:   getEnvDuration("MOCKAPI_DELAY", 300*time.Millisecond),
			Timeout: getEnvDuration("MOCKAPI_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "bookmanager"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 10),
			MinConns: getEnvInt("DB_MIN_CONNS", 1),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the config for values the application cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BooksAPI.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("BOOKS_API_BASE_URL must be an absolute http(s) URL, got %q", c.BooksAPI.BaseURL)
	}
	if c.BooksAPI.Timeout <= 0 {
		return fmt.Errorf("BOOKS_API_TIMEOUT must be positive")
	}
	if c.BooksAPI.RPS < 0 {
		return fmt.Errorf("BOOKS_API_RPS must not be negative")
	}

	switch c.Cache.Driver {
	case CacheDriverMemory, CacheDriverRedis:
	default:
		return fmt.Errorf("unknown CACHE_DRIVER %q", c.Cache.Driver)
	}
	if c.Cache.StaleTime <= 0 || c.Cache.GCTime <= 0 {
		return fmt.Errorf("CACHE_STALE_TIME and CACHE_GC_TIME must be positive")
	}
	if c.Cache.StaleTime > c.Cache.GCTime {
		return fmt.Errorf("CACHE_STALE_TIME (%s) must not exceed CACHE_GC_TIME (%s)", c.Cache.StaleTime, c.Cache.GCTime)
	}

	switch c.MockAPI.Store {
	case StoreMemory, StorePostgres:
	default:
		return fmt.Errorf("unknown MOCKAPI_STORE %q", c.MockAPI.Store)
	}
	if c.MockAPI.Delay < 0 {
		return fmt.Errorf("MOCKAPI_DELAY must not be negative")
	}

	if c.App.Environment == "production" && c.MockAPI.Store == StorePostgres && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD must be set in production")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
