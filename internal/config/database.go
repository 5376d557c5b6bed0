package config

import (
	"fmt"
	"time"

	"bookmanager/internal/infrastructure/database"
)

// LoadDatabaseConfig builds the pool configuration for the mock backend's
// Postgres store from the loaded Config plus pool tuning variables.
func (c *Config) LoadDatabaseConfig() (*database.DBConfig, error) {
	maxConnLifetime, err := time.ParseDuration(getEnv("DB_MAX_CONN_LIFETIME", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONN_LIFETIME: %w", err)
	}

	maxConnIdleTime, err := time.ParseDuration(getEnv("DB_MAX_CONN_IDLE_TIME", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONN_IDLE_TIME: %w", err)
	}

	retryDelay, err := time.ParseDuration(getEnv("DB_RETRY_DELAY", "1s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_RETRY_DELAY: %w", err)
	}

	return &database.DBConfig{
		Host:              c.Database.Host,
		Port:              c.Database.Port,
		Username:          c.Database.User,
		Password:          c.Database.Password,
		DBName:            c.Database.Database,
		MaxConns:          int32(c.Database.MaxConns),
		MinConns:          int32(c.Database.MinConns),
		MaxConnLifetime:   maxConnLifetime,
		MaxConnIdleTime:   maxConnIdleTime,
		HealthCheckPeriod: time.Minute,
		MaxRetries:        getEnvInt("DB_MAX_RETRIES", 5),
		RetryDelay:        retryDelay,
		ConnectTimeout:    getEnvDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
	}, nil
}
