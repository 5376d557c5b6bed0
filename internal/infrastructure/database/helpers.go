package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgx "github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

func (db *PostgresDB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close is safe to call more than once.
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		return nil
	}

	db.Pool.Close()
	db.Pool = nil

	log.Info().Msg("database connection pool closed")
	return nil
}

// ExecuteInTransaction runs fn inside a read committed transaction.
// The transaction is committed when fn returns nil and rolled back otherwise.
func (db *PostgresDB) ExecuteInTransaction(ctx context.Context, fn func(pgx.Tx) error) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			log.Error().Err(err).Msg("transaction rollback failed")
		}
	}()

	if err := fn(tx); err != nil {
		return fmt.Errorf("transaction function failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}
