package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"bookmanager/internal/domains/book/model"
	"bookmanager/internal/infrastructure/database"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS books (
	id             BIGSERIAL PRIMARY KEY,
	title          VARCHAR(100) NOT NULL,
	author         VARCHAR(50)  NOT NULL,
	genre          TEXT         NOT NULL,
	published_year INT          NOT NULL,
	status         TEXT         NOT NULL CHECK (status IN ('Available', 'Issued')),
	created_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW()
)`

const bookColumns = `id, title, author, genre, published_year, status`

// PostgresRepository is a Postgres backed book store for the mock backend.
// BIGSERIAL ids are exposed as decimal strings.
type PostgresRepository struct {
	db *database.PostgresDB
}

func NewPostgresRepository(db *database.PostgresDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the books table and seeds it when it is empty.
func (r *PostgresRepository) EnsureSchema(ctx context.Context, seed []model.Book) error {
	if _, err := r.db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create books table: %w", err)
	}

	return r.db.ExecuteInTransaction(ctx, func(tx pgx.Tx) error {
		var count int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&count); err != nil {
			return fmt.Errorf("count books: %w", err)
		}
		if count > 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for _, b := range seed {
			batch.Queue(
				`INSERT INTO books (title, author, genre, published_year, status) VALUES ($1, $2, $3, $4, $5)`,
				b.Title, b.Author, b.Genre, b.PublishedYear, string(b.Status),
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("seed books: %w", err)
		}

		log.Info().Int("count", len(seed)).Msg("seeded books table")
		return nil
	})
}

func scanBook(row pgx.Row) (*model.Book, error) {
	var (
		id     int64
		b      model.Book
		status string
	)
	if err := row.Scan(&id, &b.Title, &b.Author, &b.Genre, &b.PublishedYear, &status); err != nil {
		return nil, err
	}
	b.ID = strconv.FormatInt(id, 10)
	b.Status = model.Status(status)
	return &b, nil
}

// parseID maps ids that cannot exist in the table to ErrBookNotFound.
func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, model.ErrBookNotFound
	}
	return n, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]model.Book, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+bookColumns+` FROM books ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := []model.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*model.Book, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}

	b, err := scanBook(r.db.Pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, n))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) Create(ctx context.Context, in model.BookInput) (*model.Book, error) {
	b, err := scanBook(r.db.Pool.QueryRow(ctx, `
		INSERT INTO books (title, author, genre, published_year, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+bookColumns,
		in.Title, in.Author, in.Genre, in.PublishedYear, string(in.Status),
	))
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, in model.BookInput) (*model.Book, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}

	b, err := scanBook(r.db.Pool.QueryRow(ctx, `
		UPDATE books
		SET title = $2, author = $3, genre = $4, published_year = $5, status = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING `+bookColumns,
		n, in.Title, in.Author, in.Genre, in.PublishedYear, string(in.Status),
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}

	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, n)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

var _ Repository = (*PostgresRepository)(nil)
