package repository

import (
	"context"

	"bookmanager/internal/domains/book/model"
)

// Repository is the book store contract. The REST client, the in-memory
// mock store and the Postgres store all satisfy it.
type Repository interface {
	List(ctx context.Context) ([]model.Book, error)
	// Get returns model.ErrBookNotFound when id does not exist.
	Get(ctx context.Context, id string) (*model.Book, error)
	// Create stores in under a fresh identifier and returns the stored book.
	Create(ctx context.Context, in model.BookInput) (*model.Book, error)
	// Update replaces every field of id with in. The identifier is kept.
	Update(ctx context.Context, id string, in model.BookInput) (*model.Book, error)
	Delete(ctx context.Context, id string) error
}
