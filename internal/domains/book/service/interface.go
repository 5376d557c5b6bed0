package service

import (
	"context"

	"bookmanager/internal/domains/book/model"

	"github.com/xuri/excelize/v2"
)

// ServiceInterface is the cached data and mutation layer over a book store.
type ServiceInterface interface {
	// ListBooks returns the full catalog, from cache when possible.
	ListBooks(ctx context.Context) ([]model.Book, error)
	// PeekBooks returns the cached catalog without ever calling the store.
	PeekBooks(ctx context.Context) ([]model.Book, bool)
	GetBook(ctx context.Context, id string) (*model.Book, error)
	CreateBook(ctx context.Context, in model.BookInput) (*model.Book, error)
	UpdateBook(ctx context.Context, id string, in model.BookInput) (*model.Book, error)
	DeleteBook(ctx context.Context, id string) error
	// ExportBooks renders every book matching c into a workbook.
	ExportBooks(ctx context.Context, c model.Criteria) (*excelize.File, error)
}
