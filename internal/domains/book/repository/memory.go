package repository

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"bookmanager/internal/domains/book/model"
)

// MemoryRepository is the mock book store. Every call waits delay before
// touching the data, returning early when ctx is done.
type MemoryRepository struct {
	mu     sync.RWMutex
	books  []model.Book
	nextID atomic.Int64
	delay  time.Duration
}

// NewMemoryRepository copies seed into a new store. Fresh identifiers
// continue after the largest numeric id in seed.
func NewMemoryRepository(seed []model.Book, delay time.Duration) *MemoryRepository {
	r := &MemoryRepository{
		books: make([]model.Book, len(seed)),
		delay: delay,
	}
	copy(r.books, seed)

	var max int64
	for _, b := range seed {
		if n, err := strconv.ParseInt(b.ID, 10, 64); err == nil && n > max {
			max = n
		}
	}
	r.nextID.Store(max)
	return r
}

func (r *MemoryRepository) wait(ctx context.Context) error {
	if r.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(r.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *MemoryRepository) indexOf(id string) int {
	for i, b := range r.books {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func (r *MemoryRepository) List(ctx context.Context) ([]model.Book, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Book, len(r.books))
	copy(out, r.books)
	return out, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*model.Book, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, model.ErrBookNotFound
	}
	b := r.books[i]
	return &b, nil
}

func (r *MemoryRepository) Create(ctx context.Context, in model.BookInput) (*model.Book, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}

	b := in.ToBook(strconv.FormatInt(r.nextID.Add(1), 10))

	r.mu.Lock()
	r.books = append(r.books, b)
	r.mu.Unlock()

	return &b, nil
}

func (r *MemoryRepository) Update(ctx context.Context, id string, in model.BookInput) (*model.Book, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, model.ErrBookNotFound
	}
	r.books[i] = in.ToBook(id)
	b := r.books[i]
	return &b, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	if err := r.wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.ErrBookNotFound
	}
	r.books = append(r.books[:i], r.books[i+1:]...)
	return nil
}

var _ Repository = (*MemoryRepository)(nil)
