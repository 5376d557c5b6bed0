package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"bookmanager/internal/domains/book/model"
	"bookmanager/internal/domains/book/repository"
	"bookmanager/internal/domains/notification"
	"bookmanager/pkg/cache"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	listCacheKey = "books"

	refreshTimeout = 30 * time.Second
)

func bookCacheKey(id string) string {
	return "book:" + id
}

type Config struct {
	// StaleTime is how long a cached entry is served without refetching.
	StaleTime time.Duration
	// GCTime is the hard expiry of cached entries.
	GCTime time.Duration
}

type listEntry struct {
	Books     []model.Book `json:"books"`
	FetchedAt time.Time    `json:"fetched_at"`
}

type bookEntry struct {
	Book      model.Book `json:"book"`
	FetchedAt time.Time  `json:"fetched_at"`
}

// BookService implements ServiceInterface
type BookService struct {
	repo     repository.Repository
	cache    cache.Cache
	notifier notification.Notifier
	cfg      Config

	group singleflight.Group
	// generation is bumped on every invalidation; fetches that started in
	// an older generation do not write their result back.
	generation atomic.Uint64
	cacheMu    sync.Mutex
	now        func() time.Time
}

func NewService(
	repo repository.Repository,
	cache cache.Cache,
	notifier notification.Notifier,
	cfg Config,
) *BookService {
	return &BookService{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

var _ ServiceInterface = (*BookService)(nil)

func (s *BookService) fresh(fetchedAt time.Time) bool {
	return s.now().Sub(fetchedAt) < s.cfg.StaleTime
}

func (s *BookService) cachedList(ctx context.Context) (*listEntry, bool) {
	var entry listEntry
	found, err := s.cache.Get(ctx, listCacheKey, &entry)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", listCacheKey).Msg("cache read failed")
		return nil, false
	}
	if !found {
		return nil, false
	}
	return &entry, true
}

// ListBooks serves a fresh cached list directly. A stale list is served as
// well, with one background refresh started. A miss fetches from the store;
// concurrent misses share a single fetch.
func (s *BookService) ListBooks(ctx context.Context) ([]model.Book, error) {
	if entry, ok := s.cachedList(ctx); ok {
		if !s.fresh(entry.FetchedAt) {
			s.refreshList(ctx)
		}
		return entry.Books, nil
	}

	log.Ctx(ctx).Debug().Str("key", listCacheKey).Msg("cache miss")

	v, err, _ := s.group.Do(listCacheKey, func() (interface{}, error) {
		return s.fetchList(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Book), nil
}

func (s *BookService) PeekBooks(ctx context.Context) ([]model.Book, bool) {
	entry, ok := s.cachedList(ctx)
	if !ok {
		return nil, false
	}
	if !s.fresh(entry.FetchedAt) {
		s.refreshList(ctx)
	}
	return entry.Books, true
}

func (s *BookService) refreshList(ctx context.Context) {
	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
	ch := s.group.DoChan(listCacheKey, func() (interface{}, error) {
		return s.fetchList(bg)
	})

	go func() {
		defer cancel()
		if res := <-ch; res.Err != nil {
			log.Ctx(bg).Warn().Err(res.Err).Msg("background refresh of books failed")
		}
	}()
}

func (s *BookService) fetchList(ctx context.Context) ([]model.Book, error) {
	gen := s.generation.Load()

	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	s.storeIfCurrent(ctx, gen, listCacheKey, listEntry{Books: books, FetchedAt: s.now()})
	return books, nil
}

// GetBook loads one book. An empty id is rejected without calling the store.
func (s *BookService) GetBook(ctx context.Context, id string) (*model.Book, error) {
	if id == "" {
		return nil, model.ErrMissingID
	}

	key := bookCacheKey(id)

	var entry bookEntry
	found, err := s.cache.Get(ctx, key, &entry)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache read failed")
	}
	if found && s.fresh(entry.FetchedAt) {
		return &entry.Book, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		fetchCtx := context.WithoutCancel(ctx)
		gen := s.generation.Load()
		b, err := s.repo.Get(fetchCtx, id)
		if err != nil {
			return nil, err
		}
		s.storeIfCurrent(fetchCtx, gen, key, bookEntry{Book: *b, FetchedAt: s.now()})
		return b, nil
	})
	if err != nil {
		return nil, fmt.Errorf("get book %s: %w", id, err)
	}

	b := *v.(*model.Book)
	return &b, nil
}

func (s *BookService) CreateBook(ctx context.Context, in model.BookInput) (*model.Book, error) {
	b, err := s.repo.Create(ctx, in)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("create book failed")
		s.notifier.Notify(ctx, notification.Failure("Failed to create book. Please try again."))
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.invalidate(ctx)
	s.notifier.Notify(ctx, notification.Success("Book created successfully!"))
	return b, nil
}

func (s *BookService) UpdateBook(ctx context.Context, id string, in model.BookInput) (*model.Book, error) {
	if id == "" {
		return nil, model.ErrMissingID
	}

	b, err := s.repo.Update(ctx, id, in)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("book_id", id).Msg("update book failed")
		s.notifier.Notify(ctx, notification.Failure("Failed to update book. Please try again."))
		return nil, fmt.Errorf("update book %s: %w", id, err)
	}

	s.invalidate(ctx, bookCacheKey(id))
	s.notifier.Notify(ctx, notification.Success("Book updated successfully!"))
	return b, nil
}

func (s *BookService) DeleteBook(ctx context.Context, id string) error {
	if id == "" {
		return model.ErrMissingID
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("book_id", id).Msg("delete book failed")
		s.notifier.Notify(ctx, notification.Failure("Failed to delete book. Please try again."))
		return fmt.Errorf("delete book %s: %w", id, err)
	}

	s.invalidate(ctx, bookCacheKey(id))
	s.notifier.Notify(ctx, notification.Success("Book deleted successfully!"))
	return nil
}

// invalidate drops the list and any extra keys, and detaches in-flight
// fetches so later reads start a new one.
func (s *BookService) invalidate(ctx context.Context, extra ...string) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	s.generation.Add(1)

	keys := append([]string{listCacheKey}, extra...)
	for _, k := range keys {
		s.group.Forget(k)
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.Ctx(ctx).Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}

// storeIfCurrent caches value under key unless an invalidation happened
// after gen was read. The check and the write hold cacheMu so an
// invalidation cannot land between them.
func (s *BookService) storeIfCurrent(ctx context.Context, gen uint64, key string, value interface{}) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	if s.generation.Load() != gen {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.GCTime); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
