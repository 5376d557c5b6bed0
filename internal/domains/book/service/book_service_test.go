package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bookmanager/internal/domains/book/model"
	"bookmanager/internal/domains/notification"
	"bookmanager/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) List(ctx context.Context) ([]model.Book, error) {
	args := m.Called(ctx)
	books, _ := args.Get(0).([]model.Book)
	return books, args.Error(1)
}

func (m *mockRepository) Get(ctx context.Context, id string) (*model.Book, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*model.Book)
	return b, args.Error(1)
}

func (m *mockRepository) Create(ctx context.Context, in model.BookInput) (*model.Book, error) {
	args := m.Called(ctx, in)
	b, _ := args.Get(0).(*model.Book)
	return b, args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, id string, in model.BookInput) (*model.Book, error) {
	args := m.Called(ctx, id, in)
	b, _ := args.Get(0).(*model.Book)
	return b, args.Error(1)
}

func (m *mockRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	svc       *BookService
	repo      *mockRepository
	clock     *fakeClock
	collector *notification.Collector
	ctx       context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithCache(t, cache.NewMemory())
}

func newFixtureWithCache(t *testing.T, c cache.Cache) *fixture {
	t.Helper()
	repo := &mockRepository{}
	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}

	svc := NewService(repo, c, notification.NewNotifier(), Config{
		StaleTime: 5 * time.Minute,
		GCTime:    30 * time.Minute,
	})
	svc.now = clock.Now

	collector := &notification.Collector{}
	return &fixture{
		svc:       svc,
		repo:      repo,
		clock:     clock,
		collector: collector,
		ctx:       notification.WithCollector(context.Background(), collector),
	}
}

func duneInput() model.BookInput {
	return model.BookInput{Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", PublishedYear: 1965, Status: model.StatusAvailable}
}

func TestListBooks_CachesWithinStaleTime(t *testing.T) {
	f := newFixture(t)
	f.repo.On("List", mock.Anything).Return(model.SeedBooks(), nil).Once()

	first, err := f.svc.ListBooks(f.ctx)
	require.NoError(t, err)
	assert.Len(t, first, 12)

	f.clock.Advance(4 * time.Minute)
	second, err := f.svc.ListBooks(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	f.repo.AssertNumberOfCalls(t, "List", 1)
}

func TestListBooks_StaleServesCachedAndRefreshes(t *testing.T) {
	f := newFixture(t)
	seed := model.SeedBooks()
	f.repo.On("List", mock.Anything).Return(seed, nil).Once()
	f.repo.On("List", mock.Anything).Return(seed[:3], nil).Once()

	_, err := f.svc.ListBooks(f.ctx)
	require.NoError(t, err)

	f.clock.Advance(6 * time.Minute)
	stale, err := f.svc.ListBooks(f.ctx)
	require.NoError(t, err)
	assert.Len(t, stale, 12, "stale data is returned immediately")

	assert.Eventually(t, func() bool {
		books, ok := f.svc.PeekBooks(context.Background())
		return ok && len(books) == 3
	}, time.Second, 10*time.Millisecond)
	f.repo.AssertNumberOfCalls(t, "List", 2)
}

func TestListBooks_ConcurrentMissesShareOneFetch(t *testing.T) {
	f := newFixture(t)
	gate := make(chan time.Time)
	f.repo.On("List", mock.Anything).WaitUntil(gate).Return(model.SeedBooks(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			books, err := f.svc.ListBooks(f.ctx)
			assert.NoError(t, err)
			assert.Len(t, books, 12)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	f.repo.AssertNumberOfCalls(t, "List", 1)
}

func TestListBooks_ErrorIsNotCached(t *testing.T) {
	f := newFixture(t)
	f.repo.On("List", mock.Anything).Return(nil, model.ErrNetwork).Once()
	f.repo.On("List", mock.Anything).Return(model.SeedBooks(), nil).Once()

	_, err := f.svc.ListBooks(f.ctx)
	assert.ErrorIs(t, err, model.ErrNetwork)

	_, ok := f.svc.PeekBooks(f.ctx)
	assert.False(t, ok)

	books, err := f.svc.ListBooks(f.ctx)
	require.NoError(t, err)
	assert.Len(t, books, 12)
}

func TestInvalidation_DropsInFlightFetch(t *testing.T) {
	f := newFixture(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	f.repo.On("List", mock.Anything).Run(func(mock.Arguments) {
		close(entered)
		<-release
	}).Return(model.SeedBooks(), nil).Once()
	f.repo.On("Create", mock.Anything, duneInput()).Return(&model.Book{ID: "13"}, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = f.svc.ListBooks(f.ctx)
	}()
	<-entered

	_, err := f.svc.CreateBook(f.ctx, duneInput())
	require.NoError(t, err)

	close(release)
	<-done

	_, ok := f.svc.PeekBooks(f.ctx)
	assert.False(t, ok, "pre-mutation fetch must not repopulate the cache")
}

// slowSetCache holds the first write of key until release is closed.
type slowSetCache struct {
	cache.Cache
	key     string
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (c *slowSetCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if key == c.key {
		c.once.Do(func() {
			close(c.entered)
			<-c.release
		})
	}
	return c.Cache.Set(ctx, key, value, ttl)
}

func TestInvalidation_WinsOverSlowCacheWrite(t *testing.T) {
	slow := &slowSetCache{
		Cache:   cache.NewMemory(),
		key:     listCacheKey,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	f := newFixtureWithCache(t, slow)
	f.repo.On("List", mock.Anything).Return(model.SeedBooks(), nil).Once()
	f.repo.On("Create", mock.Anything, duneInput()).Return(&model.Book{ID: "13"}, nil)

	listed := make(chan struct{})
	go func() {
		defer close(listed)
		_, _ = f.svc.ListBooks(f.ctx)
	}()
	<-slow.entered

	created := make(chan error, 1)
	go func() {
		_, err := f.svc.CreateBook(f.ctx, duneInput())
		created <- err
	}()

	close(slow.release)
	<-listed
	require.NoError(t, <-created)

	_, ok := f.svc.PeekBooks(f.ctx)
	assert.False(t, ok, "list written before the create must not survive it")
}

func TestGetBook_SharedFetchIgnoresCallerCancel(t *testing.T) {
	f := newFixture(t)
	seed := model.SeedBooks()
	f.repo.On("Get", mock.Anything, "2").Run(func(args mock.Arguments) {
		assert.NoError(t, args.Get(0).(context.Context).Err())
	}).Return(&seed[1], nil).Once()

	ctx, cancel := context.WithCancel(f.ctx)
	cancel()

	b, err := f.svc.GetBook(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "1984", b.Title)
}

func TestGetBook(t *testing.T) {
	t.Run("empty id never reaches the store", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.GetBook(f.ctx, "")
		assert.ErrorIs(t, err, model.ErrMissingID)
		f.repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("cached per id", func(t *testing.T) {
		f := newFixture(t)
		book := &model.Book{ID: "2", Title: "1984"}
		f.repo.On("Get", mock.Anything, "2").Return(book, nil).Once()

		for i := 0; i < 3; i++ {
			got, err := f.svc.GetBook(f.ctx, "2")
			require.NoError(t, err)
			assert.Equal(t, "1984", got.Title)
		}
		f.repo.AssertNumberOfCalls(t, "Get", 1)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("Get", mock.Anything, "404").Return(nil, model.ErrBookNotFound)

		_, err := f.svc.GetBook(f.ctx, "404")
		assert.ErrorIs(t, err, model.ErrBookNotFound)
	})
}

func TestCreateBook(t *testing.T) {
	t.Run("success invalidates and notifies", func(t *testing.T) {
		f := newFixture(t)
		seed := model.SeedBooks()
		created := duneInput().ToBook("13")
		f.repo.On("List", mock.Anything).Return(seed, nil).Once()
		f.repo.On("Create", mock.Anything, duneInput()).Return(&created, nil).Once()
		f.repo.On("List", mock.Anything).Return(append(seed, created), nil).Once()

		_, err := f.svc.ListBooks(f.ctx)
		require.NoError(t, err)

		b, err := f.svc.CreateBook(f.ctx, duneInput())
		require.NoError(t, err)
		assert.Equal(t, "13", b.ID)

		books, err := f.svc.ListBooks(f.ctx)
		require.NoError(t, err)
		assert.Len(t, books, 13)

		toasts := f.collector.Toasts()
		require.Len(t, toasts, 1)
		assert.Equal(t, notification.Success("Book created successfully!"), toasts[0])
		f.repo.AssertExpectations(t)
	})

	t.Run("failure keeps cache and notifies", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("List", mock.Anything).Return(model.SeedBooks(), nil).Once()
		f.repo.On("Create", mock.Anything, duneInput()).Return(nil, model.ErrNetwork)

		_, err := f.svc.ListBooks(f.ctx)
		require.NoError(t, err)

		_, err = f.svc.CreateBook(f.ctx, duneInput())
		assert.ErrorIs(t, err, model.ErrNetwork)

		_, ok := f.svc.PeekBooks(f.ctx)
		assert.True(t, ok, "cache untouched on failure")

		toasts := f.collector.Toasts()
		require.Len(t, toasts, 1)
		assert.Equal(t, notification.Failure("Failed to create book. Please try again."), toasts[0])
	})
}

func TestUpdateBook(t *testing.T) {
	f := newFixture(t)
	before := &model.Book{ID: "2", Title: "1984"}
	in := duneInput()
	after := in.ToBook("2")

	f.repo.On("Get", mock.Anything, "2").Return(before, nil).Once()
	f.repo.On("Update", mock.Anything, "2", in).Return(&after, nil).Once()
	f.repo.On("Get", mock.Anything, "2").Return(&after, nil).Once()

	got, err := f.svc.GetBook(f.ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "1984", got.Title)

	_, err = f.svc.UpdateBook(f.ctx, "2", in)
	require.NoError(t, err)

	got, err = f.svc.GetBook(f.ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title, "book:{id} is invalidated on update")
	assert.Equal(t, "2", got.ID)

	assert.Equal(t, "Book updated successfully!", f.collector.Toasts()[0].Description)

	_, err = f.svc.UpdateBook(f.ctx, "", in)
	assert.ErrorIs(t, err, model.ErrMissingID)
}

func TestDeleteBook(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("Delete", mock.Anything, "3").Return(nil)

		require.NoError(t, f.svc.DeleteBook(f.ctx, "3"))
		assert.Equal(t, "Book deleted successfully!", f.collector.Toasts()[0].Description)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("Delete", mock.Anything, "3").Return(model.ErrBookNotFound)

		err := f.svc.DeleteBook(f.ctx, "3")
		assert.True(t, errors.Is(err, model.ErrBookNotFound))
		assert.Equal(t, notification.Failure("Failed to delete book. Please try again."), f.collector.Toasts()[0])
	})
}

func TestExportBooks(t *testing.T) {
	f := newFixture(t)
	f.repo.On("List", mock.Anything).Return(model.SeedBooks(), nil).Once()

	wb, err := f.svc.ExportBooks(f.ctx, model.Criteria{Genre: "Fiction", Status: model.AllStatus})
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, []string{"1", "To Kill a Mockingbird", "Harper Lee", "Fiction", "1960", "Available"}, rows[1])
	assert.Equal(t, "The Great Gatsby", rows[2][1])
}

func TestSubmitGuard(t *testing.T) {
	g := NewSubmitGuard()
	token := NewFormToken()

	release, err := g.Acquire(token)
	require.NoError(t, err)

	_, err = g.Acquire(token)
	assert.ErrorIs(t, err, model.ErrSubmitInProgress)

	other, err := g.Acquire(NewFormToken())
	require.NoError(t, err)
	other()

	release()
	release()

	again, err := g.Acquire(token)
	require.NoError(t, err)
	again()

	t.Run("missing or malformed tokens are rejected", func(t *testing.T) {
		for _, token := range []string{"", "not-a-uuid", "1234"} {
			release, err := g.Acquire(token)
			assert.ErrorIs(t, err, model.ErrInvalidFormToken, token)
			assert.Nil(t, release)
		}
		assert.False(t, IsFormToken(""))
		assert.True(t, IsFormToken(NewFormToken()))
	})
}
