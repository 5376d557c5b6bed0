package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbered(n int) []Book {
	books := make([]Book, n)
	for i := range books {
		books[i] = Book{ID: fmt.Sprint(i + 1), Title: fmt.Sprintf("Book %d", i+1), Genre: "Fiction", Status: StatusAvailable}
	}
	return books
}

func TestFilter(t *testing.T) {
	books := SeedBooks()

	t.Run("search 1984 finds exactly one", func(t *testing.T) {
		got := Filter(books, Criteria{Search: "1984", Genre: AllGenres, Status: AllStatus})
		require.Len(t, got, 1)
		assert.Equal(t, "1984", got[0].Title)
	})

	t.Run("search matches author case-insensitively", func(t *testing.T) {
		got := Filter(books, Criteria{Search: "ORWELL"})
		require.Len(t, got, 1)
		assert.Equal(t, "George Orwell", got[0].Author)
	})

	t.Run("genre and status combine", func(t *testing.T) {
		got := Filter(books, Criteria{Genre: "Fiction", Status: string(StatusIssued)})
		require.Len(t, got, 1)
		assert.Equal(t, "The Great Gatsby", got[0].Title)
	})

	t.Run("sentinels do not filter", func(t *testing.T) {
		assert.Equal(t, books, Filter(books, Criteria{Genre: AllGenres, Status: AllStatus}))
	})

	t.Run("idempotent", func(t *testing.T) {
		for _, c := range []Criteria{
			{Search: "the"},
			{Genre: "Fiction"},
			{Status: string(StatusAvailable)},
			{Search: "a", Genre: "Romance", Status: string(StatusAvailable)},
		} {
			once := Filter(books, c)
			assert.Equal(t, once, Filter(once, c), "%+v", c)
		}
	})

	t.Run("does not modify input", func(t *testing.T) {
		before := SeedBooks()
		Filter(books, Criteria{Search: "x"})
		assert.Equal(t, before, books)
	})
}

func TestPaginate(t *testing.T) {
	t.Run("twelve books page one", func(t *testing.T) {
		p := Paginate(SeedBooks(), 1)
		assert.Len(t, p.Items, 10)
		assert.Equal(t, 2, p.TotalPages)
		assert.Equal(t, 1, p.StartItem)
		assert.Equal(t, 10, p.EndItem)
	})

	t.Run("last page is partial", func(t *testing.T) {
		p := Paginate(SeedBooks(), 2)
		assert.Len(t, p.Items, 2)
		assert.Equal(t, 11, p.StartItem)
		assert.Equal(t, 12, p.EndItem)
	})

	t.Run("concatenated pages rebuild the list", func(t *testing.T) {
		for _, n := range []int{0, 1, 9, 10, 11, 25, 40} {
			books := numbered(n)
			var all []Book
			for page := 1; page <= TotalPages(n); page++ {
				all = append(all, Paginate(books, page).Items...)
			}
			if n == 0 {
				assert.Empty(t, all)
				continue
			}
			assert.Equal(t, books, all, "n=%d", n)
		}
	})

	t.Run("empty list has no pages", func(t *testing.T) {
		p := Paginate(nil, 1)
		assert.Equal(t, 0, p.TotalPages)
		assert.Empty(t, p.Items)
		assert.Zero(t, p.StartItem)
	})

	t.Run("out of range is empty", func(t *testing.T) {
		assert.Empty(t, Paginate(SeedBooks(), 3).Items)
		assert.Empty(t, Paginate(SeedBooks(), 0).Items)
	})
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(0, 3))
	assert.Equal(t, 3, ClampPage(9, 3))
	assert.Equal(t, 2, ClampPage(2, 3))
	assert.Equal(t, 1, ClampPage(5, 0))
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		current, total int
		want           []int
	}{
		{1, 0, nil},
		{1, 1, []int{1}},
		{1, 2, []int{1, 2}},
		{1, 10, []int{1, 2, 3, 4, 5}},
		{3, 10, []int{1, 2, 3, 4, 5}},
		{6, 10, []int{4, 5, 6, 7, 8}},
		{10, 10, []int{6, 7, 8, 9, 10}},
		{9, 10, []int{6, 7, 8, 9, 10}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d of %d", tt.current, tt.total), func(t *testing.T) {
			assert.Equal(t, tt.want, PageWindow(tt.current, tt.total))
		})
	}
}
