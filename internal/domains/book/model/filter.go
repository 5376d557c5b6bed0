package model

import "strings"

const (
	PageSize       = 10
	MaxPageButtons = 5
)

// Criteria is the filter state of the listing. Empty Genre or Status are
// treated like their "all" sentinels.
type Criteria struct {
	Search string
	Genre  string
	Status string
}

func (c Criteria) matches(b Book) bool {
	if c.Search != "" {
		term := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(b.Title), term) &&
			!strings.Contains(strings.ToLower(b.Author), term) {
			return false
		}
	}
	if c.Genre != "" && c.Genre != AllGenres && c.Genre != b.Genre {
		return false
	}
	if c.Status != "" && c.Status != AllStatus && c.Status != string(b.Status) {
		return false
	}
	return true
}

// Filter returns the books matching c, preserving order.
// The input slice is not modified.
func Filter(books []Book, c Criteria) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if c.matches(b) {
			out = append(out, b)
		}
	}
	return out
}

// Page is one page of a filtered listing.
type Page struct {
	Items       []Book
	CurrentPage int
	TotalPages  int
	TotalItems  int
	// StartItem and EndItem are 1-based and inclusive; both are 0 for an
	// empty page.
	StartItem int
	EndItem   int
}

func TotalPages(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + PageSize - 1) / PageSize
}

// ClampPage forces page into [1, totalPages]. With no pages it returns 1.
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Paginate slices books to page. Out of range pages yield no items.
func Paginate(books []Book, page int) Page {
	p := Page{
		CurrentPage: page,
		TotalItems:  len(books),
		TotalPages:  TotalPages(len(books)),
		Items:       []Book{},
	}

	if page < 1 {
		return p
	}
	start := (page - 1) * PageSize
	if start >= len(books) {
		return p
	}
	end := start + PageSize
	if end > len(books) {
		end = len(books)
	}

	p.Items = books[start:end]
	p.StartItem = start + 1
	p.EndItem = end
	return p
}

// PageWindow returns at most MaxPageButtons page numbers centered on
// current and clamped to [1, total].
func PageWindow(current, total int) []int {
	if total <= 0 {
		return nil
	}

	start := current - MaxPageButtons/2
	if start < 1 {
		start = 1
	}
	end := start + MaxPageButtons - 1
	if end > total {
		end = total
	}
	if end-start+1 < MaxPageButtons {
		start = end - MaxPageButtons + 1
		if start < 1 {
			start = 1
		}
	}

	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}
