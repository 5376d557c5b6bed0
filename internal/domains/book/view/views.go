package view

import (
	"fmt"
	"net/url"

	"bookmanager/internal/domains/book/model"
	"bookmanager/internal/domains/notification"
)

const (
	EmptyMessage   = "No books found. Add your first book to get started!"
	LoadErrorTitle = "Error loading books. Please try again later."

	skeletonRows      = 5
	indexPath         = "/"
	tableFragmentPath = "/books/table"
)

// Option is one choice of a filter select. URL is the listing with that
// choice applied, back on page 1.
type Option struct {
	Value    string
	Label    string
	Selected bool
	URL      string
}

// FilterBar drives the search box and the genre and status selects.
type FilterBar struct {
	Search         string
	ClearSearchURL string
	GenreOptions   []Option
	StatusOptions  []Option
}

func NewFilterBar(s PageState) FilterBar {
	listing := s.Listing()

	genre := func(value, label string) Option {
		return Option{Value: value, Label: label, Selected: s.Genre == value, URL: listing.WithGenre(value).URL(indexPath)}
	}
	genres := []Option{genre(model.AllGenres, "All Genres")}
	for _, g := range model.Genres {
		genres = append(genres, genre(g, g))
	}

	status := func(value, label string) Option {
		return Option{Value: value, Label: label, Selected: s.Status == value, URL: listing.WithStatus(value).URL(indexPath)}
	}
	statuses := []Option{status(model.AllStatus, "All Status")}
	for _, st := range model.Statuses {
		statuses = append(statuses, status(string(st), string(st)))
	}

	bar := FilterBar{Search: s.Search, GenreOptions: genres, StatusOptions: statuses}
	if s.Search != "" {
		bar.ClearSearchURL = listing.WithSearch("").URL(indexPath)
	}
	return bar
}

type TableRow struct {
	Book       model.Book
	Available  bool
	EditURL    string
	ConfirmURL string
}

type PageLink struct {
	Number   int
	URL      string
	Active   bool
	Disabled bool
}

// PaginationView is hidden when there is at most one page.
type PaginationView struct {
	Visible bool
	Summary string
	Prev    PageLink
	Next    PageLink
	Pages   []PageLink
}

func NewPagination(p model.Page, s PageState) PaginationView {
	if p.TotalPages <= 1 {
		return PaginationView{}
	}

	listing := s.Listing()
	v := PaginationView{
		Visible: true,
		Summary: fmt.Sprintf("Showing %d to %d of %d books", p.StartItem, p.EndItem, p.TotalItems),
		Prev: PageLink{
			Number:   p.CurrentPage - 1,
			URL:      listing.WithPage(p.CurrentPage - 1).URL(indexPath),
			Disabled: p.CurrentPage <= 1,
		},
		Next: PageLink{
			Number:   p.CurrentPage + 1,
			URL:      listing.WithPage(p.CurrentPage + 1).URL(indexPath),
			Disabled: p.CurrentPage >= p.TotalPages,
		},
	}

	for _, n := range model.PageWindow(p.CurrentPage, p.TotalPages) {
		v.Pages = append(v.Pages, PageLink{
			Number: n,
			URL:    listing.WithPage(n).URL(indexPath),
			Active: n == p.CurrentPage,
		})
	}
	return v
}

// TableView is the listing fragment: a loading skeleton, the empty state,
// or rows plus pagination.
type TableView struct {
	Loading     bool
	Skeleton    []int
	FragmentURL string
	Empty       bool
	Message     string
	Rows        []TableRow
	Pagination  PaginationView
}

// LoadingTable is rendered while the catalog has not been fetched yet.
func LoadingTable(s PageState) TableView {
	return TableView{
		Loading:     true,
		Skeleton:    make([]int, skeletonRows),
		FragmentURL: s.Listing().URL(tableFragmentPath),
	}
}

// NewTable derives the visible page from the full catalog. The page
// number in s is clamped into range first.
func NewTable(books []model.Book, s PageState) (TableView, PageState) {
	filtered := model.Filter(books, s.Criteria())
	s.Page = model.ClampPage(s.Page, model.TotalPages(len(filtered)))
	page := model.Paginate(filtered, s.Page)

	if len(page.Items) == 0 {
		return TableView{Empty: true, Message: EmptyMessage}, s
	}

	rows := make([]TableRow, len(page.Items))
	for i, b := range page.Items {
		rows[i] = TableRow{
			Book:       b,
			Available:  b.Status == model.StatusAvailable,
			EditURL:    s.OpenEdit(b.ID).URL(indexPath),
			ConfirmURL: s.OpenConfirm(b.ID).URL(indexPath),
		}
	}

	return TableView{Rows: rows, Pagination: NewPagination(page, s)}, s
}

// FormView backs the create/edit modal.
type FormView struct {
	Title       string
	SubmitLabel string
	SavingLabel string
	Action      string
	CancelURL   string
	Token       string
	Values      model.BookInput
	Errors      map[string]string
	Genres      []string
	Statuses    []model.Status
	MaxYear     int
}

func newForm(s PageState, values model.BookInput, verr *model.ValidationError, token string) *FormView {
	f := &FormView{
		SavingLabel: "Saving...",
		CancelURL:   s.Listing().URL(indexPath),
		Token:       token,
		Values:      values,
		Errors:      map[string]string{},
		Genres:      model.Genres,
		Statuses:    model.Statuses,
		MaxYear:     model.CurrentYear(),
	}
	if verr != nil {
		f.Errors = verr.Fields
	}
	return f
}

// NewCreateForm renders the "Add New Book" modal.
func NewCreateForm(s PageState, values model.BookInput, verr *model.ValidationError, token string) *FormView {
	f := newForm(s, values, verr, token)
	f.Title = "Add New Book"
	f.SubmitLabel = "Add Book"
	f.Action = s.Listing().URL("/books")
	return f
}

// NewEditForm renders the "Edit Book" modal for id.
func NewEditForm(s PageState, id string, values model.BookInput, verr *model.ValidationError, token string) *FormView {
	f := newForm(s, values, verr, token)
	f.Title = "Edit Book"
	f.SubmitLabel = "Update Book"
	f.Action = s.Listing().URL("/books/" + url.PathEscape(id))
	return f
}

// ConfirmView is the delete confirmation dialog.
type ConfirmView struct {
	Message   string
	Action    string
	CancelURL string
}

func NewConfirm(s PageState, b model.Book) *ConfirmView {
	return &ConfirmView{
		Message:   fmt.Sprintf("Are you sure you want to delete \"%s\"? This action cannot be undone.", b.Title),
		Action:    s.Listing().URL("/books/" + url.PathEscape(b.ID) + "/delete"),
		CancelURL: s.Listing().URL(indexPath),
	}
}

// IndexView is the whole page.
type IndexView struct {
	AppName   string
	Filters   FilterBar
	Table     TableView
	Form      *FormView
	Confirm   *ConfirmView
	Toasts    []notification.Toast
	CreateURL string
	ExportURL string
	ResetURL  string
}

func NewIndex(appName string, s PageState, table TableView) IndexView {
	return IndexView{
		AppName:   appName,
		Filters:   NewFilterBar(s),
		Table:     table,
		CreateURL: s.OpenCreate().URL(indexPath),
		ExportURL: s.Listing().WithPage(1).URL("/books/export"),
		ResetURL:  indexPath,
	}
}

// ErrorView is the terminal state when the catalog cannot be loaded.
type ErrorView struct {
	AppName string
	Title   string
}

func NewErrorView(appName string) ErrorView {
	return ErrorView{AppName: appName, Title: LoadErrorTitle}
}
