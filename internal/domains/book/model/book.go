package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Status is the circulation state of a book.
type Status string

const (
	StatusAvailable Status = "Available"
	StatusIssued    Status = "Issued"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusIssued:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// Statuses lists the selectable statuses in display order.
var Statuses = []Status{StatusAvailable, StatusIssued}

// Genres is the closed list of genres a book may carry.
var Genres = []string{
	"Fiction",
	"Non-Fiction",
	"Fantasy",
	"Romance",
	"Mystery",
	"Thriller",
	"Science Fiction",
	"Historical Fiction",
	"Biography",
	"Adventure",
	"Dystopian",
	"Other",
}

// Filter sentinels meaning "do not filter on this dimension".
const (
	AllGenres = "all-genres"
	AllStatus = "all-status"
)

const (
	MinPublishedYear = 1000
	MaxTitleLength   = 100
	MaxAuthorLength  = 50
)

// nowFunc is swapped in tests to pin the current year.
var nowFunc = time.Now

func CurrentYear() int {
	return nowFunc().Year()
}

// Book is a catalog record as held by the backend.
type Book struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Genre         string `json:"genre"`
	PublishedYear int    `json:"publishedYear"`
	Status        Status `json:"status"`
}

// Input returns the editable fields of b.
func (b Book) Input() BookInput {
	return BookInput{
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		PublishedYear: b.PublishedYear,
		Status:        b.Status,
	}
}

// BookInput is a Book without its identifier: the payload of create and
// update requests.
type BookInput struct {
	Title         string `json:"title" form:"title"`
	Author        string `json:"author" form:"author"`
	Genre         string `json:"genre" form:"genre"`
	PublishedYear int    `json:"publishedYear" form:"publishedYear"`
	Status        Status `json:"status" form:"status"`
}

// NewBookInput returns the defaults of an empty create form.
func NewBookInput() BookInput {
	return BookInput{
		PublishedYear: CurrentYear(),
		Status:        StatusAvailable,
	}
}

// Normalize trims surrounding whitespace from the text fields.
func (in *BookInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Genre = strings.TrimSpace(in.Genre)
}

// ToBook attaches id to the input.
func (in BookInput) ToBook(id string) Book {
	return Book{
		ID:            id,
		Title:         in.Title,
		Author:        in.Author,
		Genre:         in.Genre,
		PublishedYear: in.PublishedYear,
		Status:        in.Status,
	}
}

func (in BookInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Title,
			validation.Required.Error("Title is required"),
			validation.RuneLength(1, MaxTitleLength).Error("Title must be less than 100 characters"),
		),
		validation.Field(&in.Author,
			validation.Required.Error("Author is required"),
			validation.RuneLength(1, MaxAuthorLength).Error("Author must be less than 50 characters"),
		),
		validation.Field(&in.Genre,
			validation.Required.Error("Genre is required"),
			validation.In(genreValues()...).Error("Genre is not in the list"),
		),
		validation.Field(&in.PublishedYear,
			validation.Required.Error("Invalid year"),
			validation.Min(MinPublishedYear).Error("Invalid year"),
			validation.Max(CurrentYear()).Error("Year cannot be in the future"),
		),
		validation.Field(&in.Status,
			validation.Required.Error("Status must be Available or Issued"),
			validation.In(StatusAvailable, StatusIssued).Error("Status must be Available or Issued"),
		),
	)
	if err == nil {
		return nil
	}

	if errs, ok := err.(validation.Errors); ok {
		return newValidationError(errs)
	}
	return err
}

func genreValues() []interface{} {
	values := make([]interface{}, len(Genres))
	for i, g := range Genres {
		values[i] = g
	}
	return values
}
