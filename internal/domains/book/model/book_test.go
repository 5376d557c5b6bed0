package model

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pinYear(t *testing.T, year int) {
	t.Helper()
	prev := nowFunc
	nowFunc = func() time.Time { return time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { nowFunc = prev })
}

func validInput() BookInput {
	return BookInput{
		Title:         "Dune",
		Author:        "Frank Herbert",
		Genre:         "Science Fiction",
		PublishedYear: 1965,
		Status:        StatusAvailable,
	}
}

func TestBookInput_Validate(t *testing.T) {
	pinYear(t, 2026)

	tests := []struct {
		name   string
		mutate func(in *BookInput)
		field  string
		msg    string
	}{
		{"empty title", func(in *BookInput) { in.Title = "" }, "title", "Title is required"},
		{"long title", func(in *BookInput) { in.Title = strings.Repeat("a", 101) }, "title", "Title must be less than 100 characters"},
		{"empty author", func(in *BookInput) { in.Author = "" }, "author", "Author is required"},
		{"long author", func(in *BookInput) { in.Author = strings.Repeat("b", 51) }, "author", "Author must be less than 50 characters"},
		{"empty genre", func(in *BookInput) { in.Genre = "" }, "genre", "Genre is required"},
		{"unknown genre", func(in *BookInput) { in.Genre = "Cookbook" }, "genre", "Genre is not in the list"},
		{"year too old", func(in *BookInput) { in.PublishedYear = 999 }, "publishedYear", "Invalid year"},
		{"year zero", func(in *BookInput) { in.PublishedYear = 0 }, "publishedYear", "Invalid year"},
		{"future year", func(in *BookInput) { in.PublishedYear = 2027 }, "publishedYear", "Year cannot be in the future"},
		{"bad status", func(in *BookInput) { in.Status = "Lost" }, "status", "Status must be Available or Issued"},
		{"empty status", func(in *BookInput) { in.Status = "" }, "status", "Status must be Available or Issued"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			err := in.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.msg, verr.Field(tt.field))
			assert.Len(t, verr.Fields, 1)
		})
	}

	t.Run("boundaries are accepted", func(t *testing.T) {
		in := validInput()
		in.Title = strings.Repeat("a", 100)
		in.Author = strings.Repeat("b", 50)
		in.PublishedYear = 2026
		assert.NoError(t, in.Validate())

		in.PublishedYear = 1000
		assert.NoError(t, in.Validate())
	})

	t.Run("every genre is accepted", func(t *testing.T) {
		for _, g := range Genres {
			in := validInput()
			in.Genre = g
			assert.NoError(t, in.Validate(), g)
		}
	})
}

func TestNewBookInput_Defaults(t *testing.T) {
	pinYear(t, 2031)

	in := NewBookInput()
	assert.Equal(t, 2031, in.PublishedYear)
	assert.Equal(t, StatusAvailable, in.Status)
	assert.Empty(t, in.Title)
}

func TestBook_InputRoundTrip(t *testing.T) {
	b := Book{ID: "7", Title: "Emma", Author: "Jane Austen", Genre: "Romance", PublishedYear: 1815, Status: StatusIssued}
	assert.Equal(t, b, b.Input().ToBook("7"))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, 404, StatusFor(ErrBookNotFound))
	assert.Equal(t, 502, StatusFor(errors.Join(errors.New("timeout"), ErrNetwork)))
	assert.Equal(t, 409, StatusFor(ErrSubmitInProgress))
	assert.Equal(t, 400, StatusFor(ErrInvalidFormToken))
	assert.Equal(t, "INVALID_FORM_TOKEN", CodeFor(fmt.Errorf("submit: %w", ErrInvalidFormToken)))
	assert.Equal(t, 422, StatusFor(&ValidationError{Fields: map[string]string{"title": "Title is required"}}))
	assert.Equal(t, 500, StatusFor(errors.New("boom")))
	assert.Equal(t, "BOOK_NOT_FOUND", CodeFor(ErrBookNotFound))
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"title": "Title is required", "author": "Author is required"}}
	assert.Equal(t, "validation failed: author: Author is required; title: Title is required", err.Error())
}
