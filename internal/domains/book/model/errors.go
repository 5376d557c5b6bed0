package model

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrBookNotFound       = errors.New("book not found")
	ErrNetwork            = errors.New("network error")
	ErrUnexpectedResponse = errors.New("unexpected response from book store")
	ErrMissingID          = errors.New("book id is required")
	ErrSubmitInProgress   = errors.New("submission already in progress")
	ErrInvalidFormToken   = errors.New("missing or malformed form token")
	ErrValidation         = errors.New("validation failed")
)

type errorInfo struct {
	Status  int
	Code    string
	Title   string
	Message string
}

var bookErrorMap = map[error]errorInfo{
	ErrBookNotFound: {
		Status:  http.StatusNotFound,
		Code:    "BOOK_NOT_FOUND",
		Title:   "Book not found",
		Message: "The specified book does not exist",
	},
	ErrNetwork: {
		Status:  http.StatusBadGateway,
		Code:    "BOOK_STORE_UNAVAILABLE",
		Title:   "Book store unavailable",
		Message: "The book store could not be reached",
	},
	ErrUnexpectedResponse: {
		Status:  http.StatusBadGateway,
		Code:    "BOOK_STORE_BAD_RESPONSE",
		Title:   "Unexpected response",
		Message: "The book store returned an unexpected response",
	},
	ErrMissingID: {
		Status:  http.StatusBadRequest,
		Code:    "BOOK_ID_REQUIRED",
		Title:   "Missing id",
		Message: "A book id is required",
	},
	ErrSubmitInProgress: {
		Status:  http.StatusConflict,
		Code:    "SUBMIT_IN_PROGRESS",
		Title:   "Already saving",
		Message: "This form is already being submitted",
	},
	ErrInvalidFormToken: {
		Status:  http.StatusBadRequest,
		Code:    "INVALID_FORM_TOKEN",
		Title:   "Form expired",
		Message: "This form has expired. Please try again",
	},
	ErrValidation: {
		Status:  http.StatusUnprocessableEntity,
		Code:    "VALIDATION_FAILED",
		Title:   "Invalid book",
		Message: "The book data is invalid",
	},
}

// lookup finds the table entry for err, following wrapped errors.
func lookup(err error) (errorInfo, bool) {
	for sentinel, info := range bookErrorMap {
		if errors.Is(err, sentinel) {
			return info, true
		}
	}
	return errorInfo{}, false
}

// StatusFor maps err to the HTTP status a handler should answer with.
// Unknown errors map to 500.
func StatusFor(err error) int {
	if info, ok := lookup(err); ok {
		return info.Status
	}
	return http.StatusInternalServerError
}

// CodeFor returns the machine readable code for err.
func CodeFor(err error) string {
	if info, ok := lookup(err); ok {
		return info.Code
	}
	return "INTERNAL_ERROR"
}

// MessageFor returns a user facing message for err.
func MessageFor(err error) string {
	if info, ok := lookup(err); ok {
		return info.Message
	}
	return "Internal server error"
}

// ValidationError carries one message per invalid field, keyed by the
// field's JSON name.
type ValidationError struct {
	Fields map[string]string
}

func newValidationError(errs validation.Errors) *ValidationError {
	fields := make(map[string]string, len(errs))
	for name, err := range errs {
		if err != nil {
			fields[name] = err.Error()
		}
	}
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Field returns the message for name, or "" when the field is valid.
func (e *ValidationError) Field(name string) string {
	if e == nil {
		return ""
	}
	return e.Fields[name]
}
