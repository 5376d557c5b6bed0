package view

import (
	"net/url"
	"strconv"
	"strings"

	"bookmanager/internal/domains/book/model"
)

type Modal string

const (
	ModalClosed Modal = ""
	ModalCreate Modal = "create"
	ModalEdit   Modal = "edit"
)

// PageState is the page controller state. It lives in the URL query so a
// reload or a redirect after a form post restores it.
type PageState struct {
	Search  string
	Genre   string
	Status  string
	Page    int
	Modal   Modal
	EditID  string
	Confirm string
}

func DefaultState() PageState {
	return PageState{Genre: model.AllGenres, Status: model.AllStatus, Page: 1}
}

// ParseState reads state from query values. Unknown or malformed values
// fall back to their defaults.
func ParseState(q url.Values) PageState {
	s := DefaultState()
	s.Search = q.Get("search")

	if g := q.Get("genre"); g != "" && (g == model.AllGenres || isGenre(g)) {
		s.Genre = g
	}
	if st := q.Get("status"); st == model.AllStatus || model.Status(st).IsValid() {
		s.Status = st
	}
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		s.Page = p
	}

	switch Modal(q.Get("modal")) {
	case ModalCreate:
		s.Modal = ModalCreate
	case ModalEdit:
		if id := q.Get("id"); id != "" {
			s.Modal = ModalEdit
			s.EditID = id
		}
	}
	s.Confirm = q.Get("confirm")
	return s
}

func isGenre(g string) bool {
	for _, known := range model.Genres {
		if known == g {
			return true
		}
	}
	return false
}

func (s PageState) WithSearch(v string) PageState {
	s.Search = v
	s.Page = 1
	return s
}

func (s PageState) WithGenre(v string) PageState {
	s.Genre = v
	s.Page = 1
	return s
}

func (s PageState) WithStatus(v string) PageState {
	s.Status = v
	s.Page = 1
	return s
}

func (s PageState) WithPage(p int) PageState {
	s.Page = p
	return s
}

// Listing drops modal and confirmation state, keeping filters and page.
func (s PageState) Listing() PageState {
	s.Modal = ModalClosed
	s.EditID = ""
	s.Confirm = ""
	return s
}

func (s PageState) OpenCreate() PageState {
	s = s.Listing()
	s.Modal = ModalCreate
	return s
}

func (s PageState) OpenEdit(id string) PageState {
	s = s.Listing()
	s.Modal = ModalEdit
	s.EditID = id
	return s
}

func (s PageState) OpenConfirm(id string) PageState {
	s = s.Listing()
	s.Confirm = id
	return s
}

func (s PageState) Criteria() model.Criteria {
	return model.Criteria{Search: s.Search, Genre: s.Genre, Status: s.Status}
}

// Query encodes s, omitting default values.
func (s PageState) Query() url.Values {
	q := url.Values{}
	if s.Search != "" {
		q.Set("search", s.Search)
	}
	if s.Genre != "" && s.Genre != model.AllGenres {
		q.Set("genre", s.Genre)
	}
	if s.Status != "" && s.Status != model.AllStatus {
		q.Set("status", s.Status)
	}
	if s.Page > 1 {
		q.Set("page", strconv.Itoa(s.Page))
	}
	switch s.Modal {
	case ModalCreate:
		q.Set("modal", string(ModalCreate))
	case ModalEdit:
		q.Set("modal", string(ModalEdit))
		q.Set("id", s.EditID)
	}
	if s.Confirm != "" {
		q.Set("confirm", s.Confirm)
	}
	return q
}

// URL returns path with s encoded as its query string.
func (s PageState) URL(path string) string {
	q := s.Query().Encode()
	if q == "" {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&" + q
	}
	return path + "?" + q
}
