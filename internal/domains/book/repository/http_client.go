package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bookmanager/internal/domains/book/model"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const maxResponseBytes = 4 << 20

// HTTPClientConfig configures the REST backend client.
type HTTPClientConfig struct {
	BaseURL string
	Timeout time.Duration
	// RPS of 0 disables rate limiting.
	RPS   float64
	Burst int
}

// HTTPClient talks to a REST book store exposing /books. It accepts both
// the document-store shape (string "_id") and the numeric "id" shape.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

func NewHTTPClient(cfg HTTPClientConfig) *HTTPClient {
	c := &HTTPClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}

	if cfg.RPS > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}
	return c
}

// wireBook is the backend representation of a book.
type wireBook struct {
	MongoID       string          `json:"_id,omitempty"`
	ID            json.RawMessage `json:"id,omitempty"`
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	Genre         string          `json:"genre"`
	PublishedYear int             `json:"publishedYear"`
	Status        model.Status    `json:"status"`
}

// identifier normalizes "_id" or "id" (string or number) to a string.
func (w wireBook) identifier() (string, error) {
	if w.MongoID != "" {
		return w.MongoID, nil
	}

	raw := bytes.TrimSpace(w.ID)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

func (w wireBook) toBook() (*model.Book, error) {
	id, err := w.identifier()
	if err != nil {
		return nil, fmt.Errorf("%w: bad identifier: %v", model.ErrUnexpectedResponse, err)
	}
	return &model.Book{
		ID:            id,
		Title:         w.Title,
		Author:        w.Author,
		Genre:         w.Genre,
		PublishedYear: w.PublishedYear,
		Status:        w.Status,
	}, nil
}

func (c *HTTPClient) List(ctx context.Context) ([]model.Book, error) {
	var wire []wireBook
	if _, err := c.do(ctx, http.MethodGet, "/books", nil, &wire); err != nil {
		return nil, err
	}

	books := make([]model.Book, 0, len(wire))
	for _, w := range wire {
		b, err := w.toBook()
		if err != nil {
			return nil, err
		}
		if b.ID == "" {
			return nil, fmt.Errorf("%w: book without identifier", model.ErrUnexpectedResponse)
		}
		books = append(books, *b)
	}
	return books, nil
}

func (c *HTTPClient) Get(ctx context.Context, id string) (*model.Book, error) {
	if id == "" {
		return nil, model.ErrMissingID
	}

	var wire wireBook
	hasBody, err := c.do(ctx, http.MethodGet, bookPath(id), nil, &wire)
	if err != nil {
		return nil, err
	}
	if !hasBody {
		return nil, fmt.Errorf("%w: empty body", model.ErrUnexpectedResponse)
	}

	b, err := wire.toBook()
	if err != nil {
		return nil, err
	}
	if b.ID == "" {
		b.ID = id
	}
	return b, nil
}

func (c *HTTPClient) Create(ctx context.Context, in model.BookInput) (*model.Book, error) {
	var wire wireBook
	hasBody, err := c.do(ctx, http.MethodPost, "/books", in, &wire)
	if err != nil {
		return nil, err
	}
	if !hasBody {
		return nil, fmt.Errorf("%w: create returned no body", model.ErrUnexpectedResponse)
	}

	b, err := wire.toBook()
	if err != nil {
		return nil, err
	}
	if b.ID == "" {
		return nil, fmt.Errorf("%w: created book has no identifier", model.ErrUnexpectedResponse)
	}
	return b, nil
}

// Update sends a full replacement. Backends that do not echo the stored
// document (empty body or 204) are read back with a follow-up GET.
func (c *HTTPClient) Update(ctx context.Context, id string, in model.BookInput) (*model.Book, error) {
	if id == "" {
		return nil, model.ErrMissingID
	}

	var wire wireBook
	hasBody, err := c.do(ctx, http.MethodPut, bookPath(id), in, &wire)
	if err != nil {
		return nil, err
	}
	if !hasBody {
		return c.Get(ctx, id)
	}

	b, err := wire.toBook()
	if err != nil {
		return nil, err
	}
	b.ID = id
	return b, nil
}

func (c *HTTPClient) Delete(ctx context.Context, id string) error {
	if id == "" {
		return model.ErrMissingID
	}
	_, err := c.do(ctx, http.MethodDelete, bookPath(id), nil, nil)
	return err
}

func bookPath(id string) string {
	return "/books/" + url.PathEscape(id)
}

// do performs one request. It reports whether the response carried a
// non-empty body, which was decoded into out when out is non-nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out interface{}) (bool, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return false, fmt.Errorf("%w: rate limiter: %w", model.ErrNetwork, err)
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("method", method).Str("path", path).Msg("book store request failed")
		return false, fmt.Errorf("%w: %s %s: %w", model.ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("book store request")

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return false, fmt.Errorf("%w: read body: %w", model.ErrNetwork, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, model.ErrBookNotFound
	case resp.StatusCode >= http.StatusInternalServerError:
		return false, fmt.Errorf("%w: %s %s returned %d", model.ErrNetwork, method, path, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return false, fmt.Errorf("%w: %s %s returned %d", model.ErrUnexpectedResponse, method, path, resp.StatusCode)
	}

	raw = bytes.TrimSpace(raw)
	if resp.StatusCode == http.StatusNoContent || len(raw) == 0 {
		return false, nil
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return false, fmt.Errorf("%w: decode: %w", model.ErrUnexpectedResponse, err)
		}
	}
	return true, nil
}

var _ Repository = (*HTTPClient)(nil)
