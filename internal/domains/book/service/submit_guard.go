package service

import (
	"sync"

	"bookmanager/internal/domains/book/model"

	"github.com/google/uuid"
)

// SubmitGuard rejects a second submission of a form while the first one
// is still being processed. Forms are identified by a token minted when
// the form is rendered.
type SubmitGuard struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewSubmitGuard() *SubmitGuard {
	return &SubmitGuard{inflight: make(map[string]struct{})}
}

// NewFormToken mints a token for a freshly rendered form.
func NewFormToken() string {
	return uuid.NewString()
}

// IsFormToken reports whether token looks like one minted by NewFormToken.
func IsFormToken(token string) bool {
	_, err := uuid.Parse(token)
	return err == nil
}

// Acquire marks token as in flight. The returned release must be called
// once the submission has finished. Missing or malformed tokens are
// rejected with model.ErrInvalidFormToken.
func (g *SubmitGuard) Acquire(token string) (func(), error) {
	if !IsFormToken(token) {
		return nil, model.ErrInvalidFormToken
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inflight[token]; busy {
		return nil, model.ErrSubmitInProgress
	}
	g.inflight[token] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inflight, token)
			g.mu.Unlock()
		})
	}, nil
}
