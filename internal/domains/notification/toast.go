package notification

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Toast is a short user facing message about the outcome of an action.
type Toast struct {
	Variant     Variant `json:"variant"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
}

func Success(description string) Toast {
	return Toast{Variant: VariantDefault, Title: "Success", Description: description}
}

func Failure(description string) Toast {
	return Toast{Variant: VariantDestructive, Title: "Error", Description: description}
}

// Collector accumulates the toasts raised while serving one request.
type Collector struct {
	mu     sync.Mutex
	toasts []Toast
}

func (c *Collector) Add(t Toast) {
	c.mu.Lock()
	c.toasts = append(c.toasts, t)
	c.mu.Unlock()
}

// Toasts returns a copy of the collected toasts in the order raised.
func (c *Collector) Toasts() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Toast, len(c.toasts))
	copy(out, c.toasts)
	return out
}

type collectorKey struct{}

func WithCollector(ctx context.Context, c *Collector) context.Context {
	return context.WithValue(ctx, collectorKey{}, c)
}

// CollectorFrom returns the request's collector, or nil outside a request.
func CollectorFrom(ctx context.Context) *Collector {
	c, _ := ctx.Value(collectorKey{}).(*Collector)
	return c
}

// Notifier delivers toasts to the user.
type Notifier interface {
	Notify(ctx context.Context, t Toast)
}

type notifier struct{}

// NewNotifier returns a Notifier that logs each toast and hands it to the
// request's Collector when there is one.
func NewNotifier() Notifier {
	return notifier{}
}

func (notifier) Notify(ctx context.Context, t Toast) {
	log.Ctx(ctx).Debug().
		Str("variant", string(t.Variant)).
		Str("title", t.Title).
		Msg(t.Description)

	if c := CollectorFrom(ctx); c != nil {
		c.Add(t)
	}
}
