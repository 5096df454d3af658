package adapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerAdapter wraps another adapter with a circuit breaker. After
// MaxFailures consecutive failures calls fail fast with
// gobreaker.ErrOpenState until OpenTimeout has elapsed.
type BreakerAdapter struct {
	next LLMAdapter
	cb   *gobreaker.CircuitBreaker
}

// WithBreaker returns next guarded by a breaker named name.
func WithBreaker(name string, next LLMAdapter, maxFailures uint32, openTimeout time.Duration) *BreakerAdapter {
	if maxFailures == 0 {
		maxFailures = 5
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: countsAsHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	return &BreakerAdapter{next: next, cb: cb}
}

// countsAsHealthy reports whether err leaves the backend's health
// unchanged. A caller hanging up or a 4xx such as an unknown model
// says nothing about the backend itself.
func countsAsHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode < 500
}

func (b *BreakerAdapter) Name() string { return b.next.Name() }

func (b *BreakerAdapter) Generate(ctx context.Context, model, prompt string) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Generate(ctx, model, prompt)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// Available reports false while the breaker is open.
func (b *BreakerAdapter) Available() bool {
	return b.cb.State() != gobreaker.StateOpen && b.next.Available()
}

// State exposes the breaker state for health reporting.
func (b *BreakerAdapter) State() gobreaker.State { return b.cb.State() }

// Unwrap returns the guarded adapter.
func (b *BreakerAdapter) Unwrap() LLMAdapter { return b.next }
