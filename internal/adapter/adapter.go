package adapter

import (
	"context"
	"errors"
	"fmt"
)

// LLMAdapter defines the contract for text-generation backends.
// Generate sends one prompt to model and returns the reply text.
type LLMAdapter interface {
	Name() string
	Generate(ctx context.Context, model, prompt string) (string, error)
	Available() bool
}

// ErrNoCredential is returned by adapters that need a secret they were not given.
var ErrNoCredential = errors.New("no API key configured")

// StatusError reports a non-2xx response from a backend.
type StatusError struct {
	Backend    string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: unexpected status %d: %s", e.Backend, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Backend, e.StatusCode)
}

// ModelInfo is exposed via GET /api/models.
type ModelInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Backend string `json:"backend"`
}
