package adapter

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// MockAdapter echoes the prompt back after a configurable delay.
// Used for development and testing without a real Ollama daemon.
type MockAdapter struct {
	Delay time.Duration
}

func (m *MockAdapter) Name() string { return "Mock" }

func (m *MockAdapter) Generate(ctx context.Context, model, prompt string) (string, error) {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return "", fmt.Errorf("mock: %w", ctx.Err())
		}
	}
	return fmt.Sprintf("[%s] %s", model, strings.TrimSpace(prompt)), nil
}

func (m *MockAdapter) Available() bool { return true }
