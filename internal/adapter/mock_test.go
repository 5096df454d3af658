package adapter

import (
	"context"
	"testing"
	"time"
)

func TestMockAdapterGenerate(t *testing.T) {
	m := &MockAdapter{}

	tests := []struct {
		name  string
		model string
		input string
		want  string
	}{
		{"echoes prompt", "gemma:2b", "hello world", "[gemma:2b] hello world"},
		{"trims whitespace", "phi3:3.8b", "  hello world  ", "[phi3:3.8b] hello world"},
		{"empty prompt", "gemma:2b", "", "[gemma:2b] "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Generate(context.Background(), tt.model, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMockAdapterContextCancel(t *testing.T) {
	m := &MockAdapter{Delay: 5 * time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Generate(ctx, "gemma:2b", "hello")
	if err == nil {
		t.Error("expected error on cancelled context, got nil")
	}
}

func TestMockAdapterAvailable(t *testing.T) {
	m := &MockAdapter{}
	if !m.Available() {
		t.Error("mock adapter should always be available")
	}
}

func TestMockAdapterName(t *testing.T) {
	m := &MockAdapter{}
	if m.Name() != "Mock" {
		t.Errorf("got %q, want %q", m.Name(), "Mock")
	}
}
