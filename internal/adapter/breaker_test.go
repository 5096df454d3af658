package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

type stubAdapter struct {
	calls int
	err   error
}

func (s *stubAdapter) Name() string    { return "stub" }
func (s *stubAdapter) Available() bool { return true }
func (s *stubAdapter) Generate(ctx context.Context, model, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return model + ":" + prompt, nil
}

func TestBreakerPassesThrough(t *testing.T) {
	stub := &stubAdapter{}
	b := WithBreaker("local", stub, 2, time.Minute)

	got, err := b.Generate(context.Background(), "gemma:2b", "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "gemma:2b:hi" {
		t.Errorf("got %q, want %q", got, "gemma:2b:hi")
	}
	if b.Name() != "stub" {
		t.Errorf("name: got %q, want %q", b.Name(), "stub")
	}
	if b.Unwrap() != stub {
		t.Error("Unwrap should return the guarded adapter")
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	stub := &stubAdapter{err: errors.New("connection refused")}
	b := WithBreaker("local", stub, 2, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := b.Generate(context.Background(), "m", "p"); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}
	if b.State() != gobreaker.StateOpen {
		t.Fatalf("state: got %v, want open", b.State())
	}
	if b.Available() {
		t.Error("open breaker should report unavailable")
	}

	_, err := b.Generate(context.Background(), "m", "p")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
	if stub.calls != 2 {
		t.Errorf("open breaker must not call the backend: calls = %d", stub.calls)
	}
}

func TestBreakerIgnoresCancellation(t *testing.T) {
	stub := &stubAdapter{err: context.Canceled}
	b := WithBreaker("cloud", stub, 1, time.Minute)

	for i := 0; i < 3; i++ {
		b.Generate(context.Background(), "m", "p")
	}
	if b.State() != gobreaker.StateClosed {
		t.Errorf("state: got %v, want closed", b.State())
	}
	if stub.calls != 3 {
		t.Errorf("calls: got %d, want 3", stub.calls)
	}
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantState gobreaker.State
	}{
		{"404 unknown model", &StatusError{Backend: "ollama", StatusCode: http.StatusNotFound}, gobreaker.StateClosed},
		{"400 bad request", &StatusError{Backend: "cloud", StatusCode: http.StatusBadRequest}, gobreaker.StateClosed},
		{"500 server error", &StatusError{Backend: "ollama", StatusCode: http.StatusInternalServerError}, gobreaker.StateOpen},
		{"503 unavailable", &StatusError{Backend: "cloud", StatusCode: http.StatusServiceUnavailable}, gobreaker.StateOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := WithBreaker("local", &stubAdapter{err: tt.err}, 2, time.Minute)
			for i := 0; i < 3; i++ {
				b.Generate(context.Background(), "m", "p")
			}
			if b.State() != tt.wantState {
				t.Errorf("state: got %v, want %v", b.State(), tt.wantState)
			}
		})
	}
}

func TestBreakerUnknownModelDoesNotBlockOthers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaGenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if req.Model == "nope" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"model 'nope' not found"}`))
			return
		}
		w.Write([]byte(`{"response":"hello"}`))
	}))
	defer srv.Close()

	b := WithBreaker("local", &OllamaAdapter{BaseURL: srv.URL}, 5, 30*time.Second)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := b.Generate(ctx, "nope", "hi")
		var se *StatusError
		if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
			t.Fatalf("call %d: expected 404 StatusError, got %v", i, err)
		}
	}

	got, err := b.Generate(ctx, "gemma:2b", "hi")
	if err != nil {
		t.Fatalf("valid model after unknown ones: %v", err)
	}
	if got != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
	if b.State() != gobreaker.StateClosed {
		t.Errorf("state: got %v, want closed", b.State())
	}
}

func TestBreakerHalfOpenRecovers(t *testing.T) {
	stub := &stubAdapter{err: errors.New("boom")}
	b := WithBreaker("local", stub, 1, 20*time.Millisecond)

	b.Generate(context.Background(), "m", "p")
	if b.State() != gobreaker.StateOpen {
		t.Fatalf("state: got %v, want open", b.State())
	}

	time.Sleep(30 * time.Millisecond)
	stub.err = nil

	got, err := b.Generate(context.Background(), "m", "p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "m:p" {
		t.Errorf("got %q, want %q", got, "m:p")
	}
	if b.State() != gobreaker.StateClosed {
		t.Errorf("state: got %v, want closed", b.State())
	}
}
