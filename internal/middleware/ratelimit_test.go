package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("127.0.0.1") {
			t.Errorf("request %d should be allowed", i)
		}
	}

	if rl.Allow("127.0.0.1") {
		t.Error("4th request should be denied")
	}
}

func TestRateLimiterDifferentKeys(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	if !rl.Allow("10.0.0.1") {
		t.Error("first IP should be allowed")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("second IP should be allowed")
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	rl := NewRateLimiter(1, 50*time.Millisecond)

	if !rl.Allow("127.0.0.1") {
		t.Error("first request should be allowed")
	}
	if rl.Allow("127.0.0.1") {
		t.Error("second request should be denied")
	}

	time.Sleep(60 * time.Millisecond)

	if !rl.Allow("127.0.0.1") {
		t.Error("request after window should be allowed")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(0, time.Minute)

	for i := 0; i < 100; i++ {
		if !rl.Allow("127.0.0.1") {
			t.Fatalf("request %d denied with limiting disabled", i)
		}
	}
}

func TestRateLimitHandler(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	h := RateLimit(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/generate", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	// Different source ports share one client IP.
	for _, remote := range []string{"192.168.1.5:1000", "192.168.1.5:1001"} {
		if code := send(remote).Code; code != http.StatusOK {
			t.Errorf("%s: got %d, want %d", remote, code, http.StatusOK)
		}
	}

	w := send("192.168.1.5:1002")
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status: got %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"error":"rate limit exceeded"}` {
		t.Errorf("body: got %q", got)
	}

	if code := send("192.168.1.6:1000").Code; code != http.StatusOK {
		t.Errorf("other client: got %d, want %d", code, http.StatusOK)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for remote, want := range map[string]string{
		"[::1]:8080":   "::1",
		"10.0.0.1:443": "10.0.0.1",
		"no-port":      "no-port",
	} {
		req.RemoteAddr = remote
		if got := clientIP(req); got != want {
			t.Errorf("clientIP(%q) = %q, want %q", remote, got, want)
		}
	}
}
