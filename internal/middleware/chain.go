package middleware

import (
	"net/http"
	"time"
)

// Options configures Chain. Timeout of zero leaves requests unbounded,
// since generation on a local CPU can take minutes.
type Options struct {
	APIKey   string
	MaxBytes int64
	Timeout  time.Duration
}

// Chain wraps the handler with the full middleware stack.
// Order: CORS → RequestID → Logging → Metrics → RateLimit → APIKey → MaxBytes → Timeout → router
func Chain(handler http.Handler, rl *RateLimiter, opts Options) http.Handler {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 64 * 1024
	}

	h := handler
	if opts.Timeout > 0 {
		h = http.TimeoutHandler(h, opts.Timeout, `{"error":"request timeout"}`)
	}
	h = MaxBytes(opts.MaxBytes)(h)
	h = APIKey(opts.APIKey)(h)
	h = RateLimit(rl)(h)
	h = Metrics(h)
	h = Logging(h)
	h = RequestID(h)
	h = CORS(h)
	return h
}
