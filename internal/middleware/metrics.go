package middleware

import (
	"net/http"
	"strconv"

	"github.com/mlorentedev/promptdesk/internal/metrics"
)

// knownPaths are the routes served by the router. Anything else is counted
// under "other" so scanners cannot blow up label cardinality.
var knownPaths = map[string]bool{
	"/":             true,
	"/api/generate": true,
	"/api/models":   true,
	"/api/health":   true,
	"/metrics":      true,
}

// Metrics records request count by method, route, and status code.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		metrics.RequestsTotal.WithLabelValues(r.Method, pathLabel(r.URL.Path), strconv.Itoa(sw.status)).Inc()
	})
}

func pathLabel(path string) string {
	if knownPaths[path] {
		return path
	}
	return "other"
}
