package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method, path, and status code.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptdesk_requests_total",
		Help: "Total HTTP requests processed.",
	}, []string{"method", "path", "status"})

	// GenerateDuration tracks backend round-trip latency.
	GenerateDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "promptdesk_generate_duration_seconds",
		Help:    "Time spent waiting on a generation backend.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120, 300},
	}, []string{"backend"})

	// GenerateResults counts relay outcomes: ok, advisory, or error.
	GenerateResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptdesk_generate_results_total",
		Help: "Generation results by backend and outcome.",
	}, []string{"backend", "outcome"})

	// PromptChars tracks the distribution of prompt lengths.
	PromptChars = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "promptdesk_prompt_chars",
		Help:    "Number of characters in submitted prompts.",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})

	// BackendAvailable tracks whether each backend is reachable.
	BackendAvailable = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "promptdesk_backend_available",
		Help: "Whether a generation backend is available (1) or not (0).",
	}, []string{"backend"})
)
