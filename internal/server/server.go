package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mlorentedev/promptdesk/internal/adapter"
	"github.com/mlorentedev/promptdesk/internal/handler"
	"github.com/mlorentedev/promptdesk/internal/middleware"
	"github.com/mlorentedev/promptdesk/internal/relay"
)

const (
	pageTitle       = "Local AI Assistant - Ollama"
	pageDescription = "Select a model and enter your prompt. " +
		"'gemma:2b' runs locally for fast lightweight responses. " +
		"Cloud models require an API key."
)

// Deps are the collaborators SetupMux wires together.
type Deps struct {
	Relay        *relay.Relay
	Backends     map[string]adapter.LLMAdapter
	Models       []adapter.ModelInfo
	DefaultModel string
	APIKey       string
	RateLimit    int           // requests per minute per client IP, 0 disables
	Timeout      time.Duration // per-request bound, 0 disables
}

// SetupMux wires handlers with the full middleware chain.
func SetupMux(d Deps) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", handler.Form(d.Relay, handler.Page{
		Title:        pageTitle,
		Description:  pageDescription,
		Models:       d.Models,
		DefaultModel: d.DefaultModel,
	}))
	r.HandleFunc("/api/health", handler.Health(d.Backends)).Methods(http.MethodGet)
	r.HandleFunc("/api/models", handler.Models(d.Models)).Methods(http.MethodGet)
	r.HandleFunc("/api/generate", handler.Generate(d.Relay))
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	rl := middleware.NewRateLimiter(d.RateLimit, time.Minute)
	return middleware.Chain(r, rl, middleware.Options{APIKey: d.APIKey, Timeout: d.Timeout})
}

// ModelInfos describes each configured model identifier for the UI and
// /api/models, tagging it with the backend the relay will route it to.
func ModelInfos(ids []string) []adapter.ModelInfo {
	models := make([]adapter.ModelInfo, 0, len(ids))
	for _, id := range ids {
		models = append(models, adapter.ModelInfo{
			ID:      id,
			Name:    id,
			Backend: string(relay.Route(id)),
		})
	}
	return models
}
