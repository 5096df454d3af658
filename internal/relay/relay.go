// Package relay routes a prompt to the local or cloud Ollama backend and
// folds every outcome into display text.
//
// A model identifier containing "cloud" selects the cloud backend, anything
// else the local daemon. Generate never fails: empty prompts, a missing
// cloud key and backend faults all come back as advisory text, because the
// UI has a single output box and no separate error slot.
package relay

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mlorentedev/promptdesk/internal/adapter"
	"github.com/mlorentedev/promptdesk/internal/metrics"
)

const (
	// MsgEmptyPrompt is returned for an empty prompt without contacting a backend.
	MsgEmptyPrompt = "Please enter a prompt."
	// MsgNoCloudKey is returned when a cloud model is selected but no key was configured.
	MsgNoCloudKey = "Error: OLLAMA_API_KEY not set in .env file."
	// ErrorPrefix starts the text of every folded backend fault.
	ErrorPrefix = "An error occurred: "

	cloudMarker = "cloud"
	cloudSuffix = "-cloud"
)

// Backend names a routing target.
type Backend string

const (
	BackendNone  Backend = "none"
	BackendLocal Backend = "local"
	BackendCloud Backend = "cloud"
)

// Route picks the backend for a model identifier.
func Route(model string) Backend {
	if strings.Contains(model, cloudMarker) {
		return BackendCloud
	}
	return BackendLocal
}

// CloudModelName strips a trailing "-cloud" from a cloud identifier,
// e.g. "gpt-oss:120b-cloud" becomes "gpt-oss:120b". Other occurrences of
// the marker are left alone.
func CloudModelName(model string) string {
	return strings.TrimSuffix(model, cloudSuffix)
}

// Result is the tagged outcome of one relay call. Exactly one of Text or
// Err is meaningful; Advisory marks Text as a fixed notice rather than
// generated output.
type Result struct {
	Backend  Backend
	Text     string
	Advisory bool
	Err      error
	Elapsed  time.Duration
}

// String collapses the result into the text shown to the user.
func (r Result) String() string {
	if r.Err != nil {
		return ErrorPrefix + r.Err.Error()
	}
	return r.Text
}

func (r Result) outcome() string {
	switch {
	case r.Err != nil:
		return "error"
	case r.Advisory:
		return "advisory"
	default:
		return "ok"
	}
}

// Relay dispatches prompts to one of two adapters. It holds no mutable
// state and is safe for concurrent use.
type Relay struct {
	local  adapter.LLMAdapter
	cloud  adapter.LLMAdapter
	logger *slog.Logger
}

// New returns a relay. cloud may be nil, which permanently disables the
// cloud path for this relay.
func New(local, cloud adapter.LLMAdapter, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{local: local, cloud: cloud, logger: logger}
}

// CloudEnabled reports whether a cloud adapter was configured.
func (r *Relay) CloudEnabled() bool { return r.cloud != nil }

// Generate returns the text to display for prompt and model.
func (r *Relay) Generate(ctx context.Context, prompt, model string) string {
	return r.Do(ctx, prompt, model).String()
}

// Do runs one relay call and returns the tagged result.
func (r *Relay) Do(ctx context.Context, prompt, model string) (res Result) {
	if prompt == "" {
		res = Result{Backend: BackendNone, Text: MsgEmptyPrompt, Advisory: true}
		metrics.GenerateResults.WithLabelValues(string(res.Backend), res.outcome()).Inc()
		return res
	}
	metrics.PromptChars.Observe(float64(utf8.RuneCountInString(prompt)))

	backend := Route(model)
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res = Result{Backend: backend, Err: fmt.Errorf("%v", p)}
		}
		res.Elapsed = time.Since(start)
		r.record(model, res)
	}()

	switch backend {
	case BackendCloud:
		if r.cloud == nil {
			return Result{Backend: backend, Text: MsgNoCloudKey, Advisory: true}
		}
		text, err := r.cloud.Generate(ctx, CloudModelName(model), prompt)
		return Result{Backend: backend, Text: text, Err: err}
	default:
		text, err := r.local.Generate(ctx, model, prompt)
		return Result{Backend: backend, Text: text, Err: err}
	}
}

func (r *Relay) record(model string, res Result) {
	metrics.GenerateResults.WithLabelValues(string(res.Backend), res.outcome()).Inc()
	if !res.Advisory {
		metrics.GenerateDuration.WithLabelValues(string(res.Backend)).Observe(res.Elapsed.Seconds())
	}

	if res.Err != nil {
		r.logger.Warn("generate failed",
			"backend", res.Backend,
			"model", model,
			"elapsed_ms", res.Elapsed.Milliseconds(),
			"error", res.Err,
		)
		return
	}
	r.logger.Debug("generate",
		"backend", res.Backend,
		"model", model,
		"advisory", res.Advisory,
		"elapsed_ms", res.Elapsed.Milliseconds(),
	)
}
