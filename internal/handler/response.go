package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mlorentedev/promptdesk/internal/relay"
)

// Generator runs one relay call. *relay.Relay satisfies it.
type Generator interface {
	Do(ctx context.Context, prompt, model string) relay.Result
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}
