package handler

import (
	"encoding/json"
	"errors"
	"net/http"
)

type generateRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
}

type generateResponse struct {
	Text      string `json:"text"`
	Model     string `json:"model"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

// Generate serves POST /api/generate. Relay outcomes, advisory and error
// text included, are always 200; only transport problems get error codes.
func Generate(gen Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		res := gen.Do(r.Context(), req.Prompt, req.Model)

		writeJSON(w, http.StatusOK, generateResponse{
			Text:      res.String(),
			Model:     req.Model,
			ElapsedMs: res.Elapsed.Milliseconds(),
		})
	}
}
