package handler

import (
	"net/http"

	"github.com/mlorentedev/promptdesk/internal/adapter"
)

func Models(models []adapter.ModelInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models)
	}
}
