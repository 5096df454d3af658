package handler

import (
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/mlorentedev/promptdesk/internal/adapter"
	"github.com/mlorentedev/promptdesk/internal/metrics"
)

type backendStatus struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type healthResponse struct {
	Status   string                   `json:"status"`
	Backends map[string]backendStatus `json:"backends"`
}

// Health reports per-backend availability. The service itself is "ok"
// whenever it can answer, since the relay degrades to advisory text.
func Health(backends map[string]adapter.LLMAdapter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statuses := make(map[string]backendStatus, len(backends))
		for id, a := range backends {
			s := backendStatus{Name: a.Name(), Available: a.Available()}
			if s.Available {
				metrics.BackendAvailable.WithLabelValues(id).Set(1)
			} else {
				metrics.BackendAvailable.WithLabelValues(id).Set(0)
				s.Reason = unavailableReason(a)
			}
			statuses[id] = s
		}

		writeJSON(w, http.StatusOK, healthResponse{
			Status:   "ok",
			Backends: statuses,
		})
	}
}

func unavailableReason(a adapter.LLMAdapter) string {
	switch a := a.(type) {
	case *adapter.BreakerAdapter:
		if a.State() == gobreaker.StateOpen {
			return "circuit open"
		}
		return unavailableReason(a.Unwrap())
	case *adapter.CloudAdapter:
		return "no API key"
	case *adapter.OllamaAdapter:
		return "ollama unreachable"
	default:
		return "unavailable"
	}
}
