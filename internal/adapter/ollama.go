package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const ollamaDefaultBaseURL = "http://localhost:11434"

// OllamaAdapter connects to a local Ollama daemon via /api/generate.
type OllamaAdapter struct {
	BaseURL string
	Client  *http.Client
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

func (o *OllamaAdapter) Name() string {
	return "Ollama (local)"
}

func (o *OllamaAdapter) baseURL() string {
	if o.BaseURL == "" {
		return ollamaDefaultBaseURL
	}
	return strings.TrimRight(o.BaseURL, "/")
}

func (o *OllamaAdapter) client() *http.Client {
	if o.Client == nil {
		return http.DefaultClient
	}
	return o.Client
}

func (o *OllamaAdapter) Generate(ctx context.Context, model, prompt string) (string, error) {
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("ollama: marshal request: %w", err)
	}

	url := o.baseURL() + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ollama: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Backend: "ollama", StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return "", fmt.Errorf("ollama: decode response: %w", err)
	}

	return extractText(payload)
}

// extractText pulls the generated text out of a /api/generate body.
// Older and newer daemons disagree on the field name, so "response" wins
// over "text"; a body with neither is returned whole as JSON.
func extractText(payload any) (string, error) {
	if obj, ok := payload.(map[string]any); ok {
		if v, ok := obj["response"]; ok {
			return renderValue(v)
		}
		if v, ok := obj["text"]; ok {
			return renderValue(v)
		}
	}
	return renderValue(payload)
}

func renderValue(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("ollama: render response: %w", err)
	}
	return string(b), nil
}

// readErrorMessage extracts {"error": "..."} from a failed response, if present.
func readErrorMessage(r io.Reader) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 64*1024)).Decode(&body); err != nil {
		return ""
	}
	return body.Error
}

func (o *OllamaAdapter) Available() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL()+"/", nil)
	if err != nil {
		return false
	}

	resp, err := o.client().Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
