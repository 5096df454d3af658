package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const cloudDefaultBaseURL = "https://ollama.com"

// CloudAdapter connects to the hosted Ollama API via /api/chat with a
// bearer token. It is built once at startup and never mutated.
type CloudAdapter struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Model   string      `json:"model"`
	Message chatMessage `json:"message"`
}

func (c *CloudAdapter) Name() string {
	return "Ollama (cloud)"
}

func (c *CloudAdapter) Generate(ctx context.Context, model, prompt string) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("cloud: %w", ErrNoCredential)
	}

	body, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("cloud: marshal request: %w", err)
	}

	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = cloudDefaultBaseURL
	}
	url := strings.TrimRight(baseURL, "/") + "/api/chat"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("cloud: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloud: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Backend: "cloud", StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("cloud: decode response: %w", err)
	}

	return chatResp.Message.Content, nil
}

func (c *CloudAdapter) Available() bool {
	return c.APIKey != ""
}
