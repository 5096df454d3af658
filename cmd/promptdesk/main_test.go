package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlorentedev/promptdesk/internal/adapter"
	"github.com/mlorentedev/promptdesk/internal/config"
)

func TestBuildAdaptersNoCloudKey(t *testing.T) {
	cfg := config.Config{LocalURL: "http://localhost:11434"}

	local, cloud := buildAdapters(cfg, false)

	require.IsType(t, &adapter.OllamaAdapter{}, local)
	assert.Equal(t, "http://localhost:11434", local.(*adapter.OllamaAdapter).BaseURL)
	assert.Nil(t, cloud, "cloud must be a nil interface so the relay reports the missing key")
}

func TestBuildAdaptersWithCloudKey(t *testing.T) {
	cfg := config.Config{CloudURL: "https://ollama.com", OllamaAPIKey: "sk-test"}

	_, cloud := buildAdapters(cfg, false)

	require.IsType(t, &adapter.CloudAdapter{}, cloud)
	c := cloud.(*adapter.CloudAdapter)
	assert.Equal(t, "sk-test", c.APIKey)
	assert.Equal(t, "https://ollama.com", c.BaseURL)
}

func TestBuildAdaptersMock(t *testing.T) {
	local, _ := buildAdapters(config.Config{}, true)
	assert.IsType(t, &adapter.MockAdapter{}, local)
}

func TestBuildAdaptersBreaker(t *testing.T) {
	cfg := config.Config{OllamaAPIKey: "sk-test"}
	cfg.Breaker.Enabled = true
	cfg.Breaker.MaxFailures = 3

	local, cloud := buildAdapters(cfg, true)

	require.IsType(t, &adapter.BreakerAdapter{}, local)
	require.IsType(t, &adapter.BreakerAdapter{}, cloud)
	assert.IsType(t, &adapter.MockAdapter{}, local.(*adapter.BreakerAdapter).Unwrap())
	assert.IsType(t, &adapter.CloudAdapter{}, cloud.(*adapter.BreakerAdapter).Unwrap())
}
