package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mlorentedev/promptdesk/internal/adapter"
	"github.com/mlorentedev/promptdesk/internal/config"
	"github.com/mlorentedev/promptdesk/internal/logging"
	"github.com/mlorentedev/promptdesk/internal/relay"
	"github.com/mlorentedev/promptdesk/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to config file (.yaml or .toml)")
	useMock := flag.Bool("mock", false, "use mock adapter instead of a local Ollama")
	port := flag.Int("port", 0, "override listen port")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	local, cloud := buildAdapters(cfg, *useMock)

	backends := map[string]adapter.LLMAdapter{"local": local}
	if cloud != nil {
		backends["cloud"] = cloud
	} else {
		backends["cloud"] = &adapter.CloudAdapter{}
	}

	handler := server.SetupMux(server.Deps{
		Relay:        relay.New(local, cloud, logger),
		Backends:     backends,
		Models:       server.ModelInfos(cfg.Models),
		DefaultModel: cfg.DefaultModel,
		APIKey:       cfg.APIKey,
		RateLimit:    cfg.RateLimit,
		Timeout:      cfg.RequestTimeout.Std(),
	})

	if cfg.APIKey != "" {
		slog.Info("auth: API key required on /api/ routes (X-API-Key header)")
	} else {
		slog.Info("auth: disabled (no api_key configured)")
	}

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: handler,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("promptdesk listening", "addr", cfg.Addr(), "models", cfg.Models)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// buildAdapters returns the local backend and, when a cloud credential is
// configured, the cloud backend. cloud is a nil interface otherwise.
func buildAdapters(cfg config.Config, useMock bool) (local, cloud adapter.LLMAdapter) {
	if useMock {
		local = &adapter.MockAdapter{Delay: 500 * time.Millisecond}
		slog.Info("mode: mock adapter enabled for local models")
	} else {
		local = &adapter.OllamaAdapter{
			BaseURL: cfg.LocalURL,
			Client:  &http.Client{Timeout: cfg.LocalTimeout.Std()},
		}
		slog.Info("mode: local ollama", "url", cfg.LocalURL)
	}

	if cfg.OllamaAPIKey != "" {
		cloud = &adapter.CloudAdapter{
			BaseURL: cfg.CloudURL,
			APIKey:  cfg.OllamaAPIKey,
			Client:  &http.Client{Timeout: cfg.CloudTimeout.Std()},
		}
		slog.Info("mode: cloud enabled", "url", cfg.CloudURL)
	} else {
		slog.Warn("OLLAMA_API_KEY not found. Cloud models will not work.")
	}

	if cfg.Breaker.Enabled {
		local = adapter.WithBreaker("local", local, cfg.Breaker.MaxFailures, cfg.Breaker.OpenTimeout.Std())
		if cloud != nil {
			cloud = adapter.WithBreaker("cloud", cloud, cfg.Breaker.MaxFailures, cfg.Breaker.OpenTimeout.Std())
		}
		slog.Info("circuit breaker enabled", "max_failures", cfg.Breaker.MaxFailures, "open_timeout", cfg.Breaker.OpenTimeout.Std())
	}

	return local, cloud
}
