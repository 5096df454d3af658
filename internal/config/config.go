package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Host           string        `yaml:"host" toml:"host"`
	Port           int           `yaml:"port" toml:"port"`
	LocalURL       string        `yaml:"local_url" toml:"local_url"`
	CloudURL       string        `yaml:"cloud_url" toml:"cloud_url"`
	OllamaAPIKey   string        `yaml:"ollama_api_key" toml:"ollama_api_key"`
	LocalTimeout   Duration      `yaml:"local_timeout" toml:"local_timeout"`
	CloudTimeout   Duration      `yaml:"cloud_timeout" toml:"cloud_timeout"`
	// RequestTimeout bounds each inbound HTTP request; zero means unbounded.
	RequestTimeout Duration      `yaml:"request_timeout" toml:"request_timeout"`
	Models         []string      `yaml:"models" toml:"models"`
	DefaultModel   string        `yaml:"default_model" toml:"default_model"`
	APIKey         string        `yaml:"api_key" toml:"api_key"`
	RateLimit      int           `yaml:"rate_limit" toml:"rate_limit"`
	Breaker        BreakerConfig `yaml:"breaker" toml:"breaker"`
	EnvFile        string        `yaml:"env_file" toml:"env_file"`
	LogLevel       string        `yaml:"log_level" toml:"log_level"`
	LogFormat      string        `yaml:"log_format" toml:"log_format"`
}

// BreakerConfig controls the optional circuit breaker in front of each backend.
type BreakerConfig struct {
	Enabled     bool     `yaml:"enabled" toml:"enabled"`
	MaxFailures uint32   `yaml:"max_failures" toml:"max_failures"`
	OpenTimeout Duration `yaml:"open_timeout" toml:"open_timeout"`
}

// Duration is a time.Duration that decodes from strings like "30s".
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func defaults() Config {
	return Config{
		Host:     "0.0.0.0",
		Port:     7860,
		LocalURL: "http://localhost:11434",
		CloudURL: "https://ollama.com",
		Models: []string{
			"gemma:2b",
			"stable-code:3b",
			"phi3:3.8b",
			"gpt-oss:120b-cloud",
		},
		DefaultModel: "gemma:2b",
		RateLimit:    30,
		Breaker: BreakerConfig{
			MaxFailures: 5,
			OpenTimeout: Duration(30 * time.Second),
		},
		EnvFile:   ".env",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load builds the configuration in layers: defaults, the config file at
// path (if non-empty), the .env file it names, then environment variables.
// A missing .env file is not an error; a missing config file is.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if cfg.EnvFile != "" {
		// godotenv.Load never overrides variables already set in the process.
		if err := godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", cfg.EnvFile, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("config: parse toml: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("config: parse yaml: %w", err)
		}
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PROMPTDESK_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("PROMPTDESK_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid PROMPTDESK_PORT %q: %w", v, err)
		}
		cfg.Port = p
	}
	if v := os.Getenv("PROMPTDESK_LOCAL_URL"); v != "" {
		cfg.LocalURL = v
	}
	if v := os.Getenv("PROMPTDESK_CLOUD_URL"); v != "" {
		cfg.CloudURL = v
	}
	if v := os.Getenv("PROMPTDESK_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("PROMPTDESK_MODELS"); v != "" {
		var models []string
		for _, m := range strings.Split(v, ",") {
			if m = strings.TrimSpace(m); m != "" {
				models = append(models, m)
			}
		}
		cfg.Models = models
	}
	if v := os.Getenv("PROMPTDESK_DEFAULT_MODEL"); v != "" {
		cfg.DefaultModel = v
	}
	if v := os.Getenv("PROMPTDESK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PROMPTDESK_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("OLLAMA_API_KEY"); v != "" {
		cfg.OllamaAPIKey = v
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	for name, raw := range map[string]string{"local_url": c.LocalURL, "cloud_url": c.CloudURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config: invalid %s %q", name, raw)
		}
	}
	if len(c.Models) == 0 {
		return errors.New("config: models must not be empty")
	}
	if !slices.Contains(c.Models, c.DefaultModel) {
		return fmt.Errorf("config: default_model %q not in models", c.DefaultModel)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("config: request_timeout must be >= 0, got %s", c.RequestTimeout.Std())
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("config: rate_limit must be >= 0, got %d", c.RateLimit)
	}
	return nil
}
