// Package config holds the service configuration, loaded from the
// environment and validated before startup.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
)

// ProviderConfig configures the completion provider client.
type ProviderConfig struct {
	BaseURL        string  `validate:"omitempty,url"`
	APIKey         string  `validate:"required"`
	Model          string  `validate:"required"`
	Temperature    float64 `validate:"gte=0,lte=2"`
	MaxTokens      int     `validate:"gte=1"`
	TimeoutSeconds int     `validate:"gte=1"`
	RetryCount     int     `validate:"gte=1"`
}

// Config is the full service configuration.
type Config struct {
	Listen       string   `validate:"required,hostname_port"`
	DatabasePath string   `validate:"required"`
	LogLevel     string   `validate:"omitempty,loglevel"`
	DefaultAgent string   `validate:"omitempty,agentid"`
	CORSOrigins  []string `validate:"dive,required"`
	Provider     ProviderConfig
}

// GetDefaultDatabasePath returns the default database path under the XDG
// state directory.
func GetDefaultDatabasePath() string {
	return filepath.Join(xdg.StateHome, "assistantd", "assistant.db")
}

// FromEnv builds a Config from ASSISTANT_* environment variables with
// defaults for everything except the provider API key.
func FromEnv() Config {
	cfg := Config{
		Listen:       envOr("ASSISTANT_LISTEN", "127.0.0.1:8080"),
		DatabasePath: envOr("ASSISTANT_DB_PATH", GetDefaultDatabasePath()),
		LogLevel:     envOr("ASSISTANT_LOG_LEVEL", "info"),
		DefaultAgent: envOr("ASSISTANT_DEFAULT_AGENT", "chief"),
		Provider: ProviderConfig{
			BaseURL:        envOr("ASSISTANT_PROVIDER_BASE_URL", "https://api.openai.com/v1"),
			APIKey:         os.Getenv("ASSISTANT_PROVIDER_API_KEY"),
			Model:          envOr("ASSISTANT_PROVIDER_MODEL", "gpt-4o-mini"),
			Temperature:    envFloatOr("ASSISTANT_PROVIDER_TEMPERATURE", 0.7),
			MaxTokens:      envIntOr("ASSISTANT_PROVIDER_MAX_TOKENS", 1024),
			TimeoutSeconds: envIntOr("ASSISTANT_PROVIDER_TIMEOUT_SECONDS", 30),
			RetryCount:     envIntOr("ASSISTANT_PROVIDER_RETRY_COUNT", 3),
		},
	}

	if origins := os.Getenv("ASSISTANT_CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
