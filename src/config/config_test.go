package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Listen:       "127.0.0.1:8080",
		DatabasePath: "/tmp/assistant.db",
		LogLevel:     "info",
		DefaultAgent: "chief",
		Provider: ProviderConfig{
			BaseURL:        "https://api.openai.com/v1",
			APIKey:         "sk-test",
			Model:          "gpt-4o-mini",
			Temperature:    0.7,
			MaxTokens:      1024,
			TimeoutSeconds: 30,
			RetryCount:     3,
		},
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	t.Setenv("ASSISTANT_PROVIDER_API_KEY", "sk-test")

	cfg := FromEnv()
	require.NoError(t, NewValidator().Validate(&cfg))
	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Equal(t, "chief", cfg.DefaultAgent)
	assert.Equal(t, 3, cfg.Provider.RetryCount)
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		expected string
	}{
		{
			name:     "missing api key",
			mutate:   func(c *Config) { c.Provider.APIKey = "" },
			expected: "APIKey",
		},
		{
			name:     "bad listen address",
			mutate:   func(c *Config) { c.Listen = "not-an-address" },
			expected: "Listen",
		},
		{
			name:     "bad log level",
			mutate:   func(c *Config) { c.LogLevel = "verbose" },
			expected: "LogLevel",
		},
		{
			name:     "unregistered default agent",
			mutate:   func(c *Config) { c.DefaultAgent = "intern" },
			expected: "DefaultAgent",
		},
		{
			name:     "temperature out of range",
			mutate:   func(c *Config) { c.Provider.Temperature = 3.5 },
			expected: "Temperature",
		},
		{
			name:     "bad provider base URL",
			mutate:   func(c *Config) { c.Provider.BaseURL = "not a url" },
			expected: "BaseURL",
		},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := v.Validate(&cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("ASSISTANT_LISTEN", "0.0.0.0:9000")
	t.Setenv("ASSISTANT_PROVIDER_API_KEY", "sk-test")
	t.Setenv("ASSISTANT_PROVIDER_MAX_TOKENS", "512")
	t.Setenv("ASSISTANT_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg := FromEnv()
	assert.Equal(t, "0.0.0.0:9000", cfg.Listen)
	assert.Equal(t, 512, cfg.Provider.MaxTokens)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestFromEnvIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("ASSISTANT_PROVIDER_MAX_TOKENS", "lots")
	t.Setenv("ASSISTANT_PROVIDER_TEMPERATURE", "warm")

	cfg := FromEnv()
	assert.Equal(t, 1024, cfg.Provider.MaxTokens)
	assert.Equal(t, 0.7, cfg.Provider.Temperature)
}
