package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 330*time.Second, cfg.Server.WriteTimeout)

	assert.Equal(t, "https://api.openai.com/v1", cfg.Providers.OpenAI.BaseURL)
	assert.Equal(t, "gpt-4", cfg.Providers.OpenAI.Model)
	assert.Equal(t, "https://api.anthropic.com", cfg.Providers.Anthropic.BaseURL)
	assert.Equal(t, "http://localhost:11434", cfg.Providers.Ollama.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Providers.Ollama.ProbeTimeout)
	assert.Equal(t, "claude", cfg.Providers.ClaudeCLI.Binary)
	assert.Equal(t, 300*time.Second, cfg.Providers.ClaudeCLI.Timeout)

	assert.Equal(t, "best_available", cfg.Selection.DefaultPolicy)
	assert.Equal(t, 120*time.Second, cfg.Selection.RequestTimeout)

	assert.Equal(t, "info", cfg.Observability.LogLevel)
	assert.Equal(t, "json", cfg.Observability.LogFormat)
}

func TestNewFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("OLLAMA_TIMEOUT", "45s")
	t.Setenv("SELECTION_POLICY", "free")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sk-test", cfg.Providers.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.Providers.OpenAI.Model)
	assert.Equal(t, 45*time.Second, cfg.Providers.Ollama.Timeout)
	assert.Equal(t, "free", cfg.Selection.DefaultPolicy)
	assert.Equal(t, "console", cfg.Observability.LogFormat)
}

func TestNewMalformedValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("OLLAMA_TIMEOUT", "soon")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 120*time.Second, cfg.Providers.Ollama.Timeout)
}

func TestNewRejectsUnknownPolicy(t *testing.T) {
	t.Setenv("SELECTION_POLICY", "cheapest")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown selection policy")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: 8080},
			Selection: SelectionConfig{DefaultPolicy: "best_available", RequestTimeout: time.Minute},
			Providers: ProvidersConfig{
				ClaudeCLI: ClaudeCLIConfig{Binary: "claude", Timeout: time.Minute},
			},
			Observability: ObservabilityConfig{LogLevel: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server port",
		},
		{
			name:    "zero request timeout",
			mutate:  func(c *Config) { c.Selection.RequestTimeout = 0 },
			wantErr: "request timeout",
		},
		{
			name:    "missing CLI binary",
			mutate:  func(c *Config) { c.Providers.ClaudeCLI.Binary = "" },
			wantErr: "binary name is required",
		},
		{
			name:    "missing log level",
			mutate:  func(c *Config) { c.Observability.LogLevel = "" },
			wantErr: "log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := &Config{Environment: "production"}
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())

	cfg.Environment = "dev"
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}
