package app

import (
	"testing"
	"time"

	"github.com/llmkit/llm-selector/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Providers: config.ProvidersConfig{
			OpenAI:    config.OpenAIConfig{Model: "gpt-4", Timeout: time.Minute},
			Anthropic: config.AnthropicConfig{Model: "claude-3-sonnet-20240229", Timeout: time.Minute},
			Ollama:    config.OllamaConfig{BaseURL: "http://localhost:11434", Model: "llama2", Timeout: time.Minute},
			ClaudeCLI: config.ClaudeCLIConfig{Binary: "claude", Timeout: time.Minute},
		},
		Selection: config.SelectionConfig{
			DefaultPolicy:  "best_available",
			RequestTimeout: 2 * time.Minute,
		},
	}
}

func TestNewDependenciesWithoutAPIKeys(t *testing.T) {
	deps, err := NewDependencies(testConfig(), zap.NewNop())
	require.NoError(t, err)

	// Hosted adapters need credentials; local backends always register.
	assert.Equal(t, []string{"ollama", "claude-cli"}, deps.Registry.List())
	assert.NotNil(t, deps.Factory)
	assert.NotNil(t, deps.CompletionService)
}

func TestNewDependenciesWithAPIKeys(t *testing.T) {
	cfg := testConfig()
	cfg.Providers.OpenAI.APIKey = "sk-test"
	cfg.Providers.Anthropic.APIKey = "sk-ant-test"

	deps, err := NewDependencies(cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{"openai", "anthropic", "ollama", "claude-cli"}, deps.Registry.List())
}
