package app

import (
	"fmt"

	"github.com/llmkit/llm-selector/config"
	"github.com/llmkit/llm-selector/services/completion"
	"github.com/llmkit/llm-selector/services/providers"
	"github.com/llmkit/llm-selector/services/providers/anthropic"
	"github.com/llmkit/llm-selector/services/providers/claudecli"
	"github.com/llmkit/llm-selector/services/providers/ollama"
	"github.com/llmkit/llm-selector/services/providers/openai"
	"github.com/llmkit/llm-selector/services/selection"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies. This is the central
// wiring point for dependency injection.
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger

	Registry *providers.Registry
	Factory  *selection.Factory

	CompletionService *completion.Service
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initProviders(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize providers: %w", err)
	}

	deps.Factory = selection.NewFactory(deps.Registry, logger)
	deps.CompletionService = completion.NewService(
		deps.Factory,
		selection.Policy(cfg.Selection.DefaultPolicy),
		cfg.Selection.RequestTimeout,
		logger,
	)

	logger.Info("all dependencies initialized",
		zap.Strings("providers", deps.Registry.List()))
	return deps, nil
}

// initProviders builds adapters from configuration and registers them
// in preference order. Constructor failures (missing credentials) are
// configuration errors: fatal to that adapter, logged, and skipped,
// never fatal to the process.
func (d *Dependencies) initProviders(cfg *config.Config) error {
	d.Registry = providers.NewRegistry()

	if openaiAdapter, err := openai.NewAdapter(openai.Config{
		APIKey:  cfg.Providers.OpenAI.APIKey,
		BaseURL: cfg.Providers.OpenAI.BaseURL,
		Model:   cfg.Providers.OpenAI.Model,
		Timeout: cfg.Providers.OpenAI.Timeout,
	}); err != nil {
		d.Logger.Info("openai provider not configured, skipping", zap.Error(err))
	} else if err := d.Registry.Register(openaiAdapter); err != nil {
		return err
	}

	if anthropicAdapter, err := anthropic.NewAdapter(anthropic.Config{
		APIKey:  cfg.Providers.Anthropic.APIKey,
		BaseURL: cfg.Providers.Anthropic.BaseURL,
		Model:   cfg.Providers.Anthropic.Model,
		Timeout: cfg.Providers.Anthropic.Timeout,
	}); err != nil {
		d.Logger.Info("anthropic provider not configured, skipping", zap.Error(err))
	} else if err := d.Registry.Register(anthropicAdapter); err != nil {
		return err
	}

	if err := d.Registry.Register(ollama.NewAdapter(ollama.Config{
		BaseURL:      cfg.Providers.Ollama.BaseURL,
		Model:        cfg.Providers.Ollama.Model,
		Timeout:      cfg.Providers.Ollama.Timeout,
		ProbeTimeout: cfg.Providers.Ollama.ProbeTimeout,
	})); err != nil {
		return err
	}

	// CLI adapter last: the guaranteed fallback.
	if err := d.Registry.Register(claudecli.NewAdapter(claudecli.Config{
		Binary:      cfg.Providers.ClaudeCLI.Binary,
		ProjectPath: cfg.Providers.ClaudeCLI.ProjectPath,
		Timeout:     cfg.Providers.ClaudeCLI.Timeout,
	})); err != nil {
		return err
	}

	return nil
}
