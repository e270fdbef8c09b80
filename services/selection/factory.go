package selection

import (
	"context"
	"errors"
	"fmt"

	"github.com/llmkit/llm-selector/services/providers"
	"go.uber.org/zap"
)

var (
	// ErrNoProviderAvailable is returned when no provider can be selected
	ErrNoProviderAvailable = errors.New("no providers available")

	// ErrUnknownPolicy is returned for an unrecognized selection policy
	ErrUnknownPolicy = errors.New("unknown selection policy")
)

// Policy names a provider selection strategy
type Policy string

const (
	// PolicyBestAvailable chains every usable provider with fallback
	PolicyBestAvailable Policy = "best_available"

	// PolicyFastest picks the single lowest-latency usable provider
	PolicyFastest Policy = "fastest"

	// PolicyFree restricts selection to non-paid backends
	PolicyFree Policy = "free"
)

// preferenceOrder is the probe order shared by all policies: hosted
// APIs first (fastest), the local server next, the CLI last as the
// guaranteed fallback.
var preferenceOrder = []string{"openai", "anthropic", "ollama", "claude-cli"}

// freeOrder restricts selection to backends without per-token cost
var freeOrder = []string{"ollama", "claude-cli"}

// Factory selects providers from a registry according to a policy.
// Selection is synchronous and best-effort: probe failures are logged,
// never raised, and every policy degrades toward the CLI fallback.
type Factory struct {
	registry *providers.Registry
	logger   *zap.Logger
}

// NewFactory creates a provider selection factory
func NewFactory(registry *providers.Registry, logger *zap.Logger) *Factory {
	return &Factory{
		registry: registry,
		logger:   logger,
	}
}

// Select picks a provider for the given policy
func (f *Factory) Select(ctx context.Context, policy Policy) (providers.Provider, error) {
	switch policy {
	case PolicyBestAvailable, "":
		return f.BestAvailable(ctx)
	case PolicyFastest:
		return f.Fastest(ctx)
	case PolicyFree:
		return f.Free(ctx)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPolicy, policy)
	}
}

// BestAvailable probes every candidate in preference order and chains
// the usable ones with fallback. Exactly one usable candidate is
// returned directly, unwrapped. No usable candidate at all is a
// configuration error.
func (f *Factory) BestAvailable(ctx context.Context) (providers.Provider, error) {
	usable := f.probe(ctx, preferenceOrder)

	switch len(usable) {
	case 0:
		return nil, ErrNoProviderAvailable
	case 1:
		f.logger.Info("selected single provider", zap.String("provider", usable[0].Name()))
		return usable[0], nil
	default:
		names := make([]string, len(usable))
		for i, p := range usable {
			names[i] = p.Name()
		}
		f.logger.Info("selected fallback chain", zap.Strings("providers", names))
		return NewFallbackChain(f.logger, usable...), nil
	}
}

// Fastest returns the first usable candidate in preference order,
// without a fallback chain: single provider, lowest latency, no
// retry-via-other-provider.
func (f *Factory) Fastest(ctx context.Context) (providers.Provider, error) {
	return f.first(ctx, preferenceOrder)
}

// Free is Fastest restricted to backends without per-token cost
func (f *Factory) Free(ctx context.Context) (providers.Provider, error) {
	return f.first(ctx, freeOrder)
}

// probe returns the usable providers among candidates, keeping order.
// The CLI fallback is always considered usable when registered.
func (f *Factory) probe(ctx context.Context, candidates []string) []providers.Provider {
	var usable []providers.Provider

	for _, name := range candidates {
		p, err := f.registry.Get(name)
		if err != nil {
			f.logger.Debug("provider not registered", zap.String("provider", name))
			continue
		}

		if name != "claude-cli" && !p.IsAvailable(ctx) {
			f.logger.Info("provider not available, skipping",
				zap.String("provider", name))
			continue
		}

		usable = append(usable, p)
	}

	return usable
}

// first returns the first usable candidate
func (f *Factory) first(ctx context.Context, candidates []string) (providers.Provider, error) {
	usable := f.probe(ctx, candidates)
	if len(usable) == 0 {
		return nil, ErrNoProviderAvailable
	}

	f.logger.Info("selected provider", zap.String("provider", usable[0].Name()))
	return usable[0], nil
}
