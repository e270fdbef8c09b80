package selection

import (
	"context"
	"testing"

	"github.com/llmkit/llm-selector/services/providers"
	"github.com/llmkit/llm-selector/services/providers/claudecli"
	"github.com/llmkit/llm-selector/services/providers/ollama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRegistry(t *testing.T, provs ...providers.Provider) *providers.Registry {
	t.Helper()

	r := providers.NewRegistry()
	for _, p := range provs {
		require.NoError(t, r.Register(p))
	}
	return r
}

func TestBestAvailableChainsUsableProviders(t *testing.T) {
	registry := newRegistry(t,
		&stubProvider{name: "openai", available: true},
		&stubProvider{name: "anthropic", available: false},
		&stubProvider{name: "ollama", available: true},
		&stubProvider{name: "claude-cli", available: false},
	)
	factory := NewFactory(registry, zap.NewNop())

	p, err := factory.BestAvailable(context.Background())
	require.NoError(t, err)

	chain, ok := p.(*FallbackChain)
	require.True(t, ok, "multiple usable providers should be chained")

	names := make([]string, 0)
	for _, cp := range chain.Providers() {
		names = append(names, cp.Name())
	}
	// claude-cli joins regardless of its own availability: guaranteed fallback
	assert.Equal(t, []string{"openai", "ollama", "claude-cli"}, names)
}

func TestBestAvailableSingleProviderUnwrapped(t *testing.T) {
	registry := newRegistry(t,
		&stubProvider{name: "openai", available: true, content: "direct answer"},
	)
	factory := NewFactory(registry, zap.NewNop())

	p, err := factory.BestAvailable(context.Background())
	require.NoError(t, err)

	_, isChain := p.(*FallbackChain)
	assert.False(t, isChain, "single usable provider must be returned directly")

	// And therefore no [name] tag is applied to its output
	resp, err := p.Complete(context.Background(), &providers.ChatRequest{
		Messages: []providers.Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "direct answer", resp.Content)
}

func TestBestAvailableEmptyRegistry(t *testing.T) {
	factory := NewFactory(providers.NewRegistry(), zap.NewNop())

	_, err := factory.BestAvailable(context.Background())
	assert.ErrorIs(t, err, ErrNoProviderAvailable)
}

func TestFastestPrefersHostedAPIs(t *testing.T) {
	registry := newRegistry(t,
		&stubProvider{name: "openai", available: true},
		&stubProvider{name: "ollama", available: true},
		&stubProvider{name: "claude-cli", available: true},
	)
	factory := NewFactory(registry, zap.NewNop())

	p, err := factory.Fastest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	_, isChain := p.(*FallbackChain)
	assert.False(t, isChain, "fastest never builds a chain")
}

func TestFastestFallsBackToCLI(t *testing.T) {
	// Real adapters, nothing configured: no credentials, ollama
	// unreachable. The subprocess backend must be selected.
	registry := newRegistry(t,
		ollama.NewAdapter(ollama.Config{BaseURL: "http://127.0.0.1:1"}),
		claudecli.NewAdapter(claudecli.Config{}),
	)
	factory := NewFactory(registry, zap.NewNop())

	p, err := factory.Fastest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "claude-cli", p.Name())
}

func TestFreeSkipsHostedAPIs(t *testing.T) {
	registry := newRegistry(t,
		&stubProvider{name: "openai", available: true},
		&stubProvider{name: "anthropic", available: true},
		&stubProvider{name: "ollama", available: true},
		&stubProvider{name: "claude-cli", available: true},
	)
	factory := NewFactory(registry, zap.NewNop())

	p, err := factory.Free(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name(), "free must never pick a paid hosted API")
}

func TestSelectDispatchesPolicies(t *testing.T) {
	registry := newRegistry(t,
		&stubProvider{name: "claude-cli", available: true},
	)
	factory := NewFactory(registry, zap.NewNop())
	ctx := context.Background()

	for _, policy := range []Policy{PolicyBestAvailable, PolicyFastest, PolicyFree, ""} {
		p, err := factory.Select(ctx, policy)
		require.NoError(t, err, "policy %q", policy)
		assert.Equal(t, "claude-cli", p.Name())
	}

	_, err := factory.Select(ctx, Policy("turbo"))
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}
