package selection

import (
	"context"
	"strings"
	"time"

	"github.com/llmkit/llm-selector/services/providers"
	"go.uber.org/zap"
)

// ExhaustedSentinel is returned as response content when every
// provider in a chain failed. Exhaustion is data, not an error: the
// chain never propagates a Go error to its caller.
const ExhaustedSentinel = "All providers failed"

// errorIndicators are the substrings that mark a backend response as a
// failure. The subprocess and local HTTP backends report their own
// errors as status text inside otherwise-normal output, so failure
// detection here is necessarily textual. A completion that merely
// discusses these words will be misclassified and skipped.
var errorIndicators = []string{"error:", "timeout", "failed", "exception"}

// IsErrorText reports whether response content looks like an embedded
// backend failure. Matching is case-insensitive.
func IsErrorText(content string) bool {
	lowered := strings.ToLower(content)
	for _, indicator := range errorIndicators {
		if strings.Contains(lowered, indicator) {
			return true
		}
	}
	return false
}

// FallbackChain tries providers in priority order until one returns a
// clean response. It implements the Provider interface so callers
// cannot tell a chain from a single backend.
type FallbackChain struct {
	chain  []providers.Provider
	logger *zap.Logger
}

// NewFallbackChain creates a chain over the given providers. Order
// encodes preference.
func NewFallbackChain(logger *zap.Logger, chain ...providers.Provider) *FallbackChain {
	return &FallbackChain{
		chain:  chain,
		logger: logger,
	}
}

// Name returns the provider name
func (c *FallbackChain) Name() string {
	return "fallback"
}

// Providers returns the chained providers in priority order
func (c *FallbackChain) Providers() []providers.Provider {
	out := make([]providers.Provider, len(c.chain))
	copy(out, c.chain)
	return out
}

// IsAvailable reports whether any chained provider is available
func (c *FallbackChain) IsAvailable(ctx context.Context) bool {
	for _, p := range c.chain {
		if p.IsAvailable(ctx) {
			return true
		}
	}
	return false
}

// Complete tries each provider in turn. The first response whose text
// is not error-like is returned with its content tagged by the
// succeeding provider's name; providers after it are not invoked.
// Provider errors are logged and skipped. When the chain is exhausted
// the fixed sentinel is returned as a normal response.
func (c *FallbackChain) Complete(ctx context.Context, req *providers.ChatRequest) (*providers.ChatResponse, error) {
	startTime := time.Now()

	for _, p := range c.chain {
		resp, err := p.Complete(ctx, req)
		if err != nil {
			c.logger.Warn("provider call failed, trying next",
				zap.String("provider", p.Name()),
				zap.Error(err))
			continue
		}

		if IsErrorText(resp.Content) {
			c.logger.Warn("provider returned error text, trying next",
				zap.String("provider", p.Name()),
				zap.String("content", truncate(resp.Content, 200)))
			continue
		}

		return &providers.ChatResponse{
			Provider: p.Name(),
			Model:    resp.Model,
			Content:  "[" + p.Name() + "] " + resp.Content,
			Latency:  time.Since(startTime),
			Created:  resp.Created,
		}, nil
	}

	c.logger.Error("all providers exhausted", zap.Int("chain_length", len(c.chain)))

	return &providers.ChatResponse{
		Provider: c.Name(),
		Content:  ExhaustedSentinel,
		Latency:  time.Since(startTime),
		Created:  time.Now(),
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
