package selection

import (
	"context"
	"fmt"
	"time"

	"github.com/llmkit/llm-selector/services/providers"
)

// CompleteWithTimeout runs a provider call with a bounded wait. When
// the bound expires the caller gets a timeout sentinel as response
// text, never a propagated cancellation; the underlying call keeps
// running in its provider's execution slot and its result is discarded.
func CompleteWithTimeout(ctx context.Context, p providers.Provider, req *providers.ChatRequest, bound time.Duration) *providers.ChatResponse {
	startTime := time.Now()

	type outcome struct {
		resp *providers.ChatResponse
		err  error
	}

	// Buffered so the abandoned call can finish and be collected.
	done := make(chan outcome, 1)
	go func() {
		resp, err := p.Complete(ctx, req)
		done <- outcome{resp: resp, err: err}
	}()

	timer := time.NewTimer(bound)
	defer timer.Stop()

	select {
	case out := <-done:
		if out.err != nil {
			return &providers.ChatResponse{
				Provider: p.Name(),
				Content:  fmt.Sprintf("Error: %v", out.err),
				Latency:  time.Since(startTime),
				Created:  time.Now(),
			}
		}
		return out.resp
	case <-timer.C:
		return &providers.ChatResponse{
			Provider: p.Name(),
			Content:  fmt.Sprintf("completion timeout after %s", bound),
			Latency:  time.Since(startTime),
			Created:  time.Now(),
		}
	}
}
