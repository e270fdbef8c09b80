package claudecli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/llmkit/llm-selector/services/providers"
)

// writeScript creates an executable shell script for driving the adapter
func writeScript(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fake-claude")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

func TestComplete(t *testing.T) {
	// Echoes its last argument (the prompt) back
	bin := writeScript(t, `shift; echo "$@"`)

	adapter := NewAdapter(Config{Binary: bin})

	resp, err := adapter.Complete(context.Background(), &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "user", Content: "say hello"},
		},
	})
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}

	if !strings.Contains(resp.Content, "User: say hello") {
		t.Errorf("Content = %q, want flattened prompt echoed back", resp.Content)
	}
	if resp.Provider != "claude-cli" {
		t.Errorf("Provider = %s, want claude-cli", resp.Provider)
	}
}

func TestCompleteNonZeroExitReturnsErrorText(t *testing.T) {
	bin := writeScript(t, `echo "something broke" >&2; exit 1`)

	adapter := NewAdapter(Config{Binary: bin})

	resp, err := adapter.Complete(context.Background(), &providers.ChatRequest{
		Messages: []providers.Message{{Role: "user", Content: "hi"}},
	})
	// Invocation failures land in the content, not in the error
	if err != nil {
		t.Fatalf("Complete() error: %v, want nil with error text in content", err)
	}
	if !strings.Contains(resp.Content, "Error executing") || !strings.Contains(resp.Content, "something broke") {
		t.Errorf("Content = %q, want embedded stderr text", resp.Content)
	}
}

func TestCompleteMissingBinaryReturnsErrorText(t *testing.T) {
	adapter := NewAdapter(Config{Binary: "definitely-not-a-real-binary-xyz"})

	resp, err := adapter.Complete(context.Background(), &providers.ChatRequest{
		Messages: []providers.Message{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Complete() error: %v, want nil with error text in content", err)
	}
	if !strings.Contains(resp.Content, "Error:") {
		t.Errorf("Content = %q, want error text", resp.Content)
	}
}

func TestCompleteTimeoutReturnsErrorText(t *testing.T) {
	bin := writeScript(t, `sleep 5`)

	adapter := NewAdapter(Config{Binary: bin, Timeout: 100 * time.Millisecond})

	start := time.Now()
	resp, err := adapter.Complete(context.Background(), &providers.ChatRequest{
		Messages: []providers.Message{{Role: "user", Content: "hi"}},
	})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Complete() error: %v, want nil with timeout text in content", err)
	}
	if !strings.Contains(resp.Content, "timeout after") {
		t.Errorf("Content = %q, want timeout text", resp.Content)
	}
	if elapsed > 2*time.Second {
		t.Errorf("Complete() took %s, should return promptly after the bound", elapsed)
	}
}

func TestCompleteUsesRequestTimeout(t *testing.T) {
	bin := writeScript(t, `sleep 5`)

	adapter := NewAdapter(Config{Binary: bin})

	resp, err := adapter.Complete(context.Background(), &providers.ChatRequest{
		Messages: []providers.Message{{Role: "user", Content: "hi"}},
		Timeout:  100 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if !strings.Contains(resp.Content, "timeout after") {
		t.Errorf("Content = %q, want timeout text", resp.Content)
	}
}

func TestIsAvailable(t *testing.T) {
	bin := writeScript(t, `echo ok`)

	adapter := NewAdapter(Config{Binary: bin})
	if !adapter.IsAvailable(context.Background()) {
		t.Error("IsAvailable() = false for existing binary")
	}

	missing := NewAdapter(Config{Binary: "definitely-not-a-real-binary-xyz"})
	if missing.IsAvailable(context.Background()) {
		t.Error("IsAvailable() = true for missing binary")
	}
}
