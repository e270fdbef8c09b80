package claudecli

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/llmkit/llm-selector/services/providers"
)

const (
	// DefaultBinary is the CLI executable name
	DefaultBinary = "claude"

	// DefaultTimeout bounds a single CLI invocation wall-clock
	DefaultTimeout = 300 * time.Second
)

// Config holds CLI adapter configuration
type Config struct {
	// Binary is the executable name or path
	Binary string

	// ProjectPath, when set, becomes the working directory so the CLI
	// can pick up project context
	ProjectPath string

	// Timeout bounds a single invocation wall-clock
	Timeout time.Duration
}

// Adapter implements the Provider interface by shelling out to a CLI
// tool in print (non-interactive) mode with the flattened conversation
// as the prompt argument. It is the guaranteed fallback: construction
// never fails, and invocation failures (non-zero exit, timeout, missing
// binary) come back as readable error text in the response content
// rather than as Go errors.
type Adapter struct {
	config Config
	gate   providers.Gate
}

// NewAdapter creates a new CLI adapter
func NewAdapter(config Config) *Adapter {
	if config.Binary == "" {
		config.Binary = DefaultBinary
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	return &Adapter{
		config: config,
		gate:   providers.NewGate(),
	}
}

// Name returns the provider name
func (a *Adapter) Name() string {
	return "claude-cli"
}

// IsAvailable reports whether the binary can be found on PATH. The
// selection layer still appends this provider unconditionally as the
// last-resort fallback.
func (a *Adapter) IsAvailable(ctx context.Context) bool {
	_, err := exec.LookPath(a.config.Binary)
	return err == nil
}

// Complete flattens the conversation and invokes the CLI
func (a *Adapter) Complete(ctx context.Context, req *providers.ChatRequest) (*providers.ChatResponse, error) {
	if err := a.gate.Acquire(ctx); err != nil {
		return nil, providers.NewProviderError(a.Name(), "CANCELED", "request canceled while queued", 0, false, err)
	}
	defer a.gate.Release()

	startTime := time.Now()

	timeout := a.config.Timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}

	prompt := providers.FlattenMessages(req.Messages)

	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, a.config.Binary, "--print", prompt)
	if a.config.ProjectPath != "" {
		cmd.Dir = a.config.ProjectPath
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	content := strings.TrimSpace(stdout.String())
	switch {
	case cmdCtx.Err() == context.DeadlineExceeded:
		content = fmt.Sprintf("%s timeout after %s", a.config.Binary, timeout)
	case runErr != nil:
		if _, ok := runErr.(*exec.ExitError); ok {
			content = fmt.Sprintf("Error executing %s: %s", a.config.Binary, strings.TrimSpace(stderr.String()))
		} else {
			// startup failure, typically binary not on PATH
			content = fmt.Sprintf("Error: %s not found or not runnable: %v", a.config.Binary, runErr)
		}
	}

	return &providers.ChatResponse{
		Provider: a.Name(),
		Content:  content,
		Latency:  time.Since(startTime),
		Created:  time.Now(),
	}, nil
}
