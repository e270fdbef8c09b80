package providers

import (
	"context"
	"time"
)

// Provider represents a unified LLM backend capability: turn an ordered
// conversation into response text.
type Provider interface {
	// Name returns the provider name (e.g., "openai", "claude-cli")
	Name() string

	// Complete performs a chat completion request
	Complete(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// IsAvailable reports whether the provider is currently usable.
	// For hosted APIs this is a credential check; for local backends
	// it may perform a lightweight reachability probe.
	IsAvailable(ctx context.Context) bool
}

// ChatRequest represents a unified completion request
type ChatRequest struct {
	// Model identifier; empty means the provider's configured default
	Model string `json:"model,omitempty"`

	// Messages in the conversation, chronological order
	Messages []Message `json:"messages"`

	// MaxTokens limits the response length
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature controls randomness (0.0 to 2.0)
	Temperature float64 `json:"temperature,omitempty"`

	// Timeout for the request; zero means the provider default
	Timeout time.Duration `json:"-"`
}

// Message represents a single message in a conversation
type Message struct {
	// Role can be "system", "user", or "assistant"
	Role string `json:"role"`

	// Content is the message text
	Content string `json:"content"`
}

// ChatResponse represents a unified completion response.
//
// Backend failures are frequently carried inside Content as readable
// error text rather than as a Go error: the subprocess and local HTTP
// backends report their own failures as status text embedded in
// otherwise normal output. Callers that need to distinguish use the
// selection package's error-text detection at the chain boundary.
type ChatResponse struct {
	// Provider that produced the response
	Provider string `json:"provider"`

	// Model used for the completion
	Model string `json:"model"`

	// Content is the response text
	Content string `json:"content"`

	// Latency of the request
	Latency time.Duration `json:"latency"`

	// Created timestamp
	Created time.Time `json:"created"`
}

// ProviderError represents a typed error from a provider boundary
type ProviderError struct {
	// Provider that generated the error
	Provider string

	// Code is the error code
	Code string

	// Message is the error message
	Message string

	// StatusCode is the HTTP status code (if applicable)
	StatusCode int

	// Retryable indicates if another provider may serve the request
	Retryable bool

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap implements error unwrapping
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError creates a new provider error
func NewProviderError(provider, code, message string, statusCode int, retryable bool, cause error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  retryable,
		Cause:      cause,
	}
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if provErr, ok := err.(*ProviderError); ok {
		return provErr.Retryable
	}
	return false
}
