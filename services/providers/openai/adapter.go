package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/llmkit/llm-selector/services/providers"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is used when the request does not name a model
	DefaultModel = "gpt-4"
)

// ErrMissingAPIKey is returned at construction time when no credential
// is configured. Missing credentials are a configuration error: fatal
// to this provider, skippable by the selection layer.
var ErrMissingAPIKey = errors.New("openai: API key required (set OPENAI_API_KEY or pass an explicit key)")

// Config holds OpenAI adapter configuration
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Adapter implements the Provider interface for the OpenAI chat
// completions API: a flat messages array with roles inline.
type Adapter struct {
	config     Config
	httpClient *http.Client
	gate       providers.Gate
}

// NewAdapter creates a new OpenAI adapter. Fails fast without a credential.
func NewAdapter(config Config) (*Adapter, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	return &Adapter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		gate: providers.NewGate(),
	}, nil
}

// Name returns the provider name
func (a *Adapter) Name() string {
	return "openai"
}

// IsAvailable reports whether the adapter holds a credential. No
// network probe: availability of a hosted API is decided by
// configuration, failures surface per call.
func (a *Adapter) IsAvailable(ctx context.Context) bool {
	return a.config.APIKey != ""
}

// Complete performs a chat completion request
func (a *Adapter) Complete(ctx context.Context, req *providers.ChatRequest) (*providers.ChatResponse, error) {
	if err := a.gate.Acquire(ctx); err != nil {
		return nil, providers.NewProviderError(a.Name(), "CANCELED", "request canceled while queued", 0, false, err)
	}
	defer a.gate.Release()

	startTime := time.Now()

	model := req.Model
	if model == "" {
		model = a.config.Model
	}

	apiReq := chatRequest{
		Model:    model,
		Messages: make([]chatMessage, len(req.Messages)),
	}
	for i, msg := range req.Messages {
		apiReq.Messages[i] = chatMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}
	if req.MaxTokens > 0 {
		apiReq.MaxTokens = &req.MaxTokens
	}
	if req.Temperature > 0 {
		apiReq.Temperature = &req.Temperature
	}

	reqBody, err := json.Marshal(apiReq)
	if err != nil {
		return nil, providers.NewProviderError(a.Name(), "MARSHAL_ERROR", "failed to marshal request", 0, false, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.config.BaseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return nil, providers.NewProviderError(a.Name(), "REQUEST_ERROR", "failed to create request", 0, false, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.config.APIKey)

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, providers.NewProviderError(a.Name(), "HTTP_ERROR", "HTTP request failed", 0, true, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, providers.NewProviderError(a.Name(), "READ_ERROR", "failed to read response", httpResp.StatusCode, false, err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, a.handleErrorResponse(httpResp.StatusCode, respBody)
	}

	var apiResp chatResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, providers.NewProviderError(a.Name(), "UNMARSHAL_ERROR", "failed to unmarshal response", httpResp.StatusCode, false, err)
	}

	if len(apiResp.Choices) == 0 {
		return nil, providers.NewProviderError(a.Name(), "EMPTY_RESPONSE", "response contained no choices", httpResp.StatusCode, true, nil)
	}

	return &providers.ChatResponse{
		Provider: a.Name(),
		Model:    apiResp.Model,
		Content:  apiResp.Choices[0].Message.Content,
		Latency:  time.Since(startTime),
		Created:  time.Unix(apiResp.Created, 0),
	}, nil
}

// handleErrorResponse converts OpenAI error payloads to ProviderError
func (a *Adapter) handleErrorResponse(statusCode int, body []byte) error {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return providers.NewProviderError(a.Name(), "UNKNOWN_ERROR", string(body), statusCode, statusCode >= 500, err)
	}

	retryable := statusCode >= 500 || statusCode == http.StatusTooManyRequests

	return providers.NewProviderError(
		a.Name(),
		errResp.Error.Type,
		errResp.Error.Message,
		statusCode,
		retryable,
		errors.New(errResp.Error.Message),
	)
}

// OpenAI wire types

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}
