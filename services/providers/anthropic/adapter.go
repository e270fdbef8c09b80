package anthropic

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
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"

	// DefaultModel is used when the request does not name a model
	DefaultModel = "claude-3-sonnet-20240229"

	// defaultMaxTokens applies when the request leaves MaxTokens unset;
	// the messages API rejects requests without a max_tokens value.
	defaultMaxTokens = 4000
)

// ErrMissingAPIKey is returned at construction time when no credential
// is configured.
var ErrMissingAPIKey = errors.New("anthropic: API key required (set ANTHROPIC_API_KEY or pass an explicit key)")

// Config holds Anthropic adapter configuration
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Adapter implements the Provider interface for the Anthropic messages
// API. Unlike OpenAI's flat array, system messages are hoisted into the
// top-level system field and only non-system turns go in messages.
type Adapter struct {
	config     Config
	httpClient *http.Client
	gate       providers.Gate
}

// NewAdapter creates a new Anthropic adapter. Fails fast without a credential.
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
	return "anthropic"
}

// IsAvailable reports whether the adapter holds a credential
func (a *Adapter) IsAvailable(ctx context.Context) bool {
	return a.config.APIKey != ""
}

// Complete performs a messages API request
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

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	system, rest := providers.SplitSystem(req.Messages)

	apiReq := messagesRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  make([]apiMessage, len(rest)),
	}
	for i, msg := range rest {
		apiReq.Messages[i] = apiMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}
	if req.Temperature > 0 {
		apiReq.Temperature = &req.Temperature
	}

	reqBody, err := json.Marshal(apiReq)
	if err != nil {
		return nil, providers.NewProviderError(a.Name(), "MARSHAL_ERROR", "failed to marshal request", 0, false, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.config.BaseURL+"/v1/messages", bytes.NewReader(reqBody))
	if err != nil {
		return nil, providers.NewProviderError(a.Name(), "REQUEST_ERROR", "failed to create request", 0, false, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.config.APIKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

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

	var apiResp messagesResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, providers.NewProviderError(a.Name(), "UNMARSHAL_ERROR", "failed to unmarshal response", httpResp.StatusCode, false, err)
	}

	if len(apiResp.Content) == 0 {
		return nil, providers.NewProviderError(a.Name(), "EMPTY_RESPONSE", "response contained no content blocks", httpResp.StatusCode, true, nil)
	}

	return &providers.ChatResponse{
		Provider: a.Name(),
		Model:    apiResp.Model,
		Content:  apiResp.Content[0].Text,
		Latency:  time.Since(startTime),
		Created:  time.Now(),
	}, nil
}

// handleErrorResponse converts Anthropic error payloads to ProviderError
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

// Anthropic wire types

type messagesRequest struct {
	Model       string       `json:"model"`
	MaxTokens   int          `json:"max_tokens"`
	System      string       `json:"system,omitempty"`
	Messages    []apiMessage `json:"messages"`
	Temperature *float64     `json:"temperature,omitempty"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	ID      string         `json:"id"`
	Model   string         `json:"model"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
