package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/llmkit/llm-selector/services/providers"
)

const (
	// DefaultBaseURL is the standard local ollama endpoint
	DefaultBaseURL = "http://localhost:11434"

	// DefaultModel is used when the request does not name a model
	DefaultModel = "llama2"
)

// Config holds ollama adapter configuration
type Config struct {
	BaseURL      string
	Model        string
	Timeout      time.Duration
	ProbeTimeout time.Duration
}

// Adapter implements the Provider interface for a local ollama server.
// The conversation is flattened to a single prompt and posted to
// /api/generate. A failed generation is reported as error text in the
// response content, matching what the server itself does: the chain
// boundary detects it by substring, not by error value.
type Adapter struct {
	config      Config
	httpClient  *http.Client
	probeClient *http.Client
	gate        providers.Gate
}

// NewAdapter creates a new ollama adapter
func NewAdapter(config Config) *Adapter {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Timeout == 0 {
		config.Timeout = 120 * time.Second
	}
	if config.ProbeTimeout == 0 {
		config.ProbeTimeout = 3 * time.Second
	}

	return &Adapter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		probeClient: &http.Client{
			Timeout: config.ProbeTimeout,
		},
		gate: providers.NewGate(),
	}
}

// Name returns the provider name
func (a *Adapter) Name() string {
	return "ollama"
}

// IsAvailable probes the server's tag listing endpoint with a short
// timeout. A local server that cannot answer /api/tags quickly is
// treated as unreachable.
func (a *Adapter) IsAvailable(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, a.config.ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, "GET", a.config.BaseURL+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := a.probeClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// Complete posts the flattened prompt to /api/generate
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

	prompt := providers.FlattenMessages(req.Messages)

	reqBody, err := json.Marshal(generateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return nil, providers.NewProviderError(a.Name(), "MARSHAL_ERROR", "failed to marshal request", 0, false, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.config.BaseURL+"/api/generate", bytes.NewReader(reqBody))
	if err != nil {
		return nil, providers.NewProviderError(a.Name(), "REQUEST_ERROR", "failed to create request", 0, false, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return a.errorResponse(model, startTime, fmt.Sprintf("Ollama Error: %v", err)), nil
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return a.errorResponse(model, startTime, fmt.Sprintf("Ollama Error: %v", err)), nil
	}

	if httpResp.StatusCode != http.StatusOK {
		return a.errorResponse(model, startTime,
			fmt.Sprintf("Ollama Error: %d - %s", httpResp.StatusCode, string(respBody))), nil
	}

	var apiResp generateResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, providers.NewProviderError(a.Name(), "UNMARSHAL_ERROR", "failed to unmarshal response", httpResp.StatusCode, false, err)
	}

	return &providers.ChatResponse{
		Provider: a.Name(),
		Model:    model,
		Content:  apiResp.Response,
		Latency:  time.Since(startTime),
		Created:  time.Now(),
	}, nil
}

// errorResponse wraps backend failure text as a normal response
func (a *Adapter) errorResponse(model string, startTime time.Time, text string) *providers.ChatResponse {
	return &providers.ChatResponse{
		Provider: a.Name(),
		Model:    model,
		Content:  text,
		Latency:  time.Since(startTime),
		Created:  time.Now(),
	}
}

// Ollama wire types

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}
