package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/llmkit/llm-selector/services/completion"
	"github.com/llmkit/llm-selector/services/providers"
	"github.com/llmkit/llm-selector/services/selection"
	"github.com/llmkit/llm-selector/utils"
	"go.uber.org/zap"
)

// CompletionRequest represents an API completion request
type CompletionRequest struct {
	Policy      string        `json:"policy,omitempty" validate:"omitempty,oneof=best_available fastest free"`
	Model       string        `json:"model,omitempty"`
	Messages    []ChatMessage `json:"messages" validate:"required,min=1,dive"`
	MaxTokens   *int          `json:"max_tokens,omitempty" validate:"omitempty,gt=0"`
	Temperature *float64      `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
}

// ChatMessage represents a single chat message
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content" validate:"required"`
}

// CompletionResponse represents an API completion response
type CompletionResponse struct {
	ID        string `json:"id"`
	Provider  string `json:"provider"`
	Model     string `json:"model,omitempty"`
	Content   string `json:"content"`
	LatencyMs int64  `json:"latency_ms"`
	Created   int64  `json:"created"`
}

// CompletionService defines the interface for completion operations
type CompletionService interface {
	Process(ctx context.Context, req *completion.Request) (*completion.Result, error)
}

// CompletionHandler handles completion HTTP requests
type CompletionHandler struct {
	service CompletionService
	logger  *zap.Logger
}

// NewCompletionHandler creates a new CompletionHandler
func NewCompletionHandler(service CompletionService, logger *zap.Logger) *CompletionHandler {
	return &CompletionHandler{
		service: service,
		logger:  logger,
	}
}

// HandleCompletion handles POST /api/v1/completions
func (h *CompletionHandler) HandleCompletion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var apiReq CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&apiReq); err != nil {
		h.logger.Warn("failed to parse request body", zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&apiReq); err != nil {
		h.logger.Warn("request validation failed", zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return
	}

	serviceReq := &completion.Request{
		Policy:   selection.Policy(apiReq.Policy),
		Model:    apiReq.Model,
		Messages: make([]providers.Message, len(apiReq.Messages)),
	}
	for i, msg := range apiReq.Messages {
		serviceReq.Messages[i] = providers.Message{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}
	if apiReq.MaxTokens != nil {
		serviceReq.MaxTokens = *apiReq.MaxTokens
	}
	if apiReq.Temperature != nil {
		serviceReq.Temperature = *apiReq.Temperature
	}

	result, err := h.service.Process(ctx, serviceReq)
	if err != nil {
		h.logger.Error("failed to process completion", zap.Error(err))
		HandleServiceError(w, err, h.logger)
		return
	}

	response := CompletionResponse{
		ID:        result.RequestID,
		Provider:  result.Provider,
		Model:     result.Model,
		Content:   result.Content,
		LatencyMs: result.LatencyMs,
		Created:   time.Now().Unix(),
	}

	_ = utils.WriteJSON(w, http.StatusOK, response)
}
