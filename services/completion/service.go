package completion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/llmkit/llm-selector/services"
	"github.com/llmkit/llm-selector/services/providers"
	"github.com/llmkit/llm-selector/services/selection"
	"go.uber.org/zap"
)

// Request is a service-level completion request
type Request struct {
	// Policy names the selection strategy; empty means best_available
	Policy selection.Policy

	// Model optionally overrides the selected provider's default
	Model string

	// Messages in the conversation
	Messages []providers.Message

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature controls randomness
	Temperature float64
}

// Result is a service-level completion result
type Result struct {
	// RequestID uniquely identifies this completion
	RequestID string

	// Provider that produced the response
	Provider string

	// Model used, when the backend reports one
	Model string

	// Content is the response text
	Content string

	// LatencyMs is the wall-clock duration of the call
	LatencyMs int64

	// Created timestamp
	Created time.Time
}

// Service orchestrates a completion: select a provider for the
// requested policy, run the call under a bounded wait, and return the
// tagged result. Backend failures come back as readable text inside
// Content; the only errors this service returns are selection errors.
type Service struct {
	factory       *selection.Factory
	logger        *zap.Logger
	defaultPolicy selection.Policy
	boundedWait   time.Duration
}

// NewService creates a completion service
func NewService(factory *selection.Factory, defaultPolicy selection.Policy, boundedWait time.Duration, logger *zap.Logger) *Service {
	if defaultPolicy == "" {
		defaultPolicy = selection.PolicyBestAvailable
	}
	if boundedWait <= 0 {
		boundedWait = 120 * time.Second
	}
	return &Service{
		factory:       factory,
		logger:        logger,
		defaultPolicy: defaultPolicy,
		boundedWait:   boundedWait,
	}
}

// Process runs one completion end to end
func (s *Service) Process(ctx context.Context, req *Request) (*Result, error) {
	requestID := uuid.New().String()
	startTime := time.Now()

	policy := req.Policy
	if policy == "" {
		policy = s.defaultPolicy
	}

	s.logger.Info("starting completion",
		zap.String("request_id", requestID),
		zap.String("policy", string(policy)),
		zap.Int("messages", len(req.Messages)))

	provider, err := s.factory.Select(ctx, policy)
	if err != nil {
		if errors.Is(err, selection.ErrUnknownPolicy) {
			return nil, services.NewDomainError(services.ErrorTypeValidation, err.Error(), err)
		}
		s.logger.Error("provider selection failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", services.ErrNoProviders, err)
	}

	chatReq := &providers.ChatRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	resp := selection.CompleteWithTimeout(ctx, provider, chatReq, s.boundedWait)

	s.logger.Info("completion finished",
		zap.String("request_id", requestID),
		zap.String("provider", resp.Provider),
		zap.Duration("latency", resp.Latency),
		zap.Bool("error_text", selection.IsErrorText(resp.Content)))

	return &Result{
		RequestID: requestID,
		Provider:  resp.Provider,
		Model:     resp.Model,
		Content:   resp.Content,
		LatencyMs: time.Since(startTime).Milliseconds(),
		Created:   resp.Created,
	}, nil
}
