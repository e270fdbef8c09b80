package handlers

import (
	"errors"
	"net/http"

	"github.com/llmkit/llm-selector/services"
	"github.com/llmkit/llm-selector/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps service-layer errors to HTTP responses
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	switch services.GetErrorType(err) {
	case services.ErrorTypeValidation:
		_ = utils.WriteBadRequest(w, err.Error(), nil)
	case services.ErrorTypeUnavailable:
		_ = utils.WriteServiceUnavailable(w, err.Error())
	case services.ErrorTypeExternal:
		_ = utils.WriteJSON(w, http.StatusBadGateway, utils.ErrorResponse{
			Error:   "upstream_error",
			Message: err.Error(),
		})
	default:
		logger.Error("unhandled service error", zap.Error(err))
		_ = utils.WriteInternalError(w, "")
	}
}

// HandleValidationError maps request validation failures to 400s with
// per-field details when available
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var validationErr *utils.ValidationError
	if errors.As(err, &validationErr) {
		_ = utils.WriteBadRequest(w, validationErr.Message, validationErr.Fields)
		return
	}
	_ = utils.WriteBadRequest(w, err.Error(), nil)
}
