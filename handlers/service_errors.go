package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/lumni-ai/lumni-gateway/services"
	"github.com/lumni-ai/lumni-gateway/utils"
)

// HandleServiceError maps domain errors to HTTP responses.
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	var details map[string]interface{}
	var domainErr *services.DomainError
	if de, ok := err.(*services.DomainError); ok {
		domainErr = de
		details = de.Details
	}

	switch {
	case services.IsValidationError(err):
		if werr := utils.WriteBadRequest(w, err.Error(), details); werr != nil {
			logger.Error("failed to write bad request response", zap.Error(werr))
		}

	case services.IsRateLimitError(err):
		if werr := utils.WriteTooManyRequests(w, err.Error(), details); werr != nil {
			logger.Error("failed to write rate limit response", zap.Error(werr))
		}

	case services.IsCircuitOpenError(err):
		// The breaker is shedding load for this provider; clients should
		// back off or pick another provider.
		if werr := utils.WriteServiceUnavailable(w, err.Error(), details); werr != nil {
			logger.Error("failed to write circuit open response", zap.Error(werr))
		}

	case services.IsNoModelAvailable(err):
		if werr := utils.WriteServiceUnavailable(w, err.Error(), details); werr != nil {
			logger.Error("failed to write no model available response", zap.Error(werr))
		}

	case services.IsProviderError(err):
		if werr := utils.WriteBadGateway(w, err.Error(), details); werr != nil {
			logger.Error("failed to write bad gateway response", zap.Error(werr))
		}

	default:
		logger.Error("unhandled error type",
			zap.Error(err),
			zap.String("error_type", string(services.GetErrorType(err))))
		if werr := utils.WriteInternalServerError(w, "An unexpected error occurred"); werr != nil {
			logger.Error("failed to write internal error response", zap.Error(werr))
		}
	}

	if domainErr != nil {
		logger.Debug("handled service error",
			zap.String("type", string(domainErr.Type)),
			zap.String("message", domainErr.Message),
			zap.String("provider", domainErr.Provider),
		)
	}
}
