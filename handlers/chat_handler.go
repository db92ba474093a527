package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lumni-ai/lumni-gateway/services/inference"
	"github.com/lumni-ai/lumni-gateway/services/providers"
	"github.com/lumni-ai/lumni-gateway/utils"
)

// ChatHandler handles completion and classification requests.
type ChatHandler struct {
	service *inference.Service
	logger  *zap.Logger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(service *inference.Service, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  logger,
	}
}

// HandleChatCompletion handles POST /api/v1/chat/completions
func (h *ChatHandler) HandleChatCompletion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetReqID(ctx)

	var req inference.CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.Complete(ctx, &req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteOK(w, result); err != nil {
		h.logger.Error("failed to write response",
			zap.String("request_id", requestID),
			zap.Error(err))
	}
}

// classifyRequest is the body for the classification dry run.
type classifyRequest struct {
	Messages []providers.Message `json:"messages"`
}

// HandleClassify handles POST /api/v1/classify. It returns the tier
// decision without dispatching anything.
func (h *ChatHandler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if len(req.Messages) == 0 {
		_ = utils.WriteBadRequest(w, "messages is required", nil)
		return
	}

	classification := h.service.Classify(req.Messages)
	if err := utils.WriteOK(w, classification); err != nil {
		h.logger.Error("failed to write classification response", zap.Error(err))
	}
}
