package handlers

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/lumni-ai/lumni-gateway/services/usage"
	"github.com/lumni-ai/lumni-gateway/utils"
)

// UsageHandler exposes persisted usage data.
type UsageHandler struct {
	service *usage.Service
	logger  *zap.Logger
}

// NewUsageHandler creates a new UsageHandler
func NewUsageHandler(service *usage.Service, logger *zap.Logger) *UsageHandler {
	return &UsageHandler{
		service: service,
		logger:  logger,
	}
}

// HandleProviderStats handles GET /api/v1/usage/providers?window=24h
func (h *UsageHandler) HandleProviderStats(w http.ResponseWriter, r *http.Request) {
	window := 24 * time.Hour
	if raw := r.URL.Query().Get("window"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			_ = utils.WriteBadRequest(w, "invalid window duration", nil)
			return
		}
		window = parsed
	}

	stats, err := h.service.ProviderStats(r.Context(), window)
	if err != nil {
		h.logger.Error("failed to load provider stats", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "failed to load usage stats")
		return
	}

	if err := utils.WriteOK(w, stats); err != nil {
		h.logger.Error("failed to write usage stats response", zap.Error(err))
	}
}

// HandleListRecent handles GET /api/v1/usage?limit=50&offset=0
func (h *UsageHandler) HandleListRecent(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	if limit <= 0 || limit > 500 || offset < 0 {
		_ = utils.WriteBadRequest(w, "invalid pagination parameters", nil)
		return
	}

	records, err := h.service.ListRecent(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("failed to list usage records", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "failed to list usage records")
		return
	}

	if err := utils.WriteOK(w, records); err != nil {
		h.logger.Error("failed to write usage records response", zap.Error(err))
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return v
}
