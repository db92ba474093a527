package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lumni-ai/lumni-gateway/catalog"
	"github.com/lumni-ai/lumni-gateway/internal/resilience"
	"github.com/lumni-ai/lumni-gateway/services/health"
	"github.com/lumni-ai/lumni-gateway/services/providers"
	"github.com/lumni-ai/lumni-gateway/utils"
)

// CatalogHandler exposes the model catalog and live provider status.
type CatalogHandler struct {
	catalog  *catalog.Catalog
	registry *providers.Registry
	breakers *resilience.BreakerSet
	health   *health.Service
	logger   *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(
	cat *catalog.Catalog,
	registry *providers.Registry,
	breakers *resilience.BreakerSet,
	healthSvc *health.Service,
	logger *zap.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		catalog:  cat,
		registry: registry,
		breakers: breakers,
		health:   healthSvc,
		logger:   logger,
	}
}

// modelInfo is the catalog entry enriched with quota data.
type modelInfo struct {
	Provider  string                  `json:"provider"`
	Model     string                  `json:"model"`
	Tier      catalog.Tier            `json:"tier"`
	RateLimit *catalog.RateLimitEntry `json:"rate_limits,omitempty"`
}

// HandleListModels handles GET /api/v1/models
func (h *CatalogHandler) HandleListModels(w http.ResponseWriter, r *http.Request) {
	models := h.catalog.Models()
	out := make([]modelInfo, 0, len(models))
	for _, m := range models {
		info := modelInfo{Provider: m.Provider, Model: m.Model, Tier: m.Tier}
		if rl, ok := h.catalog.RateLimit(m.Provider, m.Model); ok {
			info.RateLimit = &rl
		}
		out = append(out, info)
	}

	if err := utils.WriteOK(w, out); err != nil {
		h.logger.Error("failed to write models response", zap.Error(err))
	}
}

// HandleProviderModels handles GET /api/v1/providers/{provider}/models
func (h *CatalogHandler) HandleProviderModels(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	models := h.catalog.ModelsByProvider(provider)
	if len(models) == 0 {
		_ = utils.WriteNotFound(w, "no models for provider "+provider)
		return
	}

	out := make([]modelInfo, 0, len(models))
	for _, m := range models {
		info := modelInfo{Provider: m.Provider, Model: m.Model, Tier: m.Tier}
		if rl, ok := h.catalog.RateLimit(m.Provider, m.Model); ok {
			info.RateLimit = &rl
		}
		out = append(out, info)
	}

	if err := utils.WriteOK(w, out); err != nil {
		h.logger.Error("failed to write provider models response", zap.Error(err))
	}
}

// providerStatus reports the live routing state of one provider.
type providerStatus struct {
	Provider     string         `json:"provider"`
	Configured   bool           `json:"configured"`
	CircuitState string         `json:"circuit_state"`
	Failures     int            `json:"failures"`
	Health       *health.Status `json:"health,omitempty"`
}

// HandleProviderStatus handles GET /api/v1/providers. It merges catalog
// membership, registry configuration, breaker state, and cached health.
func (h *CatalogHandler) HandleProviderStatus(w http.ResponseWriter, r *http.Request) {
	configured := make(map[string]bool)
	for _, name := range h.registry.Names() {
		configured[name] = true
	}
	breakerStats := h.breakers.Snapshot()
	healthSnap := h.health.Snapshot()

	out := make([]providerStatus, 0)
	for _, name := range h.catalog.Providers() {
		status := providerStatus{
			Provider:     name,
			Configured:   configured[name],
			CircuitState: string(h.breakers.State(name)),
		}
		if stats, ok := breakerStats[name]; ok {
			status.Failures = stats.Failures
		}
		if hs, ok := healthSnap[name]; ok {
			status.Health = &hs
		}
		out = append(out, status)
	}

	if err := utils.WriteOK(w, out); err != nil {
		h.logger.Error("failed to write provider status response", zap.Error(err))
	}
}
