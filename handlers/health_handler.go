package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/lumni-ai/lumni-gateway/utils"
)

// ReadinessChecker verifies a dependency is reachable.
type ReadinessChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	version  string
	checkers map[string]ReadinessChecker
	logger   *zap.Logger
}

// NewHealthHandler creates a new HealthHandler. checkers may be empty
// when the gateway has no hard dependencies.
func NewHealthHandler(version string, checkers map[string]ReadinessChecker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		version:  version,
		checkers: checkers,
		logger:   logger,
	}
}

// HandleLiveness handles GET /healthz
func (h *HealthHandler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}

// HandleReadiness handles GET /readyz. It fails when any registered
// dependency check fails.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.checkers))
	ready := true
	for name, checker := range h.checkers {
		if err := checker.HealthCheck(ctx); err != nil {
			h.logger.Warn("readiness check failed",
				zap.String("dependency", name),
				zap.Error(err))
			checks[name] = err.Error()
			ready = false
			continue
		}
		checks[name] = "ok"
	}

	status := http.StatusOK
	statusText := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		statusText = "not ready"
	}

	_ = utils.WriteJSON(w, status, map[string]interface{}{
		"status": statusText,
		"checks": checks,
	})
}
