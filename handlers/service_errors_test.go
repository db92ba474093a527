package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/lumni-ai/lumni-gateway/services"
)

func TestHandleServiceError_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", services.NewValidationError("bad input"), http.StatusBadRequest},
		{"rate limit", services.NewRateLimitError("groq", "m", nil), http.StatusTooManyRequests},
		{"circuit open", services.NewCircuitOpenError("groq", nil), http.StatusServiceUnavailable},
		{"no model", services.NewNoModelAvailableError("empty tier"), http.StatusServiceUnavailable},
		{"provider", services.NewProviderError("groq", "m", "down", nil), http.StatusBadGateway},
		{"internal", services.NewInternalError("boom", nil), http.StatusInternalServerError},
		{"plain error", errors.New("who knows"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleServiceError(rec, tc.err, zap.NewNop())
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestHandleServiceError_NilErrorWritesNothing(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleServiceError(rec, nil, zap.NewNop())
	assert.Empty(t, rec.Body.String())
}
