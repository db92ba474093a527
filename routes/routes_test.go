package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lumni-ai/lumni-gateway/app"
	"github.com/lumni-ai/lumni-gateway/catalog"
	"github.com/lumni-ai/lumni-gateway/config"
	"github.com/lumni-ai/lumni-gateway/handlers"
	"github.com/lumni-ai/lumni-gateway/internal/resilience"
	"github.com/lumni-ai/lumni-gateway/services"
	"github.com/lumni-ai/lumni-gateway/services/classifier"
	"github.com/lumni-ai/lumni-gateway/services/health"
	"github.com/lumni-ai/lumni-gateway/services/inference"
	"github.com/lumni-ai/lumni-gateway/services/providers"
	"github.com/lumni-ai/lumni-gateway/services/selector"
	"github.com/lumni-ai/lumni-gateway/services/usage"
)

type echoProvider struct{ name string }

func (p *echoProvider) Name() string { return p.name }

func (p *echoProvider) ChatCompletion(ctx context.Context, req *providers.ChatRequest) (*providers.ChatResponse, error) {
	return &providers.ChatResponse{
		ID:       "chatcmpl-test",
		Provider: p.name,
		Model:    req.Model,
		Choices: []providers.Choice{{
			Message:      providers.Message{Role: "assistant", Content: "Hello!"},
			FinishReason: "stop",
		}},
		Usage:   providers.Usage{PromptTokens: 2, CompletionTokens: 2, TotalTokens: 4},
		Created: time.Now(),
	}, nil
}

func (p *echoProvider) Ping(ctx context.Context) error { return nil }

func newTestRouter(t *testing.T, apiKeys []string) http.Handler {
	t.Helper()

	logger := zap.NewNop()
	cat := catalog.Default()

	registry := providers.NewRegistry()
	require.NoError(t, registry.Register(&echoProvider{name: "groq"}))

	breakers := resilience.NewBreakerSet(resilience.Config{
		FailureThreshold: 3,
		Timeout:          time.Minute,
		IsFailure:        services.IsProviderError,
	}, logger)
	healthSvc := health.NewService(time.Minute, logger)
	usageSvc := usage.NewService(nil, cat, logger)

	inferenceSvc := inference.NewService(
		classifier.NewService(logger),
		selector.NewService(cat, nil, logger),
		registry,
		breakers,
		resilience.RetryPolicy{MaxAttempts: 2, InitialDelay: time.Millisecond},
		healthSvc,
		usageSvc,
		logger,
	)

	deps := &app.Dependencies{
		Config: &config.Config{
			Server: config.ServerConfig{
				RequestTimeout: 30 * time.Second,
				MaxBodyBytes:   1 << 20,
			},
			Auth: config.AuthConfig{APIKeys: apiKeys},
		},
		Logger:           logger,
		Catalog:          cat,
		Registry:         registry,
		Breakers:         breakers,
		Health:           healthSvc,
		Usage:            usageSvc,
		InferenceService: inferenceSvc,
		ChatHandler:      handlers.NewChatHandler(inferenceSvc, logger),
		CatalogHandler:   handlers.NewCatalogHandler(cat, registry, breakers, healthSvc, logger),
		UsageHandler:     handlers.NewUsageHandler(usageSvc, logger),
		HealthHandler:    handlers.NewHealthHandler("test", nil, logger),
	}
	return SetupRoutes(deps)
}

func TestRoutes_Liveness(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutes_ChatCompletion(t *testing.T) {
	router := newTestRouter(t, nil)

	body := `{"messages":[{"role":"user","content":"Hi"}],"provider":"groq","model":"llama-3.1-8b-instant"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/completions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data inference.CompletionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "groq", resp.Data.Routing.Provider)
	require.Len(t, resp.Data.Choices, 1)
	assert.Equal(t, "Hello!", resp.Data.Choices[0].Message.Content)
}

func TestRoutes_ChatCompletionValidationError(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/completions",
		strings.NewReader(`{"messages":[]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoutes_Classify(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/classify",
		strings.NewReader(`{"messages":[{"role":"user","content":"Hi"}]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"tier":"fast"`)
}

func TestRoutes_ListModels(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/models", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "llama-3.1-8b-instant")
}

func TestRoutes_ProviderStatus(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/providers", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"circuit_state":"closed"`)
}

func TestRoutes_AuthRequired(t *testing.T) {
	router := newTestRouter(t, []string{"secret"})

	// API routes reject missing keys.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/models", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Health endpoints stay public.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// A valid key passes.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/models", nil)
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutes_UnknownEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v2/nothing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
