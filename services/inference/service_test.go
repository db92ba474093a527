package inference

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumni-ai/lumni-gateway/catalog"
	"github.com/lumni-ai/lumni-gateway/internal/resilience"
	"github.com/lumni-ai/lumni-gateway/models"
	"github.com/lumni-ai/lumni-gateway/repositories"
	"github.com/lumni-ai/lumni-gateway/services"
	"github.com/lumni-ai/lumni-gateway/services/classifier"
	"github.com/lumni-ai/lumni-gateway/services/health"
	"github.com/lumni-ai/lumni-gateway/services/providers"
	"github.com/lumni-ai/lumni-gateway/services/selector"
	"github.com/lumni-ai/lumni-gateway/services/usage"
)

// recordStore captures persisted usage records for assertions.
type recordStore struct {
	mu   sync.Mutex
	recs []*models.UsageRecord
}

func (r *recordStore) Create(_ context.Context, rec *models.UsageRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recs = append(r.recs, rec)
	return nil
}

func (r *recordStore) GetByRequestID(context.Context, string) (*models.UsageRecord, error) {
	return nil, nil
}

func (r *recordStore) ListRecent(context.Context, int, int) ([]*models.UsageRecord, error) {
	return nil, nil
}

func (r *recordStore) ProviderStats(context.Context, time.Time, time.Time) ([]repositories.ProviderUsage, error) {
	return nil, nil
}

func (r *recordStore) last() *models.UsageRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.recs) == 0 {
		return nil
	}
	return r.recs[len(r.recs)-1]
}

type scriptedProvider struct {
	name     string
	calls    int
	pings    int
	failures int
	failWith error
	pingErr  error
}

func (p *scriptedProvider) Name() string { return p.name }

func (p *scriptedProvider) ChatCompletion(ctx context.Context, req *providers.ChatRequest) (*providers.ChatResponse, error) {
	p.calls++
	if p.calls <= p.failures {
		return nil, p.failWith
	}
	return &providers.ChatResponse{
		ID:       "chatcmpl-test",
		Provider: p.name,
		Model:    req.Model,
		Choices: []providers.Choice{{
			Message:      providers.Message{Role: "assistant", Content: "Hello!"},
			FinishReason: "stop",
		}},
		Usage:   providers.Usage{PromptTokens: 5, CompletionTokens: 3, TotalTokens: 8},
		Created: time.Now(),
	}, nil
}

func (p *scriptedProvider) Ping(ctx context.Context) error {
	p.pings++
	return p.pingErr
}

type pipeline struct {
	svc      *Service
	registry *providers.Registry
	breakers *resilience.BreakerSet
	health   *health.Service
	records  *recordStore
}

func newPipeline(t *testing.T, provs ...providers.Provider) *pipeline {
	t.Helper()

	registry := providers.NewRegistry()
	for _, p := range provs {
		require.NoError(t, registry.Register(p))
	}

	cat := catalog.Default()
	breakers := resilience.NewBreakerSet(resilience.Config{
		FailureThreshold: 3,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
		IsFailure:        services.IsProviderError,
	}, nil)
	healthSvc := health.NewService(time.Minute, nil)
	records := &recordStore{}
	usageSvc := usage.NewService(records, cat, nil)
	retry := resilience.RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}

	svc := NewService(
		classifier.NewService(nil),
		selector.NewService(cat, usageSvc2signals(usageSvc), nil),
		registry,
		breakers,
		retry,
		healthSvc,
		usageSvc,
		nil,
	)
	return &pipeline{svc: svc, registry: registry, breakers: breakers, health: healthSvc, records: records}
}

type signals struct{ u *usage.Service }

func (s signals) ProviderPriority(string) float64 { return 0.5 }
func (s signals) RecentUsage(p, m string) float64 { return s.u.RecentUsage(p, m) }

func usageSvc2signals(u *usage.Service) selector.Signals { return signals{u: u} }

func chat(content string) *CompletionRequest {
	return &CompletionRequest{
		Messages: []providers.Message{{Role: "user", Content: content}},
		Provider: "groq",
		Model:    "llama-3.1-8b-instant",
	}
}

func TestComplete_Success(t *testing.T) {
	prov := &scriptedProvider{name: "groq"}
	p := newPipeline(t, prov)

	resp, err := p.svc.Complete(context.Background(), chat("Hi"))
	require.NoError(t, err)

	assert.NotEmpty(t, resp.RequestID)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "Hello!", resp.Choices[0].Message.Content)
	assert.Equal(t, "groq", resp.Routing.Provider)
	assert.Equal(t, 1, resp.Routing.Attempts)
	assert.True(t, resp.Routing.ProviderHealthy)

	// Success marks the provider healthy in the cache.
	healthy, ok := p.health.Cached("groq")
	require.True(t, ok)
	assert.True(t, healthy)
}

func TestComplete_AutoTierIncludesClassification(t *testing.T) {
	prov := &scriptedProvider{name: "groq"}
	p := newPipeline(t, prov)

	req := &CompletionRequest{
		Messages: []providers.Message{{Role: "user", Content: "Hi"}},
		Provider: "groq",
		Model:    "llama-3.1-8b-instant",
		Tier:     catalog.TierAuto,
	}
	resp, err := p.svc.Complete(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.Routing.Classification)
	assert.Equal(t, catalog.TierFast, resp.Routing.Classification.Tier)

	// An explicit tier skips classification in the response.
	req.Tier = catalog.TierFast
	resp, err = p.svc.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, resp.Routing.Classification)
}

func TestComplete_ValidationFailures(t *testing.T) {
	p := newPipeline(t, &scriptedProvider{name: "groq"})

	cases := []*CompletionRequest{
		{Messages: nil},
		{Messages: []providers.Message{{Role: "robot", Content: "hi"}}},
		{Messages: []providers.Message{{Role: "user", Content: ""}}},
		{Messages: []providers.Message{{Role: "user", Content: "hi"}}, Temperature: 3.0},
		{Messages: []providers.Message{{Role: "user", Content: "hi"}}, Tier: "turbo"},
	}
	for _, req := range cases {
		_, err := p.svc.Complete(context.Background(), req)
		require.Error(t, err)
		assert.True(t, services.IsValidationError(err), "request %+v", req)
	}
}

func TestComplete_RetriesTransientProviderFailures(t *testing.T) {
	prov := &scriptedProvider{
		name:     "groq",
		failures: 2,
		failWith: services.NewProviderError("groq", "llama-3.1-8b-instant", "upstream hiccup", nil),
	}
	p := newPipeline(t, prov)

	resp, err := p.svc.Complete(context.Background(), chat("Hi"))
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Routing.Attempts)
	assert.Equal(t, 3, prov.calls)
}

func TestComplete_ValidationStyleProviderErrorNotRetried(t *testing.T) {
	prov := &scriptedProvider{
		name:     "groq",
		failures: 10,
		failWith: services.NewValidationError("model rejected the payload"),
	}
	p := newPipeline(t, prov)

	_, err := p.svc.Complete(context.Background(), chat("Hi"))
	require.Error(t, err)
	assert.Equal(t, 1, prov.calls)
}

func TestComplete_OpenCircuitFailsFast(t *testing.T) {
	prov := &scriptedProvider{
		name:     "groq",
		failures: 100,
		failWith: services.NewProviderError("groq", "llama-3.1-8b-instant", "down", nil),
	}
	p := newPipeline(t, prov)

	// Threshold is 3: the first request's retries trip the breaker.
	_, err := p.svc.Complete(context.Background(), chat("Hi"))
	require.Error(t, err)
	require.Equal(t, 3, prov.calls)
	assert.True(t, p.breakers.IsOpen("groq"))

	// Open circuit rejects without touching the provider and without
	// retrying.
	_, err = p.svc.Complete(context.Background(), chat("Hi"))
	require.Error(t, err)
	assert.True(t, services.IsCircuitOpenError(err))
	assert.Equal(t, 3, prov.calls)
}

func TestComplete_RateLimitFailureRecordedDistinctly(t *testing.T) {
	prov := &scriptedProvider{
		name:     "groq",
		failures: 100,
		failWith: services.NewRateLimitError("groq", "llama-3.1-8b-instant", nil),
	}
	p := newPipeline(t, prov)

	_, err := p.svc.Complete(context.Background(), chat("Hi"))
	require.Error(t, err)
	require.True(t, services.IsRateLimitError(err))

	// Rate-limit hits get their own usage status so provider stats can
	// report them apart from other failures.
	rec := p.records.last()
	require.NotNil(t, rec)
	assert.Equal(t, models.UsageStatusRateLimited, rec.Status)
	assert.Equal(t, "groq", rec.Provider)
}

func TestComplete_StatusRecordedPerOutcome(t *testing.T) {
	prov := &scriptedProvider{name: "groq"}
	p := newPipeline(t, prov)

	_, err := p.svc.Complete(context.Background(), chat("Hi"))
	require.NoError(t, err)
	require.NotNil(t, p.records.last())
	assert.Equal(t, models.UsageStatusCompleted, p.records.last().Status)
}

func TestComplete_UnregisteredProvider(t *testing.T) {
	p := newPipeline(t) // empty registry

	_, err := p.svc.Complete(context.Background(), chat("Hi"))
	require.Error(t, err)
	assert.True(t, services.IsProviderError(err))
	assert.Contains(t, err.Error(), "not configured")
}

func TestComplete_UnhealthyProviderStillDispatched(t *testing.T) {
	prov := &scriptedProvider{name: "groq"}
	p := newPipeline(t, prov)
	p.health.MarkUnhealthy("groq")

	resp, err := p.svc.Complete(context.Background(), chat("Hi"))
	require.NoError(t, err)
	assert.False(t, resp.Routing.ProviderHealthy)
	assert.Equal(t, 1, prov.calls)
}

func TestComplete_FailureMarksProviderUnhealthy(t *testing.T) {
	prov := &scriptedProvider{
		name:     "groq",
		failures: 100,
		failWith: services.NewProviderError("groq", "llama-3.1-8b-instant", "down", nil),
	}
	p := newPipeline(t, prov)
	p.health.MarkHealthy("groq")

	_, err := p.svc.Complete(context.Background(), chat("Hi"))
	require.Error(t, err)

	healthy, ok := p.health.Cached("groq")
	require.True(t, ok)
	assert.False(t, healthy)
}

func TestComplete_AutoSelectionEndToEnd(t *testing.T) {
	// No provider or model pinned: classification picks the fast tier
	// and scoring picks a fast model. Register every catalog provider
	// so whichever wins is available.
	var provs []providers.Provider
	for _, name := range catalog.Default().Providers() {
		provs = append(provs, &scriptedProvider{name: name})
	}
	p := newPipeline(t, provs...)

	resp, err := p.svc.Complete(context.Background(), &CompletionRequest{
		Messages: []providers.Message{{Role: "user", Content: "Hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, catalog.TierFast, resp.Routing.Tier)
	assert.NotEmpty(t, resp.Routing.Provider)
	assert.Contains(t, resp.Routing.Reason, "optimization score")
}

func TestClassify_DryRun(t *testing.T) {
	p := newPipeline(t)

	c := p.svc.Classify([]providers.Message{{Role: "user", Content: "Hi"}})
	assert.Equal(t, catalog.TierFast, c.Tier)
	assert.InDelta(t, 1.0, c.Confidence, 1e-9)
}
