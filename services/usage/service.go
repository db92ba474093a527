// Package usage records completed requests for accounting and feeds the
// recent-usage signal back into model selection, spreading traffic away
// from providers that served the most recent requests.
package usage

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lumni-ai/lumni-gateway/catalog"
	"github.com/lumni-ai/lumni-gateway/models"
	"github.com/lumni-ai/lumni-gateway/repositories"
)

// signalWindow bounds how far back the in-memory recent-usage signal
// looks.
const signalWindow = 5 * time.Minute

// Service tracks per-provider usage. Persistence is best effort: a
// failed insert is logged and never fails the request that produced it.
type Service struct {
	repo    repositories.UsageRepository
	catalog *catalog.Catalog
	logger  *zap.Logger

	mu     sync.Mutex
	recent map[string][]time.Time
	now    func() time.Time
}

// NewService creates a usage service. repo may be nil when the gateway
// runs without a database; the in-memory signal still works.
func NewService(repo repositories.UsageRepository, cat *catalog.Catalog, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:    repo,
		catalog: cat,
		logger:  logger,
		recent:  make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Record stores the outcome of one routed request. Token counts on the
// record are priced against the catalog before persisting.
func (s *Service) Record(ctx context.Context, rec *models.UsageRecord) {
	rec.Cost = s.EstimateCost(rec.Provider, rec.Model, rec.PromptTokens, rec.CompletionTokens)

	s.observe(rec.Provider)

	if s.repo == nil {
		return
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		s.logger.Error("failed to persist usage record",
			zap.String("request_id", rec.RequestID),
			zap.String("provider", rec.Provider),
			zap.Error(err),
		)
	}
}

// EstimateCost prices a token count against the catalog. Unknown models
// cost zero.
func (s *Service) EstimateCost(provider, model string, promptTokens, completionTokens int) float64 {
	p, ok := s.catalog.Price(provider, model)
	if !ok {
		return 0
	}
	return float64(promptTokens)/1e6*p.InputCostPerMillion +
		float64(completionTokens)/1e6*p.OutputCostPerMillion
}

// RecentUsage implements the selector signal. The value is 1 minus the
// provider's share of requests in the signal window, so heavily used
// providers score lower. With no observations it returns the neutral
// 0.5.
func (s *Service) RecentUsage(provider, _ string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-signalWindow)
	total := 0
	providerCount := 0
	for name, stamps := range s.recent {
		kept := stamps[:0]
		for _, ts := range stamps {
			if ts.After(cutoff) {
				kept = append(kept, ts)
			}
		}
		s.recent[name] = kept
		total += len(kept)
		if name == provider {
			providerCount = len(kept)
		}
	}

	if total == 0 {
		return 0.5
	}
	return 1 - float64(providerCount)/float64(total)
}

// ProviderStats aggregates persisted usage per provider over the given
// window, newest-heavy providers first.
func (s *Service) ProviderStats(ctx context.Context, window time.Duration) ([]repositories.ProviderUsage, error) {
	if s.repo == nil {
		return nil, nil
	}
	end := s.now()
	return s.repo.ProviderStats(ctx, end.Add(-window), end)
}

// ListRecent returns the most recent persisted records.
func (s *Service) ListRecent(ctx context.Context, limit, offset int) ([]*models.UsageRecord, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.ListRecent(ctx, limit, offset)
}

func (s *Service) observe(provider string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent[provider] = append(s.recent[provider], s.now())
}
