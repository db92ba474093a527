// Package health caches provider reachability with a TTL so hot-path
// routing never blocks on repeated probes. Health status is advisory:
// callers may log a warning and dispatch to an unhealthy provider
// anyway, leaving enforcement to the circuit breaker.
package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Prober performs the actual reachability check for one provider.
type Prober interface {
	Ping(ctx context.Context) error
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context) error

// Ping implements Prober
func (f ProberFunc) Ping(ctx context.Context) error { return f(ctx) }

// Status is a cached health observation.
type Status struct {
	Healthy   bool      `json:"healthy"`
	CheckedAt time.Time `json:"checked_at"`
}

type entry struct {
	healthy   bool
	checkedAt time.Time
}

// Service is a TTL-bounded provider health cache.
type Service struct {
	mu     sync.RWMutex
	cache  map[string]entry
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewService creates a health cache. A non-positive ttl defaults to 60s.
func NewService(ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cache:  make(map[string]entry),
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

// CheckHealth returns the provider's health record, probing only when
// the cached entry is missing, stale, or force is set. The probe runs
// outside the lock so concurrent lookups for other providers are never
// blocked behind a slow network call.
func (s *Service) CheckHealth(ctx context.Context, provider string, prober Prober, force bool) Status {
	if !force {
		if st, ok := s.cached(provider); ok {
			return st
		}
	}

	err := prober.Ping(ctx)
	healthy := err == nil
	if err != nil {
		s.logger.Warn("provider health probe failed",
			zap.String("provider", provider),
			zap.Error(err),
		)
	}

	return s.store(provider, healthy)
}

// Cached returns the cached health status, or ok=false when the entry
// is missing or older than the TTL.
func (s *Service) Cached(provider string) (healthy, ok bool) {
	st, ok := s.cached(provider)
	return st.Healthy, ok
}

func (s *Service) cached(provider string) (Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.cache[provider]
	if !exists || s.now().Sub(e.checkedAt) >= s.ttl {
		return Status{}, false
	}
	return Status{Healthy: e.healthy, CheckedAt: e.checkedAt}, true
}

// MarkHealthy records a positive observation, typically after a
// successful completion call.
func (s *Service) MarkHealthy(provider string) {
	s.store(provider, true)
}

// MarkUnhealthy records a negative observation, typically after a
// completion call failed.
func (s *Service) MarkUnhealthy(provider string) {
	s.store(provider, false)
	s.logger.Warn("marked provider unhealthy", zap.String("provider", provider))
}

// Snapshot returns the current non-stale cache contents keyed by
// provider name.
func (s *Service) Snapshot() map[string]Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Status, len(s.cache))
	now := s.now()
	for provider, e := range s.cache {
		if now.Sub(e.checkedAt) >= s.ttl {
			continue
		}
		out[provider] = Status{Healthy: e.healthy, CheckedAt: e.checkedAt}
	}
	return out
}

// ClearCache drops all cached observations.
func (s *Service) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]entry)
}

func (s *Service) store(provider string, healthy bool) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := entry{healthy: healthy, checkedAt: s.now()}
	s.cache[provider] = e
	return Status{Healthy: e.healthy, CheckedAt: e.checkedAt}
}
