package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State represents the circuit breaker state
type State string

const (
	// StateClosed allows calls through (normal operation)
	StateClosed State = "closed"

	// StateOpen rejects calls without invoking the downstream
	StateOpen State = "open"

	// StateHalfOpen lets trial calls through to test recovery
	StateHalfOpen State = "half_open"
)

// OpenError is returned when the breaker rejects a call. The protected
// function is not invoked.
type OpenError struct {
	Name string
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("circuit breaker %q is open", e.Name)
}

// IsOpenError checks if an error is a breaker rejection
func IsOpenError(err error) bool {
	var oe *OpenError
	return errors.As(err, &oe)
}

// Config holds circuit breaker tuning.
type Config struct {
	// FailureThreshold opens the circuit after this many consecutive
	// failures since the last success.
	FailureThreshold int

	// SuccessThreshold closes the circuit after this many consecutive
	// successes while half-open.
	SuccessThreshold int

	// Timeout is the cooldown before an open circuit admits a trial call.
	Timeout time.Duration

	// IsFailure decides which errors count against the failure threshold.
	// Nil counts every non-nil error.
	IsFailure func(error) bool
}

func (c Config) withDefaults() Config {
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 5
	}
	if c.SuccessThreshold <= 0 {
		c.SuccessThreshold = 2
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	return c
}

// Stats is a point-in-time snapshot of a breaker.
type Stats struct {
	State         State     `json:"state"`
	Failures      int       `json:"failures"`
	Successes     int       `json:"successes"`
	LastFailureAt time.Time `json:"last_failure_at,omitempty"`
	OpenedAt      time.Time `json:"opened_at,omitempty"`
}

// Breaker is a per-call-site failure isolation state machine.
// State transitions happen under an internal mutex; the protected
// function always executes outside it so concurrent callers are not
// serialized by the breaker.
type Breaker struct {
	name   string
	cfg    Config
	logger *zap.Logger

	mu            sync.Mutex
	state         State
	failures      int
	successes     int
	lastFailureAt time.Time
	openedAt      time.Time
}

// NewBreaker creates a breaker in the closed state.
func NewBreaker(name string, cfg Config, logger *zap.Logger) *Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Breaker{
		name:   name,
		cfg:    cfg.withDefaults(),
		logger: logger,
		state:  StateClosed,
	}
}

// Do executes fn under breaker protection. When the circuit resolves to
// open, the call is rejected with *OpenError and fn is not invoked.
func (b *Breaker) Do(ctx context.Context, fn func(context.Context) error) error {
	if err := b.allow(); err != nil {
		return err
	}

	err := fn(ctx)
	if err != nil {
		if b.cfg.IsFailure == nil || b.cfg.IsFailure(err) {
			b.recordFailure()
		}
		return err
	}

	b.recordSuccess()
	return nil
}

// allow checks the state, moving open to half-open once the cooldown has
// elapsed. Evaluated lazily on each call attempt.
func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if time.Since(b.openedAt) >= b.cfg.Timeout {
			b.state = StateHalfOpen
			b.successes = 0
			b.logger.Info("circuit breaker half-open", zap.String("breaker", b.name))
		} else {
			return &OpenError{Name: b.name}
		}
	}
	return nil
}

func (b *Breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateHalfOpen:
		b.successes++
		if b.successes >= b.cfg.SuccessThreshold {
			b.state = StateClosed
			b.failures = 0
			b.successes = 0
			b.logger.Info("circuit breaker closed", zap.String("breaker", b.name))
		}
	case StateClosed:
		b.failures = 0
	}
}

func (b *Breaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	b.lastFailureAt = time.Now()

	switch {
	case b.state == StateHalfOpen:
		// Any failure during the trial reopens immediately.
		b.state = StateOpen
		b.openedAt = time.Now()
		b.successes = 0
		b.logger.Warn("circuit breaker reopened", zap.String("breaker", b.name))
	case b.state == StateClosed && b.failures >= b.cfg.FailureThreshold:
		b.state = StateOpen
		b.openedAt = time.Now()
		b.logger.Error("circuit breaker opened",
			zap.String("breaker", b.name),
			zap.Int("failures", b.failures))
	}
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// IsOpen reports whether the circuit is open.
func (b *Breaker) IsOpen() bool {
	return b.State() == StateOpen
}

// Snapshot returns current stats.
func (b *Breaker) Snapshot() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Stats{
		State:         b.state,
		Failures:      b.failures,
		Successes:     b.successes,
		LastFailureAt: b.lastFailureAt,
		OpenedAt:      b.openedAt,
	}
}

// BreakerSet manages one breaker per name (typically per provider).
// Breakers are created lazily on first use and never removed.
type BreakerSet struct {
	cfg    Config
	logger *zap.Logger

	mu       sync.Mutex
	breakers map[string]*Breaker
}

// NewBreakerSet creates an empty set sharing one config.
func NewBreakerSet(cfg Config, logger *zap.Logger) *BreakerSet {
	return &BreakerSet{
		cfg:      cfg,
		logger:   logger,
		breakers: make(map[string]*Breaker),
	}
}

// Get returns the breaker for a name, creating it if needed.
func (s *BreakerSet) Get(name string) *Breaker {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.breakers[name]; ok {
		return b
	}
	b := NewBreaker(name, s.cfg, s.logger)
	s.breakers[name] = b
	return b
}

// State returns the state of the named breaker.
func (s *BreakerSet) State(name string) State {
	return s.Get(name).State()
}

// IsOpen reports whether the named breaker is open.
func (s *BreakerSet) IsOpen(name string) bool {
	return s.Get(name).IsOpen()
}

// Snapshot returns stats for every breaker in the set.
func (s *BreakerSet) Snapshot() map[string]Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]Stats, len(s.breakers))
	for name, b := range s.breakers {
		out[name] = b.Snapshot()
	}
	return out
}
