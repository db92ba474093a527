// Package selector picks the concrete (provider, model) pair for a
// request. Explicit choices are honored (subject to provider policy),
// partial choices are completed from the catalog, and fully automatic
// requests are scored against benchmark, quota, and cost data.
package selector

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/lumni-ai/lumni-gateway/catalog"
	"github.com/lumni-ai/lumni-gateway/services"
)

// openrouterFreeModels is the allow-list for the openrouter provider.
// The account runs without credits, so only free-tier models may be
// requested through it. Matching is by substring after stripping the
// "openrouter/" prefix.
var openrouterFreeModels = []string{
	"llama-3.1-8b-instruct",
	"phi-3-mini-4k-instruct",
	"gemini-flash-1.5",
	"deepseek-chat:free",
}

// Scoring weights for automatic tier selection. They sum to 1.0.
const (
	weightBenchmarkRanking = 0.3
	weightBenchmarkScore   = 0.2
	weightRateLimit        = 0.2
	weightProviderPriority = 0.1
	weightRecentUsage      = 0.1
	weightCostEfficiency   = 0.1
)

// unrankedDivisor substitutes for a missing benchmark ranking.
const unrankedDivisor = 10.0

// Signals supplies the dynamic scoring inputs that are not part of the
// static catalog. Implementations must return values in [0, 1].
type Signals interface {
	// ProviderPriority returns the operator-configured preference for a
	// provider.
	ProviderPriority(provider string) float64

	// RecentUsage returns how much headroom the (provider, model) pair
	// has left; higher means less recently used.
	RecentUsage(provider, model string) float64
}

type defaultSignals struct{}

func (defaultSignals) ProviderPriority(string) float64    { return 0.5 }
func (defaultSignals) RecentUsage(string, string) float64 { return 0.5 }

// Request carries the routing preferences extracted from a completion
// request. Tier must already be concrete; auto resolution happens in
// the classifier before selection.
type Request struct {
	Provider string
	Model    string
	Tier     catalog.Tier
}

// Selection is the routing decision.
type Selection struct {
	Provider string  `json:"provider"`
	Model    string  `json:"model"`
	Reason   string  `json:"reason"`
	Score    float64 `json:"score,omitempty"`
}

// Service selects models against a catalog.
type Service struct {
	catalog *catalog.Catalog
	signals Signals
	logger  *zap.Logger
}

// NewService creates a selector. Nil signals fall back to neutral 0.5
// values for priority and usage.
func NewService(cat *catalog.Catalog, signals Signals, logger *zap.Logger) *Service {
	if signals == nil {
		signals = defaultSignals{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{catalog: cat, signals: signals, logger: logger}
}

// Select resolves the request to a concrete (provider, model) pair.
// Precedence: explicit pair, model only, provider only, then tier-based
// scoring.
func (s *Service) Select(req Request) (Selection, error) {
	switch {
	case req.Provider != "" && req.Model != "":
		return s.selectExplicit(req.Provider, req.Model)
	case req.Model != "":
		return s.selectByModel(req.Model), nil
	case req.Provider != "":
		return s.selectByProvider(req.Provider)
	default:
		return s.selectByTier(req.Tier)
	}
}

func (s *Service) selectExplicit(provider, model string) (Selection, error) {
	if provider == "openrouter" {
		if err := checkOpenRouterModel(model); err != nil {
			return Selection{}, err
		}
	}
	return Selection{
		Provider: provider,
		Model:    model,
		Reason:   fmt.Sprintf("explicitly specified provider %s and model %s", provider, model),
	}, nil
}

func (s *Service) selectByModel(model string) Selection {
	if candidate, ok := s.catalog.FindModel(model); ok {
		return Selection{
			Provider: candidate.Provider,
			Model:    model,
			Reason:   fmt.Sprintf("found provider %s that supports model %s", candidate.Provider, model),
		}
	}
	// Unknown models pass through so operators can route to endpoints
	// the catalog has not learned about yet.
	return Selection{
		Provider: "unknown",
		Model:    model,
		Reason:   fmt.Sprintf("using model %s directly (provider not in catalog)", model),
	}
}

func (s *Service) selectByProvider(provider string) (Selection, error) {
	models := s.catalog.ModelsByProvider(provider)
	if len(models) == 0 {
		return Selection{}, services.NewNoModelAvailableError(
			fmt.Sprintf("no models available for provider %s", provider))
	}
	return Selection{
		Provider: provider,
		Model:    models[0].Model,
		Reason:   fmt.Sprintf("using default model for provider %s", provider),
	}, nil
}

func (s *Service) selectByTier(tier catalog.Tier) (Selection, error) {
	if !tier.Valid() {
		return Selection{}, services.NewValidationError(
			fmt.Sprintf("cannot select by tier %q; expected fast or powerful", tier))
	}

	candidates := s.catalog.ModelsByTier(tier)
	if len(candidates) == 0 {
		fallback := s.catalog.FallbackOrder(tier)
		if len(fallback) == 0 {
			return Selection{}, services.NewNoModelAvailableError(
				fmt.Sprintf("no models available for tier %s", tier))
		}
		first := fallback[0]
		return Selection{
			Provider: first.Provider,
			Model:    first.Model,
			Reason:   fmt.Sprintf("selected %s model based on benchmark fallback order", tier),
		}, nil
	}

	type scored struct {
		candidate catalog.ModelCandidate
		score     float64
	}
	ranked := lo.Map(candidates, func(m catalog.ModelCandidate, _ int) scored {
		return scored{candidate: m, score: s.optimizationScore(m.Provider, m.Model)}
	})
	// Stable order: ties resolve to the catalog's tier ordering, so
	// identical inputs always produce the same choice.
	best := lo.MaxBy(ranked, func(a, b scored) bool {
		return a.score > b.score
	})

	s.logger.Debug("scored tier candidates",
		zap.String("tier", string(tier)),
		zap.Int("candidates", len(ranked)),
		zap.String("winner", best.candidate.Model),
		zap.Float64("score", best.score),
	)

	return Selection{
		Provider: best.candidate.Provider,
		Model:    best.candidate.Model,
		Score:    best.score,
		Reason:   fmt.Sprintf("selected %s model with optimization score %.2f", tier, best.score),
	}, nil
}

// optimizationScore combines benchmark position, raw benchmark score,
// quota headroom, operator priority, recent usage, and cost into one
// figure. Missing catalog data contributes zero for its term.
func (s *Service) optimizationScore(provider, model string) float64 {
	score := 0.0

	if b, ok := s.catalog.Benchmark(provider, model); ok {
		divisor := unrankedDivisor
		if b.Ranking > 0 {
			divisor = float64(b.Ranking)
		}
		score += (1.0 / divisor) * weightBenchmarkRanking
		if b.MMLU > 0 {
			score += (b.MMLU / 100.0) * weightBenchmarkScore
		}
	}

	if rl, ok := s.catalog.RateLimit(provider, model); ok {
		rpm := min(float64(rl.RequestsPerMinute)/1000.0, 1.0)
		score += rpm * weightRateLimit
	}

	if p, ok := s.catalog.Price(provider, model); ok {
		score += (1.0 / (p.AvgCostPerMillion() + 1.0)) * weightCostEfficiency
	}

	score += s.signals.ProviderPriority(provider) * weightProviderPriority
	score += s.signals.RecentUsage(provider, model) * weightRecentUsage

	return score
}

func checkOpenRouterModel(model string) error {
	check := strings.ReplaceAll(model, "openrouter/", "")
	for _, pattern := range openrouterFreeModels {
		if strings.Contains(check, pattern) {
			return nil
		}
	}
	return services.NewValidationError(fmt.Sprintf(
		"openrouter can only use free models; allowed: meta-llama/llama-3.1-8b-instruct, "+
			"microsoft/phi-3-mini-4k-instruct, google/gemini-flash-1.5, deepseek/deepseek-chat:free; got: %s",
		model))
}
