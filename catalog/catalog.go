package catalog

import (
	"sort"

	"github.com/samber/lo"
)

// Tier classifies how demanding a request is and which class of model
// should serve it.
type Tier string

const (
	TierFast     Tier = "fast"
	TierPowerful Tier = "powerful"

	// TierAuto asks the gateway to classify the request itself.
	TierAuto Tier = "auto"
)

// Valid reports whether the tier is a concrete (non-auto) tier.
func (t Tier) Valid() bool {
	return t == TierFast || t == TierPowerful
}

// ModelCandidate is a catalog entry eligible for selection.
type ModelCandidate struct {
	Provider       string  `yaml:"provider"`
	Model          string  `yaml:"model"`
	Tier           Tier    `yaml:"tier"`
	Ranking        int     `yaml:"ranking,omitempty"`         // 1 = best within tier, 0 = unranked
	BenchmarkScore float64 `yaml:"benchmark_score,omitempty"` // MMLU when known
}

// BenchmarkEntry holds published benchmark scores for a model.
// Scores are on a 0-100 scale; Latency is tokens per second.
type BenchmarkEntry struct {
	Provider  string  `yaml:"provider"`
	Model     string  `yaml:"model"`
	MMLU      float64 `yaml:"mmlu"`
	HellaSwag float64 `yaml:"hellaswag"`
	GSM8K     float64 `yaml:"gsm8k"`
	HumanEval float64 `yaml:"human_eval"`
	Latency   float64 `yaml:"latency"`
	Tier      Tier    `yaml:"tier"`
	Ranking   int     `yaml:"ranking"`
}

// PriceEntry holds per-model cost in USD per million tokens.
type PriceEntry struct {
	Provider             string  `yaml:"provider"`
	Model                string  `yaml:"model"`
	InputCostPerMillion  float64 `yaml:"input_cost_per_million"`
	OutputCostPerMillion float64 `yaml:"output_cost_per_million"`
	Notes                string  `yaml:"notes,omitempty"`
}

// AvgCostPerMillion returns the mean of input and output cost.
func (p PriceEntry) AvgCostPerMillion() float64 {
	return (p.InputCostPerMillion + p.OutputCostPerMillion) / 2
}

// RateLimitEntry holds provider quota figures. Model is empty for
// provider-wide limits.
type RateLimitEntry struct {
	Provider          string `yaml:"provider"`
	Model             string `yaml:"model,omitempty"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
	RequestsPerDay    int    `yaml:"requests_per_day"`
	TokensPerMinute   int    `yaml:"tokens_per_minute,omitempty"`
}

// Catalog is the read-only lookup surface over the static model data.
// All lookups are pure; a Catalog is safe for concurrent use.
type Catalog struct {
	models     []ModelCandidate
	benchmarks []BenchmarkEntry
	prices     []PriceEntry
	rateLimits []RateLimitEntry
}

// Default returns a catalog built from the built-in tables.
func Default() *Catalog {
	return &Catalog{
		models:     modelTable,
		benchmarks: benchmarkTable,
		prices:     priceTable,
		rateLimits: rateLimitTable,
	}
}

// New builds a catalog from explicit tables, validating the entries.
func New(models []ModelCandidate, benchmarks []BenchmarkEntry, prices []PriceEntry, rateLimits []RateLimitEntry) (*Catalog, error) {
	c := &Catalog{
		models:     models,
		benchmarks: benchmarks,
		prices:     prices,
		rateLimits: rateLimits,
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Benchmark looks up benchmark scores by (provider, model).
func (c *Catalog) Benchmark(provider, model string) (BenchmarkEntry, bool) {
	return lo.Find(c.benchmarks, func(b BenchmarkEntry) bool {
		return b.Provider == provider && b.Model == model
	})
}

// Price looks up pricing by (provider, model).
func (c *Catalog) Price(provider, model string) (PriceEntry, bool) {
	return lo.Find(c.prices, func(p PriceEntry) bool {
		return p.Provider == provider && p.Model == model
	})
}

// RateLimit looks up quota figures by (provider, model). A model-specific
// entry wins over the provider-wide one.
func (c *Catalog) RateLimit(provider, model string) (RateLimitEntry, bool) {
	if rl, ok := lo.Find(c.rateLimits, func(r RateLimitEntry) bool {
		return r.Provider == provider && r.Model == model
	}); ok {
		return rl, true
	}
	return lo.Find(c.rateLimits, func(r RateLimitEntry) bool {
		return r.Provider == provider && r.Model == ""
	})
}

// FindModel returns the first catalog candidate offering the given model,
// in insertion order.
func (c *Catalog) FindModel(model string) (ModelCandidate, bool) {
	return lo.Find(c.models, func(m ModelCandidate) bool {
		return m.Model == model
	})
}

// ModelsByProvider returns the provider's candidates in insertion order.
func (c *Catalog) ModelsByProvider(provider string) []ModelCandidate {
	return lo.Filter(c.models, func(m ModelCandidate, _ int) bool {
		return m.Provider == provider
	})
}

// ModelsByTier returns the tier's candidates enriched with benchmark
// ranking and score, ordered by ranking (unranked entries last). The sort
// is stable so ties keep catalog insertion order.
func (c *Catalog) ModelsByTier(tier Tier) []ModelCandidate {
	candidates := lo.Filter(c.models, func(m ModelCandidate, _ int) bool {
		return m.Tier == tier
	})

	enriched := make([]ModelCandidate, len(candidates))
	for i, m := range candidates {
		if b, ok := c.Benchmark(m.Provider, m.Model); ok {
			m.Ranking = b.Ranking
			m.BenchmarkScore = b.MMLU
		}
		enriched[i] = m
	}

	sort.SliceStable(enriched, func(i, j int) bool {
		return rankOrUnranked(enriched[i].Ranking) < rankOrUnranked(enriched[j].Ranking)
	})
	return enriched
}

// FallbackOrder returns the benchmark-ranking-derived candidate sequence
// for a tier, used when the tier itself has no catalog entries.
func (c *Catalog) FallbackOrder(tier Tier) []ModelCandidate {
	entries := lo.Filter(c.benchmarks, func(b BenchmarkEntry, _ int) bool {
		return b.Tier == tier
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Ranking < entries[j].Ranking
	})

	return lo.Map(entries, func(b BenchmarkEntry, _ int) ModelCandidate {
		return ModelCandidate{
			Provider:       b.Provider,
			Model:          b.Model,
			Tier:           b.Tier,
			Ranking:        b.Ranking,
			BenchmarkScore: b.MMLU,
		}
	})
}

// Providers returns the distinct provider names in catalog order.
func (c *Catalog) Providers() []string {
	return lo.Uniq(lo.Map(c.models, func(m ModelCandidate, _ int) string {
		return m.Provider
	}))
}

// Models returns all candidates in insertion order.
func (c *Catalog) Models() []ModelCandidate {
	out := make([]ModelCandidate, len(c.models))
	copy(out, c.models)
	return out
}

func rankOrUnranked(r int) int {
	if r <= 0 {
		return 999
	}
	return r
}
