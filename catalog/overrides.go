package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// overrideFile is the on-disk shape of a catalog override. Any section
// present and non-empty replaces the corresponding built-in table.
type overrideFile struct {
	Models     []ModelCandidate `yaml:"models"`
	Benchmarks []BenchmarkEntry `yaml:"benchmarks"`
	Prices     []PriceEntry     `yaml:"prices"`
	RateLimits []RateLimitEntry `yaml:"rate_limits"`
}

// LoadFile builds a catalog from the built-in tables with sections
// replaced by the given YAML override file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog overrides: %w", err)
	}

	var file overrideFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog overrides %s: %w", path, err)
	}

	c := Default()
	if len(file.Models) > 0 {
		c.models = file.Models
	}
	if len(file.Benchmarks) > 0 {
		c.benchmarks = file.Benchmarks
	}
	if len(file.Prices) > 0 {
		c.prices = file.Prices
	}
	if len(file.RateLimits) > 0 {
		c.rateLimits = file.RateLimits
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("catalog overrides %s: %w", path, err)
	}
	return c, nil
}

func (c *Catalog) validate() error {
	for _, m := range c.models {
		if m.Provider == "" || m.Model == "" {
			return fmt.Errorf("model entry missing provider or model: %+v", m)
		}
		if !m.Tier.Valid() {
			return fmt.Errorf("model %s/%s has invalid tier %q", m.Provider, m.Model, m.Tier)
		}
	}
	for _, b := range c.benchmarks {
		if b.Provider == "" || b.Model == "" {
			return fmt.Errorf("benchmark entry missing provider or model: %+v", b)
		}
	}
	return nil
}
