package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumni-ai/lumni-gateway/catalog"
	"github.com/lumni-ai/lumni-gateway/services/providers"
)

func user(content string) providers.Message {
	return providers.Message{Role: "user", Content: content}
}

func TestClassify_ShortGreeting(t *testing.T) {
	s := NewService(nil)

	c := s.Classify([]providers.Message{user("Hi")})

	assert.Equal(t, catalog.TierFast, c.Tier)
	assert.InDelta(t, 0.4, c.FastScore, 1e-9)
	assert.InDelta(t, 0.0, c.PowerfulScore, 1e-9)
	assert.InDelta(t, 1.0, c.Confidence, 1e-9)

	// Only the interactive time-sensitivity default contributes.
	assert.Equal(t, Factors{TimeSensitivity: 0.5}, c.Factors)
}

func TestClassify_ComplexPromptGoesPowerful(t *testing.T) {
	s := NewService(nil)

	long := strings.Repeat("x", 2500)
	c := s.Classify([]providers.Message{
		{Role: "system", Content: "You are a strategy assistant."},
		user("Please analyze this in a detailed and comprehensive way: " + long),
	})

	assert.Equal(t, catalog.TierPowerful, c.Tier)
	assert.Equal(t, 1.0, c.Factors.Complexity)
	assert.Equal(t, 1.0, c.Factors.KeywordMatch)
	assert.Equal(t, 1.0, c.Factors.SystemMessage)
	assert.Greater(t, c.PowerfulScore, c.FastScore)
}

func TestClassify_CodeBlocksFavorFast(t *testing.T) {
	s := NewService(nil)

	c := s.Classify([]providers.Message{
		user("Format this:\n```go\nfmt.Println(\"hello\")\n```"),
	})

	assert.Equal(t, 1.0, c.Factors.CodeBlocks)
	assert.Equal(t, catalog.TierFast, c.Tier)
}

func TestClassify_KeywordMatchIsCaseInsensitive(t *testing.T) {
	s := NewService(nil)

	c := s.Classify([]providers.Message{user("ANALYZE this statement")})
	assert.Equal(t, 1.0, c.Factors.KeywordMatch)

	// Word boundary: substrings inside larger words do not match.
	c = s.Classify([]providers.Message{user("the analyzer tool")})
	assert.Equal(t, 0.0, c.Factors.KeywordMatch)
}

func TestClassify_MessageCountDrivesComplexity(t *testing.T) {
	s := NewService(nil)

	three := []providers.Message{user("a"), user("b"), user("c")}
	assert.Equal(t, 0.5, s.Classify(three).Factors.Complexity)

	six := []providers.Message{user("a"), user("b"), user("c"), user("d"), user("e"), user("f")}
	assert.Equal(t, 1.0, s.Classify(six).Factors.Complexity)
}

func TestClassify_TokenIntensityBuckets(t *testing.T) {
	s := NewService(nil)

	// Two messages keep per-message length under the complexity
	// threshold while total length crosses the intensity buckets.
	medium := []providers.Message{user(strings.Repeat("x", 600)), user(strings.Repeat("x", 600))}
	assert.Equal(t, 0.5, s.Classify(medium).Factors.TokenIntensity)

	high := []providers.Message{
		user(strings.Repeat("x", 1800)), user(strings.Repeat("x", 1800)), user(strings.Repeat("x", 1800)),
	}
	assert.Equal(t, 1.0, s.Classify(high).Factors.TokenIntensity)
}

func TestClassify_Deterministic(t *testing.T) {
	s := NewService(nil)
	msgs := []providers.Message{
		{Role: "system", Content: "assistant"},
		user("Give me a detailed plan"),
	}

	first := s.Classify(msgs)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, s.Classify(msgs))
	}
}

func TestClassify_EmptyConversation(t *testing.T) {
	s := NewService(nil)

	c := s.Classify(nil)

	// No signals beyond the interactive default, so fast wins.
	assert.Equal(t, catalog.TierFast, c.Tier)
	assert.InDelta(t, 0.4, c.FastScore, 1e-9)
}

func TestResolve_ExplicitTierBypassesClassification(t *testing.T) {
	s := NewService(nil)

	tier, c := s.Resolve(catalog.TierPowerful, []providers.Message{user("Hi")})
	assert.Equal(t, catalog.TierPowerful, tier)
	assert.Equal(t, 1.0, c.Confidence)

	tier, _ = s.Resolve(catalog.TierAuto, []providers.Message{user("Hi")})
	assert.Equal(t, catalog.TierFast, tier)

	tier, _ = s.Resolve("", []providers.Message{user("Hi")})
	require.Equal(t, catalog.TierFast, tier)
}
