// Package classifier decides which model tier a conversation should be
// routed to. Classification is rule based and fully deterministic: the
// same message list always yields the same tier, confidence, and factor
// vector.
package classifier

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/lumni-ai/lumni-gateway/catalog"
	"github.com/lumni-ai/lumni-gateway/services/providers"
)

// complexKeywords marks prompts that ask for deliberate reasoning.
var complexKeywords = regexp.MustCompile(`(?i)\b(reason|analyze|complex|critical|important|detailed|comprehensive|strategic|planning)\b`)

// Factors is the normalized signal vector behind a classification.
// Every value is 0, 0.5, or 1.
type Factors struct {
	Complexity      float64 `json:"complexity"`
	TokenIntensity  float64 `json:"tokenIntensity"`
	Criticality     float64 `json:"criticality"`
	TimeSensitivity float64 `json:"timeSensitivity"`
	KeywordMatch    float64 `json:"keywordMatch"`
	SystemMessage   float64 `json:"systemMessage"`
	CodeBlocks      float64 `json:"codeBlocks"`
}

// Classification is the routing decision for one conversation.
type Classification struct {
	// Tier is either TierFast or TierPowerful.
	Tier catalog.Tier `json:"tier"`

	// Confidence is the normalized score margin in [0, 1]. Zero means
	// the scores tied (or both were zero) and the powerful default won.
	Confidence float64 `json:"confidence"`

	// Factors that produced the decision, for explainability.
	Factors Factors `json:"factors"`

	// FastScore and PowerfulScore are the raw weighted sums.
	FastScore     float64 `json:"fast_score"`
	PowerfulScore float64 `json:"powerful_score"`
}

// Service classifies conversations into model tiers.
type Service struct {
	logger *zap.Logger
}

// NewService creates a classifier service
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger}
}

// Classify analyzes a message list and returns the recommended tier.
func (s *Service) Classify(messages []providers.Message) Classification {
	factors := s.calculateFactors(messages)

	fastScore := factors.TokenIntensity*0.3 +
		(1-factors.Complexity)*0.2 +
		(1-factors.Criticality)*0.1 +
		factors.TimeSensitivity*0.2 +
		factors.CodeBlocks*0.2

	powerfulScore := factors.Complexity*0.3 +
		factors.Criticality*0.2 +
		factors.KeywordMatch*0.2 +
		factors.SystemMessage*0.2
	if factors.Complexity > 0.5 {
		powerfulScore += 0.1
	}

	tier := catalog.TierPowerful
	if fastScore > powerfulScore {
		tier = catalog.TierFast
	}

	confidence := 0.0
	if maxScore := max(fastScore, powerfulScore); maxScore > 0 {
		confidence = (fastScore - powerfulScore) / maxScore
		if confidence < 0 {
			confidence = -confidence
		}
		if confidence > 1 {
			confidence = 1
		}
	}

	result := Classification{
		Tier:          tier,
		Confidence:    confidence,
		Factors:       factors,
		FastScore:     fastScore,
		PowerfulScore: powerfulScore,
	}

	s.logger.Debug("classified conversation",
		zap.String("tier", string(result.Tier)),
		zap.Float64("confidence", result.Confidence),
		zap.Float64("fast_score", fastScore),
		zap.Float64("powerful_score", powerfulScore),
	)
	return result
}

// Resolve honors an explicit tier request and falls back to
// classification when the tier is empty or TierAuto.
func (s *Service) Resolve(requested catalog.Tier, messages []providers.Message) (catalog.Tier, Classification) {
	if requested != "" && requested != catalog.TierAuto {
		return requested, Classification{Tier: requested, Confidence: 1.0}
	}
	c := s.Classify(messages)
	return c.Tier, c
}

func (s *Service) calculateFactors(messages []providers.Message) Factors {
	totalLength := lo.SumBy(messages, func(m providers.Message) int {
		return len(m.Content)
	})
	maxLength := lo.MaxBy(messages, func(a, b providers.Message) bool {
		return len(a.Content) > len(b.Content)
	})
	avgLength := 0.0
	if len(messages) > 0 {
		avgLength = float64(totalLength) / float64(len(messages))
	}

	// Complexity buckets from raw message shape.
	complexity := 0.0
	switch {
	case len(maxLength.Content) > 2000 || len(messages) > 5:
		complexity = 1.0
	case avgLength > 500 || len(messages) > 2:
		complexity = 0.5
	}

	tokenIntensity := 0.0
	switch {
	case totalLength > 5000:
		tokenIntensity = 1.0
	case totalLength > 1000:
		tokenIntensity = 0.5
	}

	hasSystemMessage := lo.SomeBy(messages, func(m providers.Message) bool {
		return m.Role == "system"
	})
	hasCodeBlocks := lo.SomeBy(messages, func(m providers.Message) bool {
		return strings.Contains(m.Content, "```")
	})
	hasComplexKeywords := lo.SomeBy(messages, func(m providers.Message) bool {
		return complexKeywords.MatchString(m.Content)
	})

	return Factors{
		Complexity:     complexity,
		TokenIntensity: tokenIntensity,
		// Criticality stays non-critical until request metadata carries
		// an override; interactive traffic defaults to medium urgency.
		Criticality:     0.0,
		TimeSensitivity: 0.5,
		KeywordMatch:    boolFactor(hasComplexKeywords),
		SystemMessage:   boolFactor(hasSystemMessage),
		CodeBlocks:      boolFactor(hasCodeBlocks),
	}
}

func boolFactor(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}
