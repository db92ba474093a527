// Package inference runs the full request pipeline: validate, classify,
// select, health-check, then dispatch through the per-provider circuit
// breaker inside the retry loop.
package inference

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lumni-ai/lumni-gateway/catalog"
	"github.com/lumni-ai/lumni-gateway/internal/resilience"
	"github.com/lumni-ai/lumni-gateway/models"
	"github.com/lumni-ai/lumni-gateway/services"
	"github.com/lumni-ai/lumni-gateway/services/classifier"
	"github.com/lumni-ai/lumni-gateway/services/health"
	"github.com/lumni-ai/lumni-gateway/services/providers"
	"github.com/lumni-ai/lumni-gateway/services/selector"
	"github.com/lumni-ai/lumni-gateway/services/usage"
)

// Classifier decides the routing tier for a conversation. The default
// implementation is the rule-based classifier service.
type Classifier interface {
	Classify(messages []providers.Message) classifier.Classification
	Resolve(requested catalog.Tier, messages []providers.Message) (catalog.Tier, classifier.Classification)
}

// Service orchestrates request routing and resilience.
type Service struct {
	validate   *validator.Validate
	classifier Classifier
	selector   *selector.Service
	registry   *providers.Registry
	breakers   *resilience.BreakerSet
	retry      resilience.RetryPolicy
	health     *health.Service
	usage      *usage.Service
	logger     *zap.Logger
}

// NewService wires the pipeline together.
func NewService(
	cls Classifier,
	sel *selector.Service,
	registry *providers.Registry,
	breakers *resilience.BreakerSet,
	retry resilience.RetryPolicy,
	healthSvc *health.Service,
	usageSvc *usage.Service,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if retry.RetryIf == nil {
		retry.RetryIf = services.Retryable
	}
	return &Service{
		validate:   validator.New(),
		classifier: cls,
		selector:   sel,
		registry:   registry,
		breakers:   breakers,
		retry:      retry,
		health:     healthSvc,
		usage:      usageSvc,
		logger:     logger,
	}
}

// Complete routes one chat completion request end to end.
func (s *Service) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	requestID := uuid.New().String()
	logger := s.logger.With(zap.String("request_id", requestID))

	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	tier, classification := s.classifier.Resolve(req.Tier, req.Messages)

	selection, err := s.selector.Select(selector.Request{
		Provider: req.Provider,
		Model:    req.Model,
		Tier:     tier,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("selected model",
		zap.String("provider", selection.Provider),
		zap.String("model", selection.Model),
		zap.String("tier", string(tier)),
		zap.String("reason", selection.Reason),
	)

	provider, err := s.registry.Get(selection.Provider)
	if err != nil {
		// A catalog entry without a configured adapter is an operator
		// gap, not a transient fault, so no retry happens.
		return nil, services.NewProviderError(selection.Provider, selection.Model,
			"provider is not configured", err)
	}

	// Health is advisory: an unhealthy provider still receives the
	// request, the breaker handles repeated failures.
	healthStatus := s.health.CheckHealth(ctx, selection.Provider, provider, false)
	if !healthStatus.Healthy {
		logger.Warn("dispatching to provider with failing health checks",
			zap.String("provider", selection.Provider))
	}

	chatReq := &providers.ChatRequest{
		Model:       selection.Model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		Metadata:    map[string]string{"request_id": requestID},
	}

	breaker := s.breakers.Get(selection.Provider)
	attempts := 0
	var resp *providers.ChatResponse

	start := time.Now()
	err = s.retry.Do(ctx, func(ctx context.Context) error {
		attempts++
		callErr := breaker.Do(ctx, func(ctx context.Context) error {
			r, provErr := provider.ChatCompletion(ctx, chatReq)
			if provErr != nil {
				return provErr
			}
			resp = r
			return nil
		})
		if resilience.IsOpenError(callErr) {
			return services.NewCircuitOpenError(selection.Provider, callErr)
		}
		return callErr
	})
	elapsed := time.Since(start)

	rec := models.NewUsageRecord(requestID, selection.Provider, selection.Model, string(tier))
	rec.LatencyMs = elapsed.Milliseconds()

	if err != nil {
		rec.Status = models.UsageStatusFailed
		switch {
		case services.IsCircuitOpenError(err):
			rec.Status = models.UsageStatusRejected
		case services.IsRateLimitError(err):
			rec.Status = models.UsageStatusRateLimited
		}
		rec.ErrorMessage = err.Error()
		s.usage.Record(ctx, rec)

		if services.IsProviderError(err) {
			s.health.MarkUnhealthy(selection.Provider)
		}
		logger.Error("completion failed",
			zap.String("provider", selection.Provider),
			zap.Int("attempts", attempts),
			zap.Error(err),
		)
		return nil, err
	}

	rec.Status = models.UsageStatusCompleted
	rec.PromptTokens = resp.Usage.PromptTokens
	rec.CompletionTokens = resp.Usage.CompletionTokens
	rec.TotalTokens = resp.Usage.TotalTokens
	s.usage.Record(ctx, rec)
	s.health.MarkHealthy(selection.Provider)

	logger.Info("completion succeeded",
		zap.String("provider", selection.Provider),
		zap.String("model", selection.Model),
		zap.Int("attempts", attempts),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("latency", elapsed),
	)

	routing := Routing{
		Provider:        selection.Provider,
		Model:           selection.Model,
		Tier:            tier,
		Reason:          selection.Reason,
		Attempts:        attempts,
		ProviderHealthy: healthStatus.Healthy,
	}
	if req.Tier == "" || req.Tier == catalog.TierAuto {
		routing.Classification = &classification
	}

	return &CompletionResponse{
		RequestID: requestID,
		Choices:   resp.Choices,
		Usage:     resp.Usage,
		Latency:   elapsed,
		Created:   resp.Created,
		Routing:   routing,
	}, nil
}

// Classify exposes the tier decision without dispatching, for the
// dry-run endpoint.
func (s *Service) Classify(messages []providers.Message) classifier.Classification {
	return s.classifier.Classify(messages)
}

func (s *Service) validateRequest(req *CompletionRequest) error {
	if err := s.validate.Struct(req); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			first := verrs[0]
			return services.NewValidationError(
				fmt.Sprintf("field %s failed validation on %s", first.Field(), first.Tag()))
		}
		return services.NewValidationError(err.Error())
	}
	return nil
}
