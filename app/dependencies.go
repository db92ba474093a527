// Package app wires services, repositories, and handlers into one
// dependency graph.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lumni-ai/lumni-gateway/catalog"
	"github.com/lumni-ai/lumni-gateway/config"
	"github.com/lumni-ai/lumni-gateway/handlers"
	"github.com/lumni-ai/lumni-gateway/internal/resilience"
	"github.com/lumni-ai/lumni-gateway/repositories"
	"github.com/lumni-ai/lumni-gateway/repositories/postgres"
	"github.com/lumni-ai/lumni-gateway/services"
	"github.com/lumni-ai/lumni-gateway/services/classifier"
	"github.com/lumni-ai/lumni-gateway/services/health"
	"github.com/lumni-ai/lumni-gateway/services/inference"
	"github.com/lumni-ai/lumni-gateway/services/providers"
	"github.com/lumni-ai/lumni-gateway/services/providers/openaicompat"
	"github.com/lumni-ai/lumni-gateway/services/selector"
	"github.com/lumni-ai/lumni-gateway/services/usage"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Dependencies holds every wired component.
type Dependencies struct {
	Config   *config.Config
	Logger   *zap.Logger
	Catalog  *catalog.Catalog
	Registry *providers.Registry
	Breakers *resilience.BreakerSet
	Health   *health.Service
	Usage    *usage.Service

	DB *postgres.DB

	InferenceService *inference.Service

	ChatHandler    *handlers.ChatHandler
	CatalogHandler *handlers.CatalogHandler
	UsageHandler   *handlers.UsageHandler
	HealthHandler  *handlers.HealthHandler
}

// selectionSignals feeds operator priorities and live usage into model
// scoring.
type selectionSignals struct {
	priorities map[string]float64
	usage      *usage.Service
}

func (s selectionSignals) ProviderPriority(provider string) float64 {
	if p, ok := s.priorities[provider]; ok {
		return p
	}
	return 0.5
}

func (s selectionSignals) RecentUsage(provider, model string) float64 {
	return s.usage.RecentUsage(provider, model)
}

// NewDependencies builds the full graph from configuration.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	cat := catalog.Default()
	if cfg.CatalogOverridePath != "" {
		loaded, err := catalog.LoadFile(cfg.CatalogOverridePath)
		if err != nil {
			return nil, fmt.Errorf("load catalog overrides: %w", err)
		}
		cat = loaded
		logger.Info("loaded catalog overrides", zap.String("path", cfg.CatalogOverridePath))
	}

	registry := providers.NewRegistry()
	for _, pc := range cfg.Providers {
		adapter := openaicompat.New(openaicompat.Config{
			Name:    pc.Name,
			BaseURL: pc.BaseURL,
			APIKey:  pc.APIKey,
			Timeout: pc.Timeout,
		})
		if err := registry.Register(adapter); err != nil {
			return nil, fmt.Errorf("register provider %s: %w", pc.Name, err)
		}
		logger.Info("registered provider",
			zap.String("provider", pc.Name),
			zap.String("base_url", pc.BaseURL))
	}

	breakers := resilience.NewBreakerSet(resilience.Config{
		FailureThreshold: cfg.Breaker.FailureThreshold,
		SuccessThreshold: cfg.Breaker.SuccessThreshold,
		Timeout:          cfg.Breaker.Timeout,
		IsFailure:        services.IsProviderError,
	}, logger)

	retry := resilience.RetryPolicy{
		MaxAttempts:  cfg.Retry.MaxAttempts,
		InitialDelay: cfg.Retry.InitialDelay,
		MaxDelay:     cfg.Retry.MaxDelay,
		Multiplier:   cfg.Retry.Multiplier,
		RetryIf:      services.Retryable,
	}

	healthSvc := health.NewService(cfg.Health.CacheTTL, logger)

	var db *postgres.DB
	var usageRepo repositories.UsageRepository
	if cfg.Database.Enabled() {
		var err error
		db, err = postgres.NewDB(cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if err := db.InitSchema(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("init schema: %w", err)
		}
		usageRepo = postgres.NewUsageRepository(db, logger)
	} else {
		logger.Info("running without database; usage persistence disabled")
	}

	usageSvc := usage.NewService(usageRepo, cat, logger)

	signals := selectionSignals{
		priorities: cfg.Selection.ProviderPriorities,
		usage:      usageSvc,
	}

	inferenceSvc := inference.NewService(
		classifier.NewService(logger),
		selector.NewService(cat, signals, logger),
		registry,
		breakers,
		retry,
		healthSvc,
		usageSvc,
		logger,
	)

	checkers := make(map[string]handlers.ReadinessChecker)
	if db != nil {
		checkers["database"] = db
	}

	return &Dependencies{
		Config:           cfg,
		Logger:           logger,
		Catalog:          cat,
		Registry:         registry,
		Breakers:         breakers,
		Health:           healthSvc,
		Usage:            usageSvc,
		DB:               db,
		InferenceService: inferenceSvc,
		ChatHandler:      handlers.NewChatHandler(inferenceSvc, logger),
		CatalogHandler:   handlers.NewCatalogHandler(cat, registry, breakers, healthSvc, logger),
		UsageHandler:     handlers.NewUsageHandler(usageSvc, logger),
		HealthHandler:    handlers.NewHealthHandler(Version, checkers, logger),
	}, nil
}

// Close releases held resources.
func (d *Dependencies) Close() {
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			d.Logger.Error("failed to close database", zap.Error(err))
		}
	}
}
