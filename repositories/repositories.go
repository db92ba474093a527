// Package repositories defines the persistence contracts. Concrete
// implementations live in subpackages.
package repositories

import (
	"context"
	"time"

	"github.com/lumni-ai/lumni-gateway/models"
)

// ProviderUsage aggregates completions per provider over a window.
// Rate-limit hits are counted separately from other failures so quota
// pressure stays visible in the stats feed.
type ProviderUsage struct {
	Provider       string  `json:"provider"`
	TotalRequests  int64   `json:"total_requests"`
	FailedCount    int64   `json:"failed_count"`
	RateLimitCount int64   `json:"rate_limit_count"`
	TotalTokens    int64   `json:"total_tokens"`
	TotalCost      float64 `json:"total_cost"`
	AvgLatencyMs   float64 `json:"avg_latency_ms"`
}

// UsageRepository persists completion usage records.
type UsageRepository interface {
	// Create inserts one usage record.
	Create(ctx context.Context, rec *models.UsageRecord) error

	// GetByRequestID retrieves a record by its external request ID.
	GetByRequestID(ctx context.Context, requestID string) (*models.UsageRecord, error)

	// ListRecent retrieves the most recent records, newest first.
	ListRecent(ctx context.Context, limit, offset int) ([]*models.UsageRecord, error)

	// ProviderStats aggregates usage per provider within a time range.
	ProviderStats(ctx context.Context, start, end time.Time) ([]ProviderUsage, error)
}
