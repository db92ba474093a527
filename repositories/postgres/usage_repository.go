package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lumni-ai/lumni-gateway/models"
	"github.com/lumni-ai/lumni-gateway/repositories"
)

// UsageRepository implements repositories.UsageRepository on Postgres.
type UsageRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewUsageRepository creates a new usage repository
func NewUsageRepository(db *DB, logger *zap.Logger) repositories.UsageRepository {
	return &UsageRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts one usage record
func (r *UsageRepository) Create(ctx context.Context, rec *models.UsageRecord) error {
	query := `
		INSERT INTO usage_records (
			id, request_id, provider, model, tier,
			prompt_tokens, completion_tokens, total_tokens,
			cost, latency_ms, status, error_message, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.RequestID,
		rec.Provider,
		rec.Model,
		rec.Tier,
		rec.PromptTokens,
		rec.CompletionTokens,
		rec.TotalTokens,
		rec.Cost,
		rec.LatencyMs,
		rec.Status,
		rec.ErrorMessage,
		rec.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create usage record: %w", err)
	}

	r.logger.Debug("usage record created",
		zap.String("id", rec.ID.String()),
		zap.String("request_id", rec.RequestID))
	return nil
}

// GetByRequestID retrieves a record by its external request ID
func (r *UsageRepository) GetByRequestID(ctx context.Context, requestID string) (*models.UsageRecord, error) {
	query := `
		SELECT id, request_id, provider, model, tier,
		       prompt_tokens, completion_tokens, total_tokens,
		       cost, latency_ms, status, error_message, created_at
		FROM usage_records
		WHERE request_id = $1
	`

	rec := &models.UsageRecord{}
	var errMsg sql.NullString

	err := r.db.QueryRowContext(ctx, query, requestID).Scan(
		&rec.ID,
		&rec.RequestID,
		&rec.Provider,
		&rec.Model,
		&rec.Tier,
		&rec.PromptTokens,
		&rec.CompletionTokens,
		&rec.TotalTokens,
		&rec.Cost,
		&rec.LatencyMs,
		&rec.Status,
		&errMsg,
		&rec.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("usage record not found: %s", requestID)
		}
		return nil, fmt.Errorf("failed to get usage record: %w", err)
	}

	rec.ErrorMessage = errMsg.String
	return rec, nil
}

// ListRecent retrieves the most recent records, newest first
func (r *UsageRepository) ListRecent(ctx context.Context, limit, offset int) ([]*models.UsageRecord, error) {
	query := `
		SELECT id, request_id, provider, model, tier,
		       prompt_tokens, completion_tokens, total_tokens,
		       cost, latency_ms, status, error_message, created_at
		FROM usage_records
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage records: %w", err)
	}
	defer rows.Close()

	var records []*models.UsageRecord
	for rows.Next() {
		rec := &models.UsageRecord{}
		var errMsg sql.NullString
		err := rows.Scan(
			&rec.ID,
			&rec.RequestID,
			&rec.Provider,
			&rec.Model,
			&rec.Tier,
			&rec.PromptTokens,
			&rec.CompletionTokens,
			&rec.TotalTokens,
			&rec.Cost,
			&rec.LatencyMs,
			&rec.Status,
			&errMsg,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan usage record: %w", err)
		}
		rec.ErrorMessage = errMsg.String
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating usage record rows: %w", err)
	}

	return records, nil
}

// ProviderStats aggregates usage per provider within a time range
func (r *UsageRepository) ProviderStats(ctx context.Context, start, end time.Time) ([]repositories.ProviderUsage, error) {
	query := `
		SELECT
			provider,
			COUNT(*) as total_requests,
			COUNT(CASE WHEN status = 'failed' THEN 1 END) as failed_count,
			COUNT(CASE WHEN status = 'rate_limited' THEN 1 END) as rate_limit_count,
			COALESCE(SUM(total_tokens), 0) as total_tokens,
			COALESCE(SUM(cost), 0) as total_cost,
			COALESCE(AVG(latency_ms), 0) as avg_latency_ms
		FROM usage_records
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY provider
		ORDER BY total_requests DESC
	`

	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query provider stats: %w", err)
	}
	defer rows.Close()

	var stats []repositories.ProviderUsage
	for rows.Next() {
		var u repositories.ProviderUsage
		err := rows.Scan(
			&u.Provider,
			&u.TotalRequests,
			&u.FailedCount,
			&u.RateLimitCount,
			&u.TotalTokens,
			&u.TotalCost,
			&u.AvgLatencyMs,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan provider stats: %w", err)
		}
		stats = append(stats, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating provider stats rows: %w", err)
	}

	return stats, nil
}
