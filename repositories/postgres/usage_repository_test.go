package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lumni-ai/lumni-gateway/models"
)

func newMockRepo(t *testing.T) (*UsageRepository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := &DB{DB: mockDB, logger: zap.NewNop()}
	return &UsageRepository{db: db, logger: zap.NewNop()}, mock
}

func TestUsageRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)

	rec := models.NewUsageRecord("req-123", "groq", "llama-3.1-8b-instant", "fast")
	rec.PromptTokens = 10
	rec.CompletionTokens = 20
	rec.TotalTokens = 30
	rec.LatencyMs = 250
	rec.Status = models.UsageStatusCompleted

	mock.ExpectExec("INSERT INTO usage_records").
		WithArgs(
			rec.ID, rec.RequestID, rec.Provider, rec.Model, rec.Tier,
			rec.PromptTokens, rec.CompletionTokens, rec.TotalTokens,
			rec.Cost, rec.LatencyMs, rec.Status, rec.ErrorMessage, rec.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), rec)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsageRepository_GetByRequestID(t *testing.T) {
	repo, mock := newMockRepo(t)

	rec := models.NewUsageRecord("req-123", "groq", "llama-3.1-8b-instant", "fast")
	rows := sqlmock.NewRows([]string{
		"id", "request_id", "provider", "model", "tier",
		"prompt_tokens", "completion_tokens", "total_tokens",
		"cost", "latency_ms", "status", "error_message", "created_at",
	}).AddRow(
		rec.ID, rec.RequestID, rec.Provider, rec.Model, rec.Tier,
		10, 20, 30, 0.0, int64(250), "completed", nil, rec.CreatedAt,
	)

	mock.ExpectQuery("SELECT (.+) FROM usage_records").
		WithArgs("req-123").
		WillReturnRows(rows)

	got, err := repo.GetByRequestID(context.Background(), "req-123")
	require.NoError(t, err)
	assert.Equal(t, "groq", got.Provider)
	assert.Equal(t, 30, got.TotalTokens)
	assert.Empty(t, got.ErrorMessage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsageRepository_GetByRequestID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM usage_records").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByRequestID(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestUsageRepository_ProviderStats(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{
		"provider", "total_requests", "failed_count", "rate_limit_count", "total_tokens", "total_cost", "avg_latency_ms",
	}).
		AddRow("groq", int64(100), int64(5), int64(2), int64(50000), 0.12, 230.5).
		AddRow("gemini", int64(40), int64(0), int64(0), int64(20000), 0.05, 310.0)

	start := time.Now().Add(-time.Hour)
	end := time.Now()

	mock.ExpectQuery("SELECT(.+)FROM usage_records(.+)GROUP BY provider").
		WithArgs(start, end).
		WillReturnRows(rows)

	stats, err := repo.ProviderStats(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "groq", stats[0].Provider)
	assert.Equal(t, int64(100), stats[0].TotalRequests)
	assert.Equal(t, int64(5), stats[0].FailedCount)
	assert.Equal(t, int64(2), stats[0].RateLimitCount)
	assert.Equal(t, int64(0), stats[1].RateLimitCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
