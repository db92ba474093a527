package models

import (
	"time"

	"github.com/google/uuid"
)

// UsageStatus describes the terminal outcome of one completion request.
type UsageStatus string

const (
	UsageStatusCompleted   UsageStatus = "completed"
	UsageStatusFailed      UsageStatus = "failed"
	UsageStatusRateLimited UsageStatus = "rate_limited"
	UsageStatusRejected    UsageStatus = "rejected"
)

// UsageRecord captures one routed completion for accounting and for the
// recent-usage selection signal.
type UsageRecord struct {
	ID               uuid.UUID   `json:"id"`
	RequestID        string      `json:"request_id"`
	Provider         string      `json:"provider"`
	Model            string      `json:"model"`
	Tier             string      `json:"tier"`
	PromptTokens     int         `json:"prompt_tokens"`
	CompletionTokens int         `json:"completion_tokens"`
	TotalTokens      int         `json:"total_tokens"`
	Cost             float64     `json:"cost"`
	LatencyMs        int64       `json:"latency_ms"`
	Status           UsageStatus `json:"status"`
	ErrorMessage     string      `json:"error_message,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
}

// NewUsageRecord creates a record with a fresh ID and timestamp.
func NewUsageRecord(requestID, provider, model, tier string) *UsageRecord {
	return &UsageRecord{
		ID:        uuid.New(),
		RequestID: requestID,
		Provider:  provider,
		Model:     model,
		Tier:      tier,
		CreatedAt: time.Now().UTC(),
	}
}
