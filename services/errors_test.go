package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_ErrorString(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewProviderError("groq", "llama-3.1-8b-instant", "provider call failed", cause)

	msg := err.Error()
	assert.Contains(t, msg, "provider call failed")
	assert.Contains(t, msg, "provider=groq")
	assert.Contains(t, msg, "model=llama-3.1-8b-instant")
	assert.Contains(t, msg, "connection reset")
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewInternalError("wrapped", cause)

	assert.ErrorIs(t, err, cause)
}

func TestDomainError_WrappingPreservesType(t *testing.T) {
	err := fmt.Errorf("handling request: %w", NewRateLimitError("groq", "m", nil))

	assert.True(t, IsRateLimitError(err))
	assert.True(t, IsProviderError(err))
	assert.Equal(t, ErrorTypeRateLimit, GetErrorType(err))
}

func TestClassifyProviderFailure(t *testing.T) {
	// Status 429 is a rate limit.
	err := ClassifyProviderFailure("groq", "m", 429, "too many requests", nil)
	assert.Equal(t, ErrorTypeRateLimit, err.Type)

	// Message text detection works regardless of status.
	err = ClassifyProviderFailure("groq", "m", 400, "Rate Limit exceeded for key", nil)
	assert.Equal(t, ErrorTypeRateLimit, err.Type)

	// Everything else stays a generic provider failure.
	err = ClassifyProviderFailure("groq", "m", 502, "bad gateway", nil)
	assert.Equal(t, ErrorTypeProvider, err.Type)
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(NewProviderError("groq", "m", "failed", nil)))
	assert.True(t, Retryable(NewRateLimitError("groq", "m", nil)))

	// Circuit rejections must never be retried against the same provider.
	assert.False(t, Retryable(NewCircuitOpenError("groq", nil)))
	assert.False(t, Retryable(NewValidationError("bad input")))
	assert.False(t, Retryable(NewNoModelAvailableError("empty")))
	assert.False(t, Retryable(errors.New("plain error")))
}

func TestTypePredicates(t *testing.T) {
	assert.True(t, IsValidationError(NewValidationError("x")))
	assert.True(t, IsCircuitOpenError(NewCircuitOpenError("groq", nil)))
	assert.True(t, IsNoModelAvailable(NewNoModelAvailableError("x")))
	assert.False(t, IsValidationError(errors.New("plain")))
}

func TestWithDetail(t *testing.T) {
	err := NewValidationError("bad tier").WithDetail("tier", "turbo")

	require.NotNil(t, err.Details)
	assert.Equal(t, "turbo", err.Details["tier"])
}

func TestGetErrorType_NonDomainError(t *testing.T) {
	assert.Equal(t, ErrorType(""), GetErrorType(errors.New("plain")))
}
