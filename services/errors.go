package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeValidation       ErrorType = "validation"
	ErrorTypeProvider         ErrorType = "provider"
	ErrorTypeRateLimit        ErrorType = "rate_limit"
	ErrorTypeCircuitOpen      ErrorType = "circuit_open"
	ErrorTypeNoModelAvailable ErrorType = "no_model_available"
	ErrorTypeInternal         ErrorType = "internal"
)

// DomainError represents a structured error with provider/model context.
// The core never logs; it returns these for the caller to log and map.
type DomainError struct {
	Type     ErrorType
	Message  string
	Provider string
	Model    string
	Err      error
	Details  map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Type))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Provider != "" {
		fmt.Fprintf(&b, " (provider=%s", e.Provider)
		if e.Model != "" {
			fmt.Fprintf(&b, " model=%s", e.Model)
		}
		b.WriteString(")")
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on error type so callers can compare against sentinel values.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewValidationError creates a client-input error. Never retried.
func NewValidationError(message string) *DomainError {
	return &DomainError{Type: ErrorTypeValidation, Message: message}
}

// NewProviderError creates a downstream call failure with context.
func NewProviderError(provider, model, message string, cause error) *DomainError {
	return &DomainError{
		Type:     ErrorTypeProvider,
		Message:  message,
		Provider: provider,
		Model:    model,
		Err:      cause,
	}
}

// NewRateLimitError creates a provider rate-limit failure.
func NewRateLimitError(provider, model string, cause error) *DomainError {
	return &DomainError{
		Type:     ErrorTypeRateLimit,
		Message:  "provider rate limit exceeded",
		Provider: provider,
		Model:    model,
		Err:      cause,
	}
}

// NewCircuitOpenError creates a fail-fast rejection for an open breaker.
func NewCircuitOpenError(provider string, cause error) *DomainError {
	return &DomainError{
		Type:     ErrorTypeCircuitOpen,
		Message:  "circuit breaker is open",
		Provider: provider,
		Err:      cause,
	}
}

// NewNoModelAvailableError signals that no catalog entry can satisfy
// the requested tier or provider.
func NewNoModelAvailableError(message string) *DomainError {
	return &DomainError{Type: ErrorTypeNoModelAvailable, Message: message}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(message string, cause error) *DomainError {
	return &DomainError{Type: ErrorTypeInternal, Message: message, Err: cause}
}

// ClassifyProviderFailure converts a raw downstream failure into either a
// rate-limit or a generic provider error. Rate limiting is detected
// heuristically from the HTTP status and message text.
func ClassifyProviderFailure(provider, model string, statusCode int, message string, cause error) *DomainError {
	if statusCode == 429 || strings.Contains(strings.ToLower(message), "rate limit") {
		return NewRateLimitError(provider, model, cause)
	}
	return NewProviderError(provider, model, message, cause)
}

// Error type checking helper functions

func isType(err error, t ErrorType) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == t
	}
	return false
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool { return isType(err, ErrorTypeValidation) }

// IsProviderError checks if an error is a downstream provider failure,
// including the rate-limit specialization.
func IsProviderError(err error) bool {
	return isType(err, ErrorTypeProvider) || isType(err, ErrorTypeRateLimit)
}

// IsRateLimitError checks if an error is a provider rate-limit failure
func IsRateLimitError(err error) bool { return isType(err, ErrorTypeRateLimit) }

// IsCircuitOpenError checks if an error is a breaker fail-fast rejection
func IsCircuitOpenError(err error) bool { return isType(err, ErrorTypeCircuitOpen) }

// IsNoModelAvailable checks if an error reports an empty candidate set
func IsNoModelAvailable(err error) bool { return isType(err, ErrorTypeNoModelAvailable) }

// Retryable reports whether the retry executor may re-attempt after this
// error. Provider failures (rate limits included) are retryable; circuit
// rejections never are, so a tripped breaker is not hammered.
func Retryable(err error) bool {
	if IsCircuitOpenError(err) {
		return false
	}
	return IsProviderError(err)
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}
