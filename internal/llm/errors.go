package llm

import (
	"encoding/json"
	"fmt"
	"time"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the LLM returned content that does not
// conform to the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// ErrModelNotFound indicates the provider does not serve the requested
// model (404).
type ErrModelNotFound struct {
	Err error
}

func (e *ErrModelNotFound) Error() string {
	return fmt.Sprintf("model not found: %v", e.Err)
}

func (e *ErrModelNotFound) Unwrap() error { return e.Err }

// ErrRequestRejected indicates a non-retryable 4xx from the provider.
type ErrRequestRejected struct {
	Status int
	Err    error
}

func (e *ErrRequestRejected) Error() string {
	return fmt.Sprintf("request rejected (%d): %v", e.Status, e.Err)
}

func (e *ErrRequestRejected) Unwrap() error { return e.Err }

// ErrMissingCredentials indicates the provider's API key is not set.
type ErrMissingCredentials struct {
	EnvVar string
}

func (e *ErrMissingCredentials) Error() string {
	return e.EnvVar + " is not configured"
}

// StatusError is a non-2xx reply from a provider API.
type StatusError struct {
	Provider string // display name, e.g. "OpenAI"
	Status   int
	Details  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s request failed: %d %s", e.Provider, e.Status, e.Details)
}
