package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/abhisek/coursewiz/internal/llm"
)

// RequestError reports a malformed or invalid request body.
type RequestError struct {
	Problems []string
}

func (e *RequestError) Error() string {
	if len(e.Problems) == 0 {
		return "invalid request"
	}
	return "invalid request: " + strings.Join(e.Problems, "; ")
}

// NewRequestError returns a RequestError with a single problem.
func NewRequestError(problem string) *RequestError {
	return &RequestError{Problems: []string{problem}}
}

// DisallowedModelError reports a model that is not listed, or not
// available, for the chosen provider.
type DisallowedModelError struct {
	Provider string
	Model    string
}

func (e *DisallowedModelError) Error() string {
	return fmt.Sprintf("Model %s is not available for %s", e.Model, e.Provider)
}

// ConfigError reports a server-side configuration problem, such as a
// missing provider API key.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }

func (e *ConfigError) Unwrap() error { return e.Err }

// UpstreamError is a failed or unusable provider response. Error returns
// the message shown to the user.
type UpstreamError struct {
	Provider string
	Message  string
	Err      error
}

func (e *UpstreamError) Error() string { return e.Message }

func (e *UpstreamError) Unwrap() error { return e.Err }

// StatusCode maps an error from Service to the HTTP status returned to
// clients.
func StatusCode(err error) int {
	var reqErr *RequestError
	var disallowed *DisallowedModelError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &reqErr), errors.As(err, &disallowed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func upstreamError(provider string, err error) *UpstreamError {
	return &UpstreamError{Provider: provider, Message: upstreamMessage(provider, err), Err: err}
}

func upstreamMessage(provider string, err error) string {
	var status *llm.StatusError
	if errors.As(err, &status) {
		if provider == llm.ProviderGemini {
			switch status.Status {
			case http.StatusTooManyRequests:
				return strings.Join([]string{
					"Gemini quota exceeded (429).",
					"Your current Gemini plan has no remaining quota for this model.",
					"Try another Gemini model, switch to OpenAI, or retry later.",
					"Details: " + status.Details,
				}, " ")
			case http.StatusNotFound:
				return strings.Join([]string{
					"Selected Gemini model is unavailable for generateContent (404).",
					"Please choose a different Gemini model from the dropdown.",
					"Details: " + status.Details,
				}, " ")
			}
		}
		return status.Error()
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("%s request timed out", llm.ProviderLabel(provider))
	}

	var invalid *llm.ErrInvalidResponse
	if errors.As(err, &invalid) && invalid.Err != nil {
		return invalid.Err.Error()
	}
	var unavailable *llm.ErrProviderUnavailable
	if errors.As(err, &unavailable) && unavailable.Err != nil {
		return fmt.Sprintf("%s request failed: %v", llm.ProviderLabel(provider), unavailable.Err)
	}
	return err.Error()
}
