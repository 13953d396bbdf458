package openrouter

import (
	"errors"
	"fmt"
)

// Error taxonomy for the completion pipeline. Callers classify failures with
// errors.Is against these sentinels; HTTP status context travels in
// ProviderError for callers that need it (errors.As).
var (
	// ErrInvalidPayload indicates the request payload failed shape validation
	// before send. Never retried.
	ErrInvalidPayload = errors.New("invalid completion request payload")

	// ErrInvalidSchema indicates a response-format schema that cannot be
	// attached to the request.
	ErrInvalidSchema = errors.New("invalid response format schema")

	// ErrTransientProvider indicates a provider failure expected to succeed
	// on retry: HTTP 429, any 5xx, or a transport-level error.
	ErrTransientProvider = errors.New("transient provider failure")

	// ErrPermanentProvider indicates a provider failure not expected to
	// change on retry (other non-2xx statuses). Never retried.
	ErrPermanentProvider = errors.New("permanent provider failure")

	// ErrExhaustedRetries wraps the last transient failure once the retry
	// budget is spent.
	ErrExhaustedRetries = errors.New("exhausted retries contacting provider")

	// ErrMalformedResponse indicates a reply missing the expected content
	// (no choices, empty message content, or an unparseable body).
	ErrMalformedResponse = errors.New("malformed provider response")
)

// ProviderError carries the HTTP status of a failed provider call. It wraps
// either ErrTransientProvider or ErrPermanentProvider so errors.Is keeps
// working through it.
type ProviderError struct {
	Kind   error // ErrTransientProvider or ErrPermanentProvider
	Status int   // HTTP status code returned by the provider
	Body   string
}

// Error implements the error interface for ProviderError.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%v: provider returned status %d", e.Kind, e.Status)
}

// Unwrap returns the failure class to support errors.Is.
func (e *ProviderError) Unwrap() error {
	return e.Kind
}
