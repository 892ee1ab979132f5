package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind is the stable failure vocabulary shared by the relay, the provider
// adapters, and the dispatcher. Every provider-specific failure is mapped onto
// exactly one kind before it crosses a package boundary.
type ErrorKind string

const (
	// KindInvalidPrompt rejects a prompt locally, before any network call.
	KindInvalidPrompt ErrorKind = "invalid_prompt"
	// KindProviderWarmingUp marks a provider cold start. Retryable.
	KindProviderWarmingUp ErrorKind = "provider_warming_up"
	// KindRequestTimeout marks a provider or relay timeout. Not retried automatically.
	KindRequestTimeout ErrorKind = "request_timeout"
	// KindProviderProcessing marks a structured provider error raised during its
	// own processing stage. Treated like a warm-up: usually temporary, retryable.
	KindProviderProcessing ErrorKind = "provider_processing"
	// KindRelayUnreachable marks a transport-level failure reaching the relay.
	KindRelayUnreachable ErrorKind = "relay_unreachable"
	// KindImageDecode marks a malformed input image.
	KindImageDecode ErrorKind = "image_decode"
	// KindUnexpectedResponse marks a provider success whose shape is not recognized.
	KindUnexpectedResponse ErrorKind = "unexpected_response"
	// KindInternal is the catch-all for everything else.
	KindInternal ErrorKind = "internal"
)

// Error carries a classified failure along with the human-readable pieces the
// API contract exposes: a short message, the raw provider detail, and an
// optional remediation suggestion.
type Error struct {
	Kind       ErrorKind
	Message    string
	Detail     string
	Suggestion string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Retryable reports whether the dispatcher's backoff schedule applies.
func (e *Error) Retryable() bool {
	return e.Kind == KindProviderWarmingUp || e.Kind == KindProviderProcessing
}

// HTTPStatus maps the kind onto the stable status the relay responds with.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidPrompt, KindImageDecode:
		return http.StatusBadRequest
	case KindProviderWarmingUp, KindProviderProcessing:
		return http.StatusServiceUnavailable
	case KindRequestTimeout:
		return http.StatusGatewayTimeout
	case KindRelayUnreachable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewError builds a classified error.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WithDetail attaches the raw provider detail.
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

// WithSuggestion attaches a remediation hint.
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// KindOf extracts the kind from any error, defaulting to KindInternal.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// IsRetryable reports whether err carries a retryable kind.
func IsRetryable(err error) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Retryable()
	}
	return false
}
