package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestRetryableKinds(t *testing.T) {
	cases := []struct {
		kind ErrorKind
		want bool
	}{
		{KindProviderWarmingUp, true},
		{KindProviderProcessing, true},
		{KindInvalidPrompt, false},
		{KindRequestTimeout, false},
		{KindRelayUnreachable, false},
		{KindImageDecode, false},
		{KindUnexpectedResponse, false},
		{KindInternal, false},
	}
	for _, tc := range cases {
		if got := NewError(tc.kind, "x").Retryable(); got != tc.want {
			t.Fatalf("Retryable(%s) = %v, want %v", tc.kind, got, tc.want)
		}
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		kind ErrorKind
		want int
	}{
		{KindInvalidPrompt, http.StatusBadRequest},
		{KindImageDecode, http.StatusBadRequest},
		{KindProviderWarmingUp, http.StatusServiceUnavailable},
		{KindProviderProcessing, http.StatusServiceUnavailable},
		{KindRequestTimeout, http.StatusGatewayTimeout},
		{KindRelayUnreachable, http.StatusBadGateway},
		{KindUnexpectedResponse, http.StatusInternalServerError},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := NewError(tc.kind, "x").HTTPStatus(); got != tc.want {
			t.Fatalf("HTTPStatus(%s) = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestKindOfSeesThroughWrapping(t *testing.T) {
	inner := NewError(KindProviderWarmingUp, "space is starting up")
	wrapped := fmt.Errorf("transform: %w", inner)
	if got := KindOf(wrapped); got != KindProviderWarmingUp {
		t.Fatalf("KindOf = %q, want %q", got, KindProviderWarmingUp)
	}
	if !IsRetryable(wrapped) {
		t.Fatalf("wrapped warm-up error should stay retryable")
	}
	if got := KindOf(errors.New("plain")); got != KindInternal {
		t.Fatalf("KindOf(plain) = %q, want %q", got, KindInternal)
	}
}

func TestErrorStringIncludesDetail(t *testing.T) {
	err := NewError(KindRequestTimeout, "provider request timed out").WithDetail("after 300s")
	want := "request_timeout: provider request timed out (after 300s)"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}
