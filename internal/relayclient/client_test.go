package relayclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stylerelay/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(Options{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestTransformReturnsImageURL(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"success":  true,
			"imageUrl": "data:image/png;base64,AAAA",
		})
	}))

	url, err := client.Transform(context.Background(), "data:image/png;base64,BBBB", "convert to anime")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if gotPath != "/api/transform-image" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotBody["imageDataUrl"] != "data:image/png;base64,BBBB" || gotBody["prompt"] != "convert to anime" {
		t.Fatalf("unexpected request body: %v", gotBody)
	}
	if url != "data:image/png;base64,AAAA" {
		t.Fatalf("url = %q", url)
	}
}

func TestGenerateHitsGenerateEndpoint(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate-image" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "imageUrl": "data:image/png;base64,CCCC"})
	}))

	url, err := client.Generate(context.Background(), "a fox")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if url != "data:image/png;base64,CCCC" {
		t.Fatalf("url = %q", url)
	}
}

func TestTransformClassifies503AsWarmingUp(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]any{
			"error":      "space is starting up",
			"suggestion": "wait and try again",
			"retryable":  true,
		})
	}))

	_, err := client.Transform(context.Background(), "data:image/png;base64,BBBB", "convert to anime")
	if kind := domain.KindOf(err); kind != domain.KindProviderWarmingUp {
		t.Fatalf("error kind = %q, want %q", kind, domain.KindProviderWarmingUp)
	}
	if !domain.IsRetryable(err) {
		t.Fatalf("expected a retryable error, got %v", err)
	}
	var derr *domain.Error
	if !errors.As(err, &derr) || derr.Suggestion != "wait and try again" {
		t.Fatalf("suggestion not carried through: %v", err)
	}
}

func TestTransformClassifies400AsInvalidPrompt(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"error": "Prompt is required"})
	}))

	_, err := client.Transform(context.Background(), "data:image/png;base64,BBBB", "")
	if kind := domain.KindOf(err); kind != domain.KindInvalidPrompt {
		t.Fatalf("error kind = %q, want %q", kind, domain.KindInvalidPrompt)
	}
}

func TestTransformClassifies504AsTimeout(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
		json.NewEncoder(w).Encode(map[string]any{"error": "provider request timed out"})
	}))

	_, err := client.Transform(context.Background(), "data:image/png;base64,BBBB", "convert to anime")
	if kind := domain.KindOf(err); kind != domain.KindRequestTimeout {
		t.Fatalf("error kind = %q, want %q", kind, domain.KindRequestTimeout)
	}
}

func TestTransformReportsUnreachableRelay(t *testing.T) {
	client, err := NewClient(Options{BaseURL: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.Transform(context.Background(), "data:image/png;base64,BBBB", "convert to anime")
	if kind := domain.KindOf(err); kind != domain.KindRelayUnreachable {
		t.Fatalf("error kind = %q, want %q", kind, domain.KindRelayUnreachable)
	}
	var derr *domain.Error
	if !errors.As(err, &derr) || !strings.Contains(derr.Suggestion, "RELAY_BASE_URL") {
		t.Fatalf("missing startup suggestion: %v", err)
	}
}

func TestTransformRejectsMalformedResponse(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	}))

	_, err := client.Transform(context.Background(), "data:image/png;base64,BBBB", "convert to anime")
	if kind := domain.KindOf(err); kind != domain.KindUnexpectedResponse {
		t.Fatalf("error kind = %q, want %q", kind, domain.KindUnexpectedResponse)
	}
}

func TestHealth(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "OK"})
	}))
	if err := client.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
}
