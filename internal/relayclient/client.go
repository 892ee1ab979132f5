// Package relayclient talks to the backend relay on behalf of end-user
// tooling, translating transport failures and relay error payloads into the
// stable error vocabulary.
package relayclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"stylerelay/internal/domain"
)

// unreachableSuggestion is the remediation shown when the relay process
// itself cannot be reached, the most common local setup mistake.
const unreachableSuggestion = "Could not connect to the relay server. Start it with `go run ./cmd/api` (or check RELAY_BASE_URL) and try again."

// Options configures the relay client.
type Options struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

// Client is a thin HTTP client for the relay API. Read-only after
// construction.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type transformRequest struct {
	ImageDataURL string `json:"imageDataUrl"`
	Prompt       string `json:"prompt"`
}

type apiResponse struct {
	Success    bool   `json:"success"`
	ImageURL   string `json:"imageUrl"`
	Error      string `json:"error"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Suggestion string `json:"suggestion"`
	Retryable  bool   `json:"retryable"`
}

// NewClient constructs a relay client with sane defaults.
func NewClient(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "http://localhost:3001"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			// A transform can legitimately take minutes on a cold space.
			timeout = 10 * time.Minute
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}, nil
}

// Health checks the relay's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("relayclient: build health request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return unreachable(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("relayclient: health status %d", resp.StatusCode)
	}
	return nil
}

// Generate asks the relay to produce an image from a text prompt and returns
// the inline data URL.
func (c *Client) Generate(ctx context.Context, promptText string) (string, error) {
	return c.post(ctx, "/api/generate-image", generateRequest{Prompt: promptText})
}

// Transform asks the relay to restyle an inline image and returns the result
// image URL.
func (c *Client) Transform(ctx context.Context, imageDataURL, promptText string) (string, error) {
	return c.post(ctx, "/api/transform-image", transformRequest{ImageDataURL: imageDataURL, Prompt: promptText})
}

func (c *Client) post(ctx context.Context, path string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("relayclient: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("relayclient: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", unreachable(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", unreachable(err)
	}
	var decoded apiResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", domain.NewError(domain.KindUnexpectedResponse, "unrecognized relay response").
			WithDetail(strings.TrimSpace(string(raw)))
	}
	if resp.StatusCode != http.StatusOK {
		return "", classifyRelayError(resp.StatusCode, decoded)
	}
	if !decoded.Success || decoded.ImageURL == "" {
		return "", domain.NewError(domain.KindUnexpectedResponse, "relay reported success without an image").
			WithDetail(strings.TrimSpace(string(raw)))
	}
	return decoded.ImageURL, nil
}

// classifyRelayError maps the relay's HTTP status plus payload back onto the
// shared error vocabulary so the dispatcher can match on kinds.
func classifyRelayError(status int, payload apiResponse) *domain.Error {
	message := payload.Error
	if message == "" {
		message = payload.Message
	}
	if message == "" {
		message = fmt.Sprintf("relay error (status %d)", status)
	}

	var kind domain.ErrorKind
	switch {
	case status == http.StatusServiceUnavailable || payload.Retryable:
		kind = domain.KindProviderWarmingUp
	case status == http.StatusGatewayTimeout:
		kind = domain.KindRequestTimeout
	case status == http.StatusBadRequest:
		kind = domain.KindInvalidPrompt
	default:
		kind = domain.KindInternal
	}
	return domain.NewError(kind, message).
		WithDetail(payload.Details).
		WithSuggestion(payload.Suggestion)
}

func unreachable(err error) *domain.Error {
	var ne *domain.Error
	if errors.As(err, &ne) {
		return ne
	}
	return domain.NewError(domain.KindRelayUnreachable, "relay server is unreachable").
		WithDetail(err.Error()).
		WithSuggestion(unreachableSuggestion)
}
