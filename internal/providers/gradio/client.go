// Package gradio implements a minimal client for the HTTP API exposed by
// Gradio-hosted inference spaces: named-endpoint calls over the event queue,
// file upload, and result download.
package gradio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"stylerelay/internal/domain"
	"stylerelay/internal/infra"
)

// Options configures the client for one space.
type Options struct {
	BaseURL        string
	Token          string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls against a single Gradio space. It is read-only
// after construction, so one instance can serve concurrent requests.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *infra.Logger
}

// FileData references an uploaded file in the shape Gradio endpoints expect.
type FileData struct {
	Path string   `json:"path"`
	URL  string   `json:"url,omitempty"`
	Meta FileMeta `json:"meta"`
}

// FileMeta tags a payload entry as file data.
type FileMeta struct {
	Type string `json:"_type"`
}

// NewFileData wraps a server-side upload path for use in a Predict payload.
func NewFileData(path string) FileData {
	return FileData{Path: path, Meta: FileMeta{Type: "gradio.FileData"}}
}

type callResponse struct {
	EventID string `json:"event_id"`
	Detail  string `json:"detail"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("gradio: base url is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			// Cold spaces can take minutes to answer; rely on ctx for earlier aborts.
			timeout = 5 * time.Minute
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		baseURL:    baseURL,
		token:      strings.TrimSpace(opts.Token),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// BaseURL returns the configured space base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FileURL reconstitutes an absolute URL for a server-side file path.
func (c *Client) FileURL(path string) string {
	return c.baseURL + "/file=" + strings.TrimPrefix(path, "/file=")
}

// Ping probes the space without running a prediction. Used as a best-effort
// warm-up nudge before a transform call.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/config", nil)
	if err != nil {
		return fmt.Errorf("gradio: build ping request: %w", err)
	}
	c.authorize(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gradio: ping: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return classify(resp.StatusCode, string(body))
	}
	return nil
}

// Predict invokes a named endpoint with positional data and waits for the
// completion event. The returned slice is the endpoint's output tuple.
func (c *Client) Predict(ctx context.Context, endpoint string, data []any) ([]any, error) {
	eventID, err := c.submit(ctx, endpoint, data)
	if err != nil {
		return nil, err
	}
	return c.await(ctx, endpoint, eventID)
}

func (c *Client) submit(ctx context.Context, endpoint string, data []any) (string, error) {
	payload, err := json.Marshal(map[string]any{"data": data})
	if err != nil {
		return "", fmt.Errorf("gradio: encode payload: %w", err)
	}
	callURL := c.baseURL + "/gradio_api/call/" + strings.TrimPrefix(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, callURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("gradio: build call request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", wrapTransport(err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gradio: read call response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", classify(resp.StatusCode, string(raw))
	}
	var decoded callResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", domain.NewError(domain.KindUnexpectedResponse, "unrecognized call response").
			WithDetail(strings.TrimSpace(string(raw)))
	}
	if decoded.EventID == "" {
		if decoded.Detail != "" {
			return "", classify(resp.StatusCode, decoded.Detail)
		}
		return "", domain.NewError(domain.KindUnexpectedResponse, "call response missing event id").
			WithDetail(strings.TrimSpace(string(raw)))
	}
	return decoded.EventID, nil
}

// await streams the server-sent events for a submitted call until it completes
// or errors.
func (c *Client) await(ctx context.Context, endpoint, eventID string) ([]any, error) {
	streamURL := c.baseURL + "/gradio_api/call/" + strings.TrimPrefix(endpoint, "/") + "/" + eventID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return nil, fmt.Errorf("gradio: build stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapTransport(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, classify(resp.StatusCode, string(body))
	}

	var event string
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64<<10), 16<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			switch event {
			case "complete":
				var out []any
				if err := json.Unmarshal([]byte(data), &out); err != nil {
					return nil, domain.NewError(domain.KindUnexpectedResponse, "unrecognized completion payload").
						WithDetail(data)
				}
				return out, nil
			case "error":
				c.logger.Debug().Str("endpoint", endpoint).Str("data", data).Msg("gradio: error event")
				return nil, classify(0, data)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, wrapTransport(err)
	}
	return nil, domain.NewError(domain.KindProviderProcessing, "event stream ended without a result").
		WithSuggestion("The space likely restarted mid-request. Try again.")
}

// Upload pushes raw bytes to the space and returns a FileData reference usable
// in a later Predict payload.
func (c *Client) Upload(ctx context.Context, data []byte, filename string) (FileData, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("files", filename)
	if err != nil {
		return FileData{}, fmt.Errorf("gradio: create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return FileData{}, fmt.Errorf("gradio: write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return FileData{}, fmt.Errorf("gradio: close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/gradio_api/upload", &body)
	if err != nil {
		return FileData{}, fmt.Errorf("gradio: build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return FileData{}, wrapTransport(err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return FileData{}, fmt.Errorf("gradio: read upload response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return FileData{}, classify(resp.StatusCode, string(raw))
	}
	var paths []string
	if err := json.Unmarshal(raw, &paths); err != nil || len(paths) == 0 {
		return FileData{}, domain.NewError(domain.KindUnexpectedResponse, "unrecognized upload response").
			WithDetail(strings.TrimSpace(string(raw)))
	}
	return NewFileData(paths[0]), nil
}

// FetchBytes downloads an absolute URL and returns the body plus content type.
func (c *Client) FetchBytes(ctx context.Context, rawURL string) ([]byte, string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Scheme == "" {
		return nil, "", fmt.Errorf("gradio: invalid url: %s", rawURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("gradio: build download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", wrapTransport(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("gradio: download status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("gradio: read download: %w", err)
	}
	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = "image/png"
	}
	return data, mime, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// warmUpIndicators are the known tells of a cold space. Substring matching on
// human-readable provider text is a best-effort heuristic, not an exhaustive
// contract; anything it misses is treated as a processing error, which the
// dispatcher also retries.
var warmUpIndicators = []string{
	"starting up",
	"space is starting",
	"space is not running",
	"not running",
	"loading",
	"service unavailable",
	"503",
}

// classify maps a provider status and message onto the stable error vocabulary.
func classify(status int, message string) *domain.Error {
	trimmed := strings.TrimSpace(message)
	lower := strings.ToLower(trimmed)

	if status == http.StatusServiceUnavailable || containsAny(lower, warmUpIndicators) {
		return domain.NewError(domain.KindProviderWarmingUp, "space is starting up").
			WithDetail(trimmed).
			WithSuggestion("The model is waking up from sleep mode. This usually takes 30-60 seconds; wait and try again.")
	}
	if status == http.StatusGatewayTimeout || strings.Contains(lower, "timeout") || strings.Contains(lower, "timed out") {
		return domain.NewError(domain.KindRequestTimeout, "provider request timed out").
			WithDetail(trimmed).
			WithSuggestion("The transformation is taking longer than expected. Try again.")
	}
	if status == 0 {
		// Error event from a running space: processing failed mid-flight, which
		// is usually a transient queue/worker problem.
		return domain.NewError(domain.KindProviderProcessing, "space reported a processing error").
			WithDetail(trimmed).
			WithSuggestion("This is usually temporary. Try again.")
	}
	return domain.NewError(domain.KindInternal, fmt.Sprintf("provider returned status %d", status)).
		WithDetail(trimmed)
}

func wrapTransport(err error) *domain.Error {
	return domain.NewError(domain.KindProviderProcessing, "could not reach the space").
		WithDetail(err.Error()).
		WithSuggestion("Check connectivity to the provider and try again.")
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
