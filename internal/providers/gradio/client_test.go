package gradio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stylerelay/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(Options{BaseURL: server.URL, Token: "hf_test"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, server
}

func TestPredictSubmitsAndStreamsCompletion(t *testing.T) {
	var gotCall map[string]any
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/gradio_api/call/infer", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotCall); err != nil {
			t.Errorf("decode call body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"event_id": "ev123"})
	})
	mux.HandleFunc("/gradio_api/call/infer/ev123", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: heartbeat\ndata: null\n\n")
		fmt.Fprint(w, "event: complete\ndata: [{\"url\":\"https://space/file=out.webp\"}]\n\n")
	})
	client, _ := newTestClient(t, mux)

	out, err := client.Predict(context.Background(), "infer", []any{"a cat", 42})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if gotAuth != "Bearer hf_test" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
	data, ok := gotCall["data"].([]any)
	if !ok || len(data) != 2 || data[0] != "a cat" {
		t.Fatalf("unexpected call payload: %v", gotCall)
	}
	if len(out) != 1 {
		t.Fatalf("output tuple length = %d, want 1", len(out))
	}
	entry, ok := out[0].(map[string]any)
	if !ok || entry["url"] != "https://space/file=out.webp" {
		t.Fatalf("unexpected completion entry: %v", out[0])
	}
}

func TestPredictClassifies503AsWarmingUp(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Space is starting", http.StatusServiceUnavailable)
	}))

	_, err := client.Predict(context.Background(), "infer", []any{"a cat"})
	if kind := domain.KindOf(err); kind != domain.KindProviderWarmingUp {
		t.Fatalf("error kind = %q, want %q", kind, domain.KindProviderWarmingUp)
	}
	if !domain.IsRetryable(err) {
		t.Fatalf("warm-up error should be retryable: %v", err)
	}
}

func TestPredictSurfacesErrorEvent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/gradio_api/call/style_transfer", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"event_id": "ev9"})
	})
	mux.HandleFunc("/gradio_api/call/style_transfer/ev9", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: error\ndata: \"CUDA out of memory\"\n\n")
	})
	client, _ := newTestClient(t, mux)

	_, err := client.Predict(context.Background(), "style_transfer", nil)
	if kind := domain.KindOf(err); kind != domain.KindProviderProcessing {
		t.Fatalf("error kind = %q, want %q", kind, domain.KindProviderProcessing)
	}
}

func TestPredictRejectsResponseWithoutEventID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"unexpected":"shape"}`)
	}))

	_, err := client.Predict(context.Background(), "infer", nil)
	if kind := domain.KindOf(err); kind != domain.KindUnexpectedResponse {
		t.Fatalf("error kind = %q, want %q", kind, domain.KindUnexpectedResponse)
	}
}

func TestUploadReturnsFileData(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gradio_api/upload" {
			t.Errorf("upload path = %q", r.URL.Path)
		}
		file, header, err := r.FormFile("files")
		if err != nil {
			t.Errorf("form file: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		defer file.Close()
		if header.Filename != "content.png" {
			t.Errorf("filename = %q", header.Filename)
		}
		json.NewEncoder(w).Encode([]string{"/tmp/gradio/abc/content.png"})
	}))

	fd, err := client.Upload(context.Background(), []byte{0x89, 0x50}, "content.png")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if fd.Path != "/tmp/gradio/abc/content.png" {
		t.Fatalf("path = %q", fd.Path)
	}
	if fd.Meta.Type != "gradio.FileData" {
		t.Fatalf("meta type = %q", fd.Meta.Type)
	}
}

func TestFetchBytesReturnsBodyAndContentType(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/webp")
		w.Write([]byte("imagebytes"))
	}))

	data, mime, err := client.FetchBytes(context.Background(), server.URL+"/file=result.webp")
	if err != nil {
		t.Fatalf("FetchBytes: %v", err)
	}
	if string(data) != "imagebytes" || mime != "image/webp" {
		t.Fatalf("got (%q, %q)", data, mime)
	}

	if _, _, err := client.FetchBytes(context.Background(), "not a url"); err == nil {
		t.Fatalf("expected an error for a relative url")
	}
}

func TestFileURL(t *testing.T) {
	client, err := NewClient(Options{BaseURL: "https://space.hf.space/"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	got := client.FileURL("/file=tmp/out.png")
	if got != "https://space.hf.space/file=tmp/out.png" {
		t.Fatalf("FileURL = %q", got)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		message string
		want    domain.ErrorKind
	}{
		{"service unavailable", http.StatusServiceUnavailable, "", domain.KindProviderWarmingUp},
		{"starting message", http.StatusInternalServerError, "The space is starting up", domain.KindProviderWarmingUp},
		{"not running", http.StatusBadGateway, "Space is not running", domain.KindProviderWarmingUp},
		{"gateway timeout", http.StatusGatewayTimeout, "", domain.KindRequestTimeout},
		{"timeout message", http.StatusInternalServerError, "upstream request timed out", domain.KindRequestTimeout},
		{"error event", 0, "ValueError: bad tensor shape", domain.KindProviderProcessing},
		{"other status", http.StatusTeapot, "nope", domain.KindInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classify(tc.status, tc.message)
			if err.Kind != tc.want {
				t.Fatalf("classify(%d, %q) kind = %q, want %q", tc.status, tc.message, err.Kind, tc.want)
			}
		})
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient(Options{BaseURL: "   "}); err == nil {
		t.Fatalf("expected an error for an empty base url")
	}
	client, err := NewClient(Options{BaseURL: "https://x.hf.space///"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if !strings.HasSuffix(client.BaseURL(), ".hf.space") {
		t.Fatalf("base url not normalized: %q", client.BaseURL())
	}
}
