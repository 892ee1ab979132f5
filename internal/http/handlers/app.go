package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"stylerelay/internal/domain"
	"stylerelay/internal/infra"
	"stylerelay/internal/providers/image"
	"stylerelay/internal/storage"
)

// App bundles the relay's dependencies for the HTTP handlers. Everything is
// injected so tests can run against stubs; Images and Store are nil when the
// gallery is not configured.
type App struct {
	Logger      infra.Logger
	Generator   image.Generator
	Transformer image.Transformer
	// Fetch downloads an absolute URL, returning body bytes and MIME type.
	// Used for style reference assets.
	Fetch func(ctx context.Context, url string) ([]byte, string, error)
	// Probe is an optional best-effort warm-up nudge for the transform space.
	Probe  func(ctx context.Context) error
	Images domain.ImageRepository
	Store  *storage.FileStore
}

type errorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Retryable  bool   `json:"retryable"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// apiError translates any failure into the stable error payload. Classified
// errors keep their status, suggestion, and retryable flag; everything else
// becomes a plain 500 with the error text in details.
func (a *App) apiError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		de = domain.NewError(domain.KindInternal, "internal server error").WithDetail(err.Error())
	}
	a.Logger.Error().
		Str("kind", string(de.Kind)).
		Str("path", r.URL.Path).
		Str("detail", de.Detail).
		Msg(de.Message)
	a.json(w, de.HTTPStatus(), errorResponse{
		Error:      de.Message,
		Details:    de.Detail,
		Suggestion: de.Suggestion,
		Retryable:  de.Retryable(),
	})
}

func (a *App) badRequest(w http.ResponseWriter, message string) {
	a.json(w, http.StatusBadRequest, errorResponse{Error: message})
}
