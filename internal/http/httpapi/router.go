package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"stylerelay/internal/http/handlers"
	"stylerelay/internal/infra"
	"stylerelay/internal/middleware"
)

// NewRouter assembles the relay's HTTP surface.
func NewRouter(app *handlers.App, cfg *infra.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(cfg.AllowedOrigins),
		chimw.RequestSize(cfg.MaxBodyBytes),
	)

	r.Get("/health", app.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(
			middleware.RateLimit(cfg.RateLimitPerMin, time.Minute),
			middleware.Identity,
		)
		r.Post("/generate-image", app.GenerateImage)
		r.Post("/transform-image", app.TransformImage)
		if app.Images != nil {
			r.Post("/images", app.SaveImage)
			r.Get("/images", app.ListImages)
		}
	})

	if app.Store != nil {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(app.Store.BasePath())))
		r.Get("/static/*", fs.ServeHTTP)
	}

	return r
}
