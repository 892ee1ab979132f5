package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"stylerelay/internal/adapter/repo"
	"stylerelay/internal/http/handlers"
	httpapi "stylerelay/internal/http/httpapi"
	"stylerelay/internal/infra"
	"stylerelay/internal/providers/gradio"
	"stylerelay/internal/providers/image"
	"stylerelay/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	generateSpace, err := gradio.NewClient(gradio.Options{
		BaseURL: cfg.GenerateSpaceURL,
		Token:   cfg.HFToken,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure generate space client")
	}
	transformSpace, err := gradio.NewClient(gradio.Options{
		BaseURL: cfg.TransformSpaceURL,
		Token:   cfg.HFToken,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure transform space client")
	}

	app := &handlers.App{
		Logger:      logger,
		Generator:   image.NewFluxGenerator(generateSpace, nil),
		Transformer: image.NewStyleTransferer(transformSpace),
		Fetch: func(ctx context.Context, url string) ([]byte, string, error) {
			return transformSpace.FetchBytes(ctx, url)
		},
		Probe: transformSpace.Ping,
	}

	// Gallery persistence is optional: no DATABASE_URL means the relay runs
	// transform-only, matching a front end without signed-in users.
	ctx := context.Background()
	if cfg.GalleryEnabled() {
		dbpool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer dbpool.Close()

		if err := repo.EnsureSchema(ctx, dbpool); err != nil {
			logger.Fatal().Err(err).Msg("failed to ensure database schema")
		}

		store, err := storage.NewFileStore(cfg.StorageDir, cfg.StorageBaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize file store")
		}
		app.Images = repo.NewImageRepository(dbpool)
		app.Store = store
	} else {
		logger.Info().Msg("DATABASE_URL not set; gallery endpoints disabled")
	}

	router := httpapi.NewRouter(app, cfg)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("relay listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
