// Command transform restyles an image through the relay from the command
// line: it normalizes the prompt, rides out provider cold starts, and falls
// back to the local filter when the provider stays down.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"stylerelay/internal/dataurl"
	"stylerelay/internal/dispatch"
	"stylerelay/internal/domain"
	"stylerelay/internal/infra"
	"stylerelay/internal/relayclient"
)

func main() {
	_ = godotenv.Load()

	imagePath := flag.String("image", "", "path to the source image")
	promptText := flag.String("prompt", "", "transformation description")
	outPath := flag.String("out", "transformed.png", "where to write the result")
	relayURL := flag.String("relay", "", "relay base URL (defaults to RELAY_BASE_URL)")
	flag.Parse()

	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if *imagePath == "" || *promptText == "" {
		fmt.Fprintln(os.Stderr, "usage: transform -image <path> -prompt <description> [-out <path>]")
		os.Exit(2)
	}

	source, err := os.ReadFile(*imagePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not read source image")
	}

	baseURL := *relayURL
	if baseURL == "" {
		baseURL = cfg.RelayBaseURL
	}
	relay, err := relayclient.NewClient(relayclient.Options{BaseURL: baseURL})
	if err != nil {
		logger.Fatal().Err(err).Msg("could not configure relay client")
	}

	dispatcher, err := dispatch.New(dispatch.Options{
		Relay:  relay,
		Logger: &logger,
		OnProgress: func(p dispatch.Progress) {
			logger.Info().Msgf("provider is starting up, retrying in %s (attempt %d/%d)",
				p.Wait, p.Attempt, p.MaxAttempts)
		},
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("could not configure dispatcher")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	result, err := dispatcher.Dispatch(ctx, source, *promptText)
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) && de.Suggestion != "" {
			logger.Fatal().Msgf("%s\n%s", de.Message, de.Suggestion)
		}
		logger.Fatal().Err(err).Msg("transformation failed")
	}

	data, err := materialize(ctx, result.ImageURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not retrieve result image")
	}
	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		logger.Fatal().Err(err).Msg("could not write result")
	}

	style := cases.Title(language.Und).String(string(result.Category))
	if result.Source == dispatch.SourceFallback {
		logger.Info().Msgf("%s style applied with local fallback processing (provider unavailable) -> %s", style, *outPath)
	} else {
		logger.Info().Msgf("%s style applied with AI transformation -> %s", style, *outPath)
	}
}

// materialize turns the final image reference into bytes, downloading remote
// URLs and decoding inline data URLs.
func materialize(ctx context.Context, imageURL string) ([]byte, error) {
	if dataurl.IsDataURL(imageURL) {
		data, _, err := dataurl.Decode(imageURL)
		return data, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
