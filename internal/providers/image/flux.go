package image

import (
	"context"
	"errors"
	"math/rand"
	"strings"

	"stylerelay/internal/domain"
)

// Generation parameters for the FLUX.1-schnell space. Fixed except for the
// seed, which is randomized per request.
const (
	fluxEndpoint = "infer"
	fluxWidth    = 1024
	fluxHeight   = 1024
	fluxSteps    = 4
	fluxSeedMax  = 1_000_000
)

// FluxGenerator calls the FLUX.1-schnell text-to-image space and downloads the
// produced image so the relay can inline it.
type FluxGenerator struct {
	client spaceClient
	seed   func() int
}

// NewFluxGenerator wires the generator to a space client. seed may be nil, in
// which case a random seed is drawn per request.
func NewFluxGenerator(client spaceClient, seed func() int) *FluxGenerator {
	if seed == nil {
		seed = func() int { return rand.Intn(fluxSeedMax) }
	}
	return &FluxGenerator{client: client, seed: seed}
}

// Generate fulfils the Generator interface.
func (g *FluxGenerator) Generate(ctx context.Context, prompt string) (*Result, error) {
	if g == nil || g.client == nil {
		return nil, errors.New("flux generator not configured")
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, domain.NewError(domain.KindInvalidPrompt, "prompt is required")
	}

	out, err := g.client.Predict(ctx, fluxEndpoint, []any{
		prompt, g.seed(), true, fluxWidth, fluxHeight, fluxSteps,
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, domain.NewError(domain.KindUnexpectedResponse, "no image data received")
	}
	imageURL, err := extractImageURL(out[0], g.client)
	if err != nil {
		return nil, err
	}

	data, mime, err := g.client.FetchBytes(ctx, imageURL)
	if err != nil {
		return nil, domain.NewError(domain.KindUnexpectedResponse, "could not download generated image").
			WithDetail(err.Error())
	}
	return &Result{URL: imageURL, Data: data, MIME: mime}, nil
}

var _ Generator = (*FluxGenerator)(nil)
