package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"stylerelay/internal/dataurl"
	"stylerelay/internal/domain"
	"stylerelay/internal/styleasset"
)

type transformRequest struct {
	ImageDataURL string `json:"imageDataUrl"`
	Prompt       string `json:"prompt"`
}

// TransformImage restyles an inline content image. The style reference asset
// is resolved from the prompt and fetched server-side; the provider result is
// normalized to a plain URL before returning.
func (a *App) TransformImage(w http.ResponseWriter, r *http.Request) {
	var req transformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.badRequest(w, "Missing required fields: imageDataUrl and prompt")
		return
	}
	if strings.TrimSpace(req.ImageDataURL) == "" || strings.TrimSpace(req.Prompt) == "" {
		a.badRequest(w, "Missing required fields: imageDataUrl and prompt")
		return
	}

	content, _, err := dataurl.Decode(req.ImageDataURL)
	if err != nil {
		a.apiError(w, r, domain.NewError(domain.KindImageDecode, "imageDataUrl is not a valid data URL").
			WithDetail(err.Error()))
		return
	}

	styleURL := styleasset.Resolve(req.Prompt)
	a.Logger.Info().Str("style_asset", styleURL).Msg("transform: dispatching to provider")

	// Fetch the style reference while nudging the space awake. The probe is
	// best-effort: a cold space fails the probe and still fails the transform
	// with a proper warm-up classification, so probe errors are only logged.
	var style []byte
	group, groupCtx := errgroup.WithContext(r.Context())
	group.Go(func() error {
		data, _, fetchErr := a.Fetch(groupCtx, styleURL)
		if fetchErr != nil {
			return domain.NewError(domain.KindInternal, "could not fetch style reference image").
				WithDetail(fetchErr.Error())
		}
		style = data
		return nil
	})
	if a.Probe != nil {
		group.Go(func() error {
			if probeErr := a.Probe(groupCtx); probeErr != nil {
				a.Logger.Debug().Err(probeErr).Msg("transform: warm-up probe failed")
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		a.apiError(w, r, err)
		return
	}

	result, err := a.Transformer.Transform(r.Context(), content, style)
	if err != nil {
		a.apiError(w, r, err)
		return
	}

	a.json(w, http.StatusOK, imageResponse{Success: true, ImageURL: result.URL})
}
