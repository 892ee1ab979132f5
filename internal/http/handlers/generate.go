package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"stylerelay/internal/dataurl"
	"stylerelay/internal/prompt"
)

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type imageResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl"`
	Message  string `json:"message,omitempty"`
}

// GenerateImage produces an image from a text prompt and returns it inline as
// a base64 data URL so the browser never touches the provider directly.
func (a *App) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		a.badRequest(w, "Missing required field: prompt")
		return
	}

	enhanced := prompt.EnhanceForPhotorealism(strings.TrimSpace(req.Prompt))
	a.Logger.Info().Str("prompt", req.Prompt).Msg("generate: dispatching to provider")

	result, err := a.Generator.Generate(r.Context(), enhanced)
	if err != nil {
		a.apiError(w, r, err)
		return
	}

	a.json(w, http.StatusOK, imageResponse{
		Success:  true,
		ImageURL: dataurl.Encode(result.Data, result.MIME),
		Message:  "Image generated successfully",
	})
}
