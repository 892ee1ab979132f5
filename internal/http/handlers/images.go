package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"stylerelay/internal/dataurl"
	"stylerelay/internal/domain"
	"stylerelay/internal/middleware"
)

type saveImageRequest struct {
	Prompt   string `json:"prompt"`
	ImageURL string `json:"imageUrl"`
}

type savedImageResponse struct {
	Success  bool   `json:"success"`
	ID       string `json:"id"`
	ImageURL string `json:"imageUrl"`
}

type imageListItem struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// SaveImage persists a result for the signed-in user. Inline data URLs are
// written to the file store first so the gallery only ever holds plain URLs.
func (a *App) SaveImage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		a.json(w, http.StatusUnauthorized, errorResponse{Error: "sign in to save images"})
		return
	}
	var req saveImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		strings.TrimSpace(req.Prompt) == "" || strings.TrimSpace(req.ImageURL) == "" {
		a.badRequest(w, "Missing required fields: prompt and imageUrl")
		return
	}

	id := uuid.NewString()
	imageURL := strings.TrimSpace(req.ImageURL)
	if dataurl.IsDataURL(imageURL) {
		data, _, err := dataurl.Decode(imageURL)
		if err != nil {
			a.apiError(w, r, domain.NewError(domain.KindImageDecode, "imageUrl is not a valid data URL").
				WithDetail(err.Error()))
			return
		}
		key, err := a.Store.Write(r.Context(), userID+"/"+id+".png", data)
		if err != nil {
			a.apiError(w, r, err)
			return
		}
		imageURL = a.Store.PublicURL(key)
	}

	record := domain.GeneratedImage{
		ID:        id,
		UserID:    userID,
		Prompt:    strings.TrimSpace(req.Prompt),
		ImageURL:  imageURL,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.Images.Save(r.Context(), record); err != nil {
		a.apiError(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, savedImageResponse{Success: true, ID: id, ImageURL: imageURL})
}

// ListImages returns the signed-in user's saved images, newest first.
func (a *App) ListImages(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		a.json(w, http.StatusUnauthorized, errorResponse{Error: "sign in to view saved images"})
		return
	}
	records, err := a.Images.ListByUser(r.Context(), userID)
	if err != nil {
		a.apiError(w, r, err)
		return
	}
	items := make([]imageListItem, 0, len(records))
	for _, rec := range records {
		items = append(items, imageListItem{
			ID:        rec.ID,
			Prompt:    rec.Prompt,
			ImageURL:  rec.ImageURL,
			CreatedAt: rec.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"images": items})
}
