package domain

import (
	"context"
	"time"
)

// GeneratedImage is one saved gallery entry for a signed-in user.
type GeneratedImage struct {
	ID        string
	UserID    string
	Prompt    string
	ImageURL  string
	CreatedAt time.Time
}

// ImageRepository persists gallery entries. Listing returns newest first.
type ImageRepository interface {
	Save(ctx context.Context, record GeneratedImage) error
	ListByUser(ctx context.Context, userID string) ([]GeneratedImage, error)
}
