package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"stylerelay/internal/domain"
)

// DB is the slice of pgxpool.Pool the repository uses; tests substitute stubs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ImageRepositoryPG implements domain.ImageRepository using PostgreSQL.
type ImageRepositoryPG struct {
	db DB
}

// NewImageRepository constructs a new image repository instance.
func NewImageRepository(db DB) *ImageRepositoryPG {
	return &ImageRepositoryPG{db: db}
}

// EnsureSchema creates the gallery table when it does not exist yet. A single
// table does not warrant a migration runner.
func EnsureSchema(ctx context.Context, db DB) error {
	_, err := db.Exec(ctx, `
CREATE TABLE IF NOT EXISTS generated_images (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	prompt TEXT NOT NULL,
	image_url TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS generated_images_user_created_idx
	ON generated_images (user_id, created_at DESC);
`)
	return err
}

// Save persists a gallery entry.
func (r *ImageRepositoryPG) Save(ctx context.Context, record domain.GeneratedImage) error {
	_, err := r.db.Exec(ctx, `
INSERT INTO generated_images (id, user_id, prompt, image_url, created_at)
VALUES ($1, $2, $3, $4, $5);
`, record.ID, record.UserID, record.Prompt, record.ImageURL, record.CreatedAt)
	return err
}

// ListByUser returns the user's saved images, newest first.
func (r *ImageRepositoryPG) ListByUser(ctx context.Context, userID string) ([]domain.GeneratedImage, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, user_id, prompt, image_url, created_at
FROM generated_images
WHERE user_id = $1
ORDER BY created_at DESC;
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []domain.GeneratedImage
	for rows.Next() {
		var img domain.GeneratedImage
		if err := rows.Scan(&img.ID, &img.UserID, &img.Prompt, &img.ImageURL, &img.CreatedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return images, nil
}

var _ domain.ImageRepository = (*ImageRepositoryPG)(nil)
