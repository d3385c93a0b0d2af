package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/muralink/designchat/internal/domain"
)

// ImageRepository handles generated image persistence. Records are keyed by
// a store-assigned auto-increment id with a non-unique index on session id.
// It owns GeneratedImage records exclusively; deleting a session must also
// go through DeleteBySession since the store enforces no referential
// integrity.
type ImageRepository struct {
	db *DB
}

// NewImageRepository creates a new image repository
func NewImageRepository(db *DB) *ImageRepository {
	return &ImageRepository{db: db}
}

// Save inserts a new image record and returns the assigned id. Ids are
// never client-generated.
func (r *ImageRepository) Save(ctx context.Context, sessionID, base64Image string) (int64, error) {
	createdAt := time.Now().UTC().Format(time.RFC3339)

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO generated_images (session_id, base64_image, created_at)
		VALUES (?, ?, ?)
	`, sessionID, base64Image, createdAt)
	if err != nil {
		return 0, fmt.Errorf("failed to save generated image: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read generated image id: %w", err)
	}
	return id, nil
}

// BySession returns all images for the session. Order is not guaranteed to
// be insertion order; callers that need stable order sort by CreatedAt.
func (r *ImageRepository) BySession(ctx context.Context, sessionID string) ([]domain.GeneratedImage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, base64_image, created_at
		FROM generated_images WHERE session_id = ?
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query generated images: %w", err)
	}
	defer rows.Close()

	var images []domain.GeneratedImage
	for rows.Next() {
		img := domain.GeneratedImage{Durable: true}
		if err := rows.Scan(&img.ID, &img.SessionID, &img.Base64Image, &img.CreatedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}

	return images, rows.Err()
}

// Delete removes a single image by primary key.
func (r *ImageRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM generated_images WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete generated image %d: %w", id, err)
	}
	return nil
}

// DeleteBySession removes every image belonging to the session. Records are
// fetched and deleted individually; per-session volumes are small.
func (r *ImageRepository) DeleteBySession(ctx context.Context, sessionID string) error {
	images, err := r.BySession(ctx, sessionID)
	if err != nil {
		return err
	}
	for _, img := range images {
		if err := r.Delete(ctx, img.ID); err != nil {
			return err
		}
	}
	return nil
}

// ClearAll empties the entire image store.
func (r *ImageRepository) ClearAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM generated_images`); err != nil {
		return fmt.Errorf("failed to clear generated images: %w", err)
	}
	return nil
}
