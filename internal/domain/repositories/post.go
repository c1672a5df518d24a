package repositories

import (
	"context"

	"blogapi/internal/domain/models"
)

// PostRepository defines data access operations for posts.
// Category links are written together with the post row.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error

	// GetByID returns domain.ErrNotFound when absent
	GetByID(ctx context.Context, id int64) (*models.Post, error)

	// List returns all posts, newest first
	List(ctx context.Context) ([]models.Post, error)

	// Update persists title, body, category links and updated_at
	Update(ctx context.Context, post *models.Post) error

	// Delete removes the post and, by cascade, its comments
	Delete(ctx context.Context, id int64) error
}
