package repositories

import (
	"context"

	"blogapi/internal/domain/models"
)

// CommentRepository defines data access operations for comments
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error

	// GetByID returns domain.ErrNotFound when absent
	GetByID(ctx context.Context, id int64) (*models.Comment, error)

	// List returns all comments, oldest first
	List(ctx context.Context) ([]models.Comment, error)

	// ListByPost returns a post's comments, oldest first
	ListByPost(ctx context.Context, postID int64) ([]models.Comment, error)

	// Update persists body and updated_at
	Update(ctx context.Context, comment *models.Comment) error

	Delete(ctx context.Context, id int64) error
}
