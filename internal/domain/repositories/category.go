package repositories

import (
	"context"

	"blogapi/internal/domain/models"
)

// CategoryRepository defines data access operations for categories
type CategoryRepository interface {
	// Create inserts a category and fills in its id and timestamps.
	// A duplicate name under a unique constraint returns a *domain.ValidationError.
	Create(ctx context.Context, category *models.Category) error

	// GetByID returns domain.ErrNotFound when absent
	GetByID(ctx context.Context, id int64) (*models.Category, error)

	// List returns all categories ordered by id
	List(ctx context.Context) ([]models.Category, error)

	// Update persists name and updated_at
	Update(ctx context.Context, category *models.Category) error

	Delete(ctx context.Context, id int64) error
}
