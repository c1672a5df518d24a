package repositories

import (
	"context"

	"blogapi/internal/domain/models"
)

// UserRepository defines data access operations for user accounts
type UserRepository interface {
	// Create inserts a user. A taken username returns a *domain.ValidationError.
	Create(ctx context.Context, user *models.User) error

	// GetByID returns domain.ErrNotFound when absent
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByUsername returns domain.ErrNotFound when absent
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// List returns all users ordered by id
	List(ctx context.Context) ([]models.User, error)

	// Update persists profile fields, password hash and updated_at
	Update(ctx context.Context, user *models.User) error

	// Delete removes the user and everything it owns
	Delete(ctx context.Context, id int64) error
}
