package services

import (
	"context"

	"blogapi/internal/domain/models"
)

// UserInput is the writable part of a user payload.
// Password is write-only and stored hashed.
type UserInput struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Password  *string `json:"password"`
}

// UserService defines business logic operations for user accounts
type UserService interface {
	List(ctx context.Context, principal models.Principal) ([]models.User, error)
	Retrieve(ctx context.Context, principal models.Principal, id int64) (*models.User, error)
	// Create is idempotent by username: an existing account is returned
	// unchanged with created=false.
	Create(ctx context.Context, principal models.Principal, req *UserInput) (user *models.User, created bool, err error)
	Update(ctx context.Context, principal models.Principal, id int64, req *UserInput, partial bool) (*models.User, error)
	// Destroy removes the account and everything it owns
	Destroy(ctx context.Context, principal models.Principal, id int64) error
	// Authorize runs the policy for op without reading or writing a payload.
	// A nonzero id also loads the record, so a missing one is NotFound.
	Authorize(ctx context.Context, principal models.Principal, op Operation, id int64) error
}
