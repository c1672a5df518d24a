package services

import (
	"context"

	"blogapi/internal/domain/models"
)

// CategoryInput is the writable part of a category payload.
// Nil fields were absent from the request.
type CategoryInput struct {
	Name *string `json:"name"`
}

// CategoryService defines business logic operations for categories
type CategoryService interface {
	List(ctx context.Context, principal models.Principal) ([]models.Category, error)
	Retrieve(ctx context.Context, principal models.Principal, id int64) (*models.Category, error)
	Create(ctx context.Context, principal models.Principal, req *CategoryInput) (*models.Category, error)
	// Update replaces the writable fields; partial only applies supplied ones.
	Update(ctx context.Context, principal models.Principal, id int64, req *CategoryInput, partial bool) (*models.Category, error)
	Destroy(ctx context.Context, principal models.Principal, id int64) error
	// Authorize runs the policy for op without reading or writing a payload.
	// A nonzero id also loads the record, so a missing one is NotFound.
	Authorize(ctx context.Context, principal models.Principal, op Operation, id int64) error
}
