package services

import (
	"context"

	"blogapi/internal/domain/models"
)

// PostInput is the writable part of a post payload
type PostInput struct {
	Title      *string  `json:"title"`
	Body       *string  `json:"body"`
	Categories *[]int64 `json:"categories"`
}

// PostService defines business logic operations for posts
type PostService interface {
	// List returns posts newest first
	List(ctx context.Context, principal models.Principal) ([]models.Post, error)
	Retrieve(ctx context.Context, principal models.Principal, id int64) (*models.Post, error)
	// Create stores a post owned by the principal
	Create(ctx context.Context, principal models.Principal, req *PostInput) (*models.Post, error)
	Update(ctx context.Context, principal models.Principal, id int64, req *PostInput, partial bool) (*models.Post, error)
	// Destroy removes the post together with its comments
	Destroy(ctx context.Context, principal models.Principal, id int64) error
	// Authorize runs the policy for op without reading or writing a payload.
	// A nonzero id also loads the record, so a missing one is NotFound.
	Authorize(ctx context.Context, principal models.Principal, op Operation, id int64) error
}
