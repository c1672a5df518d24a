package services

import (
	"context"

	"blogapi/internal/domain/models"
)

// CommentInput is the writable part of a comment payload.
// Post is only honoured on create.
type CommentInput struct {
	Body *string `json:"body"`
	Post *int64  `json:"post"`
}

// CommentService defines business logic operations for comments
type CommentService interface {
	// List returns comments oldest first
	List(ctx context.Context, principal models.Principal) ([]models.Comment, error)
	// ListByPost returns one post's comments oldest first
	ListByPost(ctx context.Context, principal models.Principal, postID int64) ([]models.Comment, error)
	Retrieve(ctx context.Context, principal models.Principal, id int64) (*models.Comment, error)
	Create(ctx context.Context, principal models.Principal, req *CommentInput) (*models.Comment, error)
	Update(ctx context.Context, principal models.Principal, id int64, req *CommentInput, partial bool) (*models.Comment, error)
	Destroy(ctx context.Context, principal models.Principal, id int64) error
	// Authorize runs the policy for op without reading or writing a payload.
	// A nonzero id also loads the record, so a missing one is NotFound.
	Authorize(ctx context.Context, principal models.Principal, op Operation, id int64) error
}
