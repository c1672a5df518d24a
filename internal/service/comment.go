package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"blogapi/internal/domain"
	"blogapi/internal/domain/models"
	"blogapi/internal/domain/repositories"
	"blogapi/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// commentService implements the CommentService interface
type commentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
	authz       services.Authorizer
	logger      *slog.Logger
}

// NewCommentService creates a new comment service
func NewCommentService(
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	authz services.Authorizer,
	logger *slog.Logger,
) services.CommentService {
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		authz:       authz,
		logger:      logger,
	}
}

func (s *commentService) List(ctx context.Context, principal models.Principal) ([]models.Comment, error) {
	if err := s.authz.Precheck(principal, services.ResourceComment, services.OpList); err != nil {
		return nil, err
	}
	return s.commentRepo.List(ctx)
}

// ListByPost returns NotFound for an unknown post rather than an empty list.
func (s *commentService) ListByPost(ctx context.Context, principal models.Principal, postID int64) ([]models.Comment, error) {
	if err := s.authz.Precheck(principal, services.ResourceComment, services.OpList); err != nil {
		return nil, err
	}
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

func (s *commentService) Retrieve(ctx context.Context, principal models.Principal, id int64) (*models.Comment, error) {
	return s.load(ctx, principal, services.OpRetrieve, id)
}

// Create stores a comment on an existing post, owned by the principal.
func (s *commentService) Create(ctx context.Context, principal models.Principal, req *services.CommentInput) (*models.Comment, error) {
	if err := s.authz.Precheck(principal, services.ResourceComment, services.OpCreate); err != nil {
		return nil, err
	}

	req.Body = trimmed(req.Body)
	if err := s.validateCreate(req); err != nil {
		return nil, err
	}
	if _, err := s.postRepo.GetByID(ctx, *req.Post); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError("post", invalidPK(*req.Post))
		}
		return nil, err
	}

	now := time.Now()
	comment := &models.Comment{
		Body:      *req.Body,
		OwnerID:   principal.ID,
		PostID:    *req.Post,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment created",
		"id", comment.ID,
		"post_id", comment.PostID,
		"user_id", principal.ID,
	)

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// Update only changes the body; the parent post is fixed at creation.
func (s *commentService) Update(ctx context.Context, principal models.Principal, id int64, req *services.CommentInput, partial bool) (*models.Comment, error) {
	existing, err := s.load(ctx, principal, updateOp(partial), id)
	if err != nil {
		return nil, err
	}

	req.Body = trimmed(req.Body)
	if err := s.validateUpdate(req, partial); err != nil {
		return nil, err
	}

	updated := *existing
	if req.Body != nil {
		updated.Body = *req.Body
	}
	updated.UpdatedAt = time.Now()

	if err := s.commentRepo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	s.logger.Info("comment updated",
		"id", id,
		"owner_id", updated.OwnerID,
		"user_id", principal.ID,
	)

	return s.commentRepo.GetByID(ctx, id)
}

func (s *commentService) Destroy(ctx context.Context, principal models.Principal, id int64) error {
	if _, err := s.load(ctx, principal, services.OpDestroy, id); err != nil {
		return err
	}

	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("comment deleted",
		"id", id,
		"user_id", principal.ID,
	)

	return nil
}

// Authorize lets handlers reject a request before decoding its body.
func (s *commentService) Authorize(ctx context.Context, principal models.Principal, op services.Operation, id int64) error {
	if id == 0 {
		return s.authz.Precheck(principal, services.ResourceComment, op)
	}
	_, err := s.load(ctx, principal, op, id)
	return err
}

func (s *commentService) load(ctx context.Context, principal models.Principal, op services.Operation, id int64) (*models.Comment, error) {
	if err := s.authz.Precheck(principal, services.ResourceComment, op); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authz.Authorize(principal, services.ResourceComment, op, comment.OwnerID); err != nil {
		return nil, fmt.Errorf("comment %d: %w", id, err)
	}

	return comment, nil
}

func (s *commentService) validateCreate(req *services.CommentInput) error {
	return toValidationError(validation.ValidateStruct(req,
		validation.Field(&req.Body, validation.Required),
		validation.Field(&req.Post, validation.Required),
	))
}

// validateUpdate ignores post; it is read-only once set
func (s *commentService) validateUpdate(req *services.CommentInput, partial bool) error {
	return toValidationError(validation.ValidateStruct(req,
		validation.Field(&req.Body, presence(partial)),
	))
}
