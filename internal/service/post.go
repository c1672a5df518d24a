package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"blogapi/internal/config"
	"blogapi/internal/domain"
	"blogapi/internal/domain/models"
	"blogapi/internal/domain/repositories"
	"blogapi/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// postService implements the PostService interface
type postService struct {
	postRepo     repositories.PostRepository
	categoryRepo repositories.CategoryRepository
	txManager    repositories.TransactionManager
	authz        services.Authorizer
	logger       *slog.Logger
}

// NewPostService creates a new post service
func NewPostService(
	postRepo repositories.PostRepository,
	categoryRepo repositories.CategoryRepository,
	txManager repositories.TransactionManager,
	authz services.Authorizer,
	logger *slog.Logger,
) services.PostService {
	return &postService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		txManager:    txManager,
		authz:        authz,
		logger:       logger,
	}
}

func (s *postService) List(ctx context.Context, principal models.Principal) ([]models.Post, error) {
	if err := s.authz.Precheck(principal, services.ResourcePost, services.OpList); err != nil {
		return nil, err
	}
	return s.postRepo.List(ctx)
}

func (s *postService) Retrieve(ctx context.Context, principal models.Principal, id int64) (*models.Post, error) {
	return s.load(ctx, principal, services.OpRetrieve, id)
}

// Create stores a post owned by the principal, whatever the payload says.
func (s *postService) Create(ctx context.Context, principal models.Principal, req *services.PostInput) (*models.Post, error) {
	if err := s.authz.Precheck(principal, services.ResourcePost, services.OpCreate); err != nil {
		return nil, err
	}

	req.Title = trimmed(req.Title)
	req.Body = trimmed(req.Body)
	if err := s.validate(req, false); err != nil {
		return nil, err
	}

	now := time.Now()
	post := &models.Post{
		Title:     *req.Title,
		Body:      *req.Body,
		OwnerID:   principal.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Categories != nil {
		post.CategoryIDs = *req.Categories
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.checkCategories(txCtx, post.CategoryIDs); err != nil {
			return err
		}
		return s.postRepo.Create(txCtx, post)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("post created",
		"id", post.ID,
		"title", post.Title,
		"user_id", principal.ID,
	)

	return s.postRepo.GetByID(ctx, post.ID)
}

// Update applies title, body and categories. Owner and timestamps of
// creation are never touched, including when an admin edits.
func (s *postService) Update(ctx context.Context, principal models.Principal, id int64, req *services.PostInput, partial bool) (*models.Post, error) {
	existing, err := s.load(ctx, principal, updateOp(partial), id)
	if err != nil {
		return nil, err
	}

	req.Title = trimmed(req.Title)
	req.Body = trimmed(req.Body)
	if err := s.validate(req, partial); err != nil {
		return nil, err
	}

	updated := *existing
	if req.Title != nil {
		updated.Title = *req.Title
	}
	if req.Body != nil {
		updated.Body = *req.Body
	}
	if req.Categories != nil {
		updated.CategoryIDs = *req.Categories
	}
	updated.UpdatedAt = time.Now()

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.checkCategories(txCtx, updated.CategoryIDs); err != nil {
			return err
		}
		return s.postRepo.Update(txCtx, &updated)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("post updated",
		"id", id,
		"owner_id", updated.OwnerID,
		"user_id", principal.ID,
	)

	return s.postRepo.GetByID(ctx, id)
}

func (s *postService) Destroy(ctx context.Context, principal models.Principal, id int64) error {
	if _, err := s.load(ctx, principal, services.OpDestroy, id); err != nil {
		return err
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("post deleted",
		"id", id,
		"user_id", principal.ID,
	)

	return nil
}

// Authorize lets handlers reject a request before decoding its body.
func (s *postService) Authorize(ctx context.Context, principal models.Principal, op services.Operation, id int64) error {
	if id == 0 {
		return s.authz.Precheck(principal, services.ResourcePost, op)
	}
	_, err := s.load(ctx, principal, op, id)
	return err
}

func (s *postService) load(ctx context.Context, principal models.Principal, op services.Operation, id int64) (*models.Post, error) {
	if err := s.authz.Precheck(principal, services.ResourcePost, op); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authz.Authorize(principal, services.ResourcePost, op, post.OwnerID); err != nil {
		return nil, fmt.Errorf("post %d: %w", id, err)
	}

	return post, nil
}

// checkCategories reports the first missing category as a field error
func (s *postService) checkCategories(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewValidationError("categories", invalidPK(id))
			}
			return err
		}
	}
	return nil
}

func (s *postService) validate(req *services.PostInput, partial bool) error {
	return toValidationError(validation.ValidateStruct(req,
		validation.Field(&req.Title,
			presence(partial),
			validation.Length(1, config.MaxPostTitleLength),
		),
		validation.Field(&req.Body, presence(partial)),
	))
}
