package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"blogapi/internal/config"
	"blogapi/internal/domain/models"
	"blogapi/internal/domain/repositories"
	"blogapi/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// categoryService implements the CategoryService interface
type categoryService struct {
	categoryRepo repositories.CategoryRepository
	authz        services.Authorizer
	mode         config.CategoryMode
	logger       *slog.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(
	categoryRepo repositories.CategoryRepository,
	authz services.Authorizer,
	mode config.CategoryMode,
	logger *slog.Logger,
) services.CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		authz:        authz,
		mode:         mode,
		logger:       logger,
	}
}

func (s *categoryService) List(ctx context.Context, principal models.Principal) ([]models.Category, error) {
	if err := s.authz.Precheck(principal, services.ResourceCategory, services.OpList); err != nil {
		return nil, err
	}
	return s.categoryRepo.List(ctx)
}

func (s *categoryService) Retrieve(ctx context.Context, principal models.Principal, id int64) (*models.Category, error) {
	return s.load(ctx, principal, services.OpRetrieve, id)
}

// Create stores a category. In owned mode the principal becomes the owner.
func (s *categoryService) Create(ctx context.Context, principal models.Principal, req *services.CategoryInput) (*models.Category, error) {
	if err := s.authz.Precheck(principal, services.ResourceCategory, services.OpCreate); err != nil {
		return nil, err
	}

	req.Name = trimmed(req.Name)
	if err := s.validate(req, false); err != nil {
		return nil, err
	}

	now := time.Now()
	category := &models.Category{
		Name:      *req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if s.mode == config.CategoryModeOwned {
		ownerID := principal.ID
		category.OwnerID = &ownerID
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("category created",
		"id", category.ID,
		"name", category.Name,
		"user_id", principal.ID,
	)

	return s.categoryRepo.GetByID(ctx, category.ID)
}

func (s *categoryService) Update(ctx context.Context, principal models.Principal, id int64, req *services.CategoryInput, partial bool) (*models.Category, error) {
	existing, err := s.load(ctx, principal, updateOp(partial), id)
	if err != nil {
		return nil, err
	}

	req.Name = trimmed(req.Name)
	if err := s.validate(req, partial); err != nil {
		return nil, err
	}

	updated := *existing
	if req.Name != nil {
		updated.Name = *req.Name
	}
	updated.UpdatedAt = time.Now()

	if err := s.categoryRepo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	s.logger.Info("category updated",
		"id", id,
		"name", updated.Name,
		"user_id", principal.ID,
	)

	return s.categoryRepo.GetByID(ctx, id)
}

func (s *categoryService) Destroy(ctx context.Context, principal models.Principal, id int64) error {
	if _, err := s.load(ctx, principal, services.OpDestroy, id); err != nil {
		return err
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("category deleted",
		"id", id,
		"user_id", principal.ID,
	)

	return nil
}

// Authorize lets handlers reject a request before decoding its body.
func (s *categoryService) Authorize(ctx context.Context, principal models.Principal, op services.Operation, id int64) error {
	if id == 0 {
		return s.authz.Precheck(principal, services.ResourceCategory, op)
	}
	_, err := s.load(ctx, principal, op, id)
	return err
}

// load runs precheck, lookup and the full decision for one category.
func (s *categoryService) load(ctx context.Context, principal models.Principal, op services.Operation, id int64) (*models.Category, error) {
	if err := s.authz.Precheck(principal, services.ResourceCategory, op); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authz.Authorize(principal, services.ResourceCategory, op, category.Owner()); err != nil {
		return nil, fmt.Errorf("category %d: %w", id, err)
	}

	return category, nil
}

func (s *categoryService) validate(req *services.CategoryInput, partial bool) error {
	return toValidationError(validation.ValidateStruct(req,
		validation.Field(&req.Name,
			presence(partial),
			validation.Length(1, config.MaxCategoryNameLength),
		),
	))
}

// updateOp picks the operation name for PUT or PATCH
func updateOp(partial bool) services.Operation {
	if partial {
		return services.OpPartialUpdate
	}
	return services.OpUpdate
}
