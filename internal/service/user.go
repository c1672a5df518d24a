package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"blogapi/internal/auth"
	"blogapi/internal/config"
	"blogapi/internal/domain"
	"blogapi/internal/domain/models"
	"blogapi/internal/domain/repositories"
	"blogapi/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// UserService implements services.UserService and services.Authenticator
type UserService struct {
	userRepo repositories.UserRepository
	authz    services.Authorizer
	logger   *slog.Logger
}

var (
	_ services.UserService   = (*UserService)(nil)
	_ services.Authenticator = (*UserService)(nil)
)

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	authz services.Authorizer,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		authz:    authz,
		logger:   logger,
	}
}

func (s *UserService) List(ctx context.Context, principal models.Principal) ([]models.User, error) {
	if err := s.authz.Precheck(principal, services.ResourceUser, services.OpList); err != nil {
		return nil, err
	}
	return s.userRepo.List(ctx)
}

// Retrieve lets users see their own profile; admins see any.
func (s *UserService) Retrieve(ctx context.Context, principal models.Principal, id int64) (*models.User, error) {
	return s.load(ctx, principal, services.OpRetrieve, id)
}

// Create is admin-only and idempotent by username.
func (s *UserService) Create(ctx context.Context, principal models.Principal, req *services.UserInput) (*models.User, bool, error) {
	if err := s.authz.Precheck(principal, services.ResourceUser, services.OpCreate); err != nil {
		return nil, false, err
	}

	normalizeUserInput(req)
	if err := s.validate(req, false, true); err != nil {
		return nil, false, err
	}

	existing, err := s.userRepo.GetByUsername(ctx, *req.Username)
	if err == nil {
		s.logger.Debug("user already exists, returning existing record", "id", existing.ID)
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}

	user, err := s.register(ctx, req, false)
	if err != nil {
		// Lost a race with a concurrent create of the same username
		if errors.Is(err, domain.ErrValidation) {
			if raced, getErr := s.userRepo.GetByUsername(ctx, *req.Username); getErr == nil {
				return raced, false, nil
			}
		}
		return nil, false, err
	}

	s.logger.Info("user created",
		"id", user.ID,
		"username", user.Username,
		"created_by", principal.ID,
	)

	return user, true, nil
}

// Register creates an account without a policy check, for bootstrap tools.
func (s *UserService) Register(ctx context.Context, username, password string, isAdmin bool) (*models.User, error) {
	req := &services.UserInput{Username: &username, Password: &password}
	normalizeUserInput(req)
	if err := s.validate(req, false, true); err != nil {
		return nil, err
	}

	if existing, err := s.userRepo.GetByUsername(ctx, *req.Username); err == nil {
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	return s.register(ctx, req, isAdmin)
}

func (s *UserService) register(ctx context.Context, req *services.UserInput, isAdmin bool) (*models.User, error) {
	hash, err := auth.HashPassword(*req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		Username:     *req.Username,
		IsAdmin:      isAdmin,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	assignProfile(user, req)

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update assigns only the supplied profile fields; is_admin is never writable.
func (s *UserService) Update(ctx context.Context, principal models.Principal, id int64, req *services.UserInput, partial bool) (*models.User, error) {
	existing, err := s.load(ctx, principal, updateOp(partial), id)
	if err != nil {
		return nil, err
	}

	normalizeUserInput(req)
	if err := s.validate(req, partial, false); err != nil {
		return nil, err
	}

	updated := *existing
	if req.Username != nil {
		updated.Username = *req.Username
	}
	assignProfile(&updated, req)
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		updated.PasswordHash = hash
	}
	updated.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	s.logger.Info("user updated",
		"id", id,
		"password_changed", req.Password != nil,
		"user_id", principal.ID,
	)

	return &updated, nil
}

// Destroy is admin-only; the repository cascades to owned records.
func (s *UserService) Destroy(ctx context.Context, principal models.Principal, id int64) error {
	if _, err := s.load(ctx, principal, services.OpDestroy, id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted",
		"id", id,
		"user_id", principal.ID,
	)

	return nil
}

// Authenticate checks a username/password pair.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (models.Principal, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return models.Anonymous(), fmt.Errorf("unknown user: %w", domain.ErrUnauthenticated)
		}
		return models.Anonymous(), err
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return models.Anonymous(), fmt.Errorf("wrong password: %w", domain.ErrUnauthenticated)
	}

	return models.NewPrincipal(user), nil
}

// ResolvePrincipal maps a verified token subject to a principal.
// A token for a deleted user no longer authenticates.
func (s *UserService) ResolvePrincipal(ctx context.Context, userID int64) (models.Principal, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return models.Anonymous(), fmt.Errorf("token user %d: %w", userID, domain.ErrUnauthenticated)
		}
		return models.Anonymous(), err
	}
	return models.NewPrincipal(user), nil
}

// Authorize lets handlers reject a request before decoding its body.
func (s *UserService) Authorize(ctx context.Context, principal models.Principal, op services.Operation, id int64) error {
	if id == 0 {
		return s.authz.Precheck(principal, services.ResourceUser, op)
	}
	_, err := s.load(ctx, principal, op, id)
	return err
}

func (s *UserService) load(ctx context.Context, principal models.Principal, op services.Operation, id int64) (*models.User, error) {
	if err := s.authz.Precheck(principal, services.ResourceUser, op); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// A user record is owned by itself
	if err := s.authz.Authorize(principal, services.ResourceUser, op, user.ID); err != nil {
		return nil, fmt.Errorf("user %d: %w", id, err)
	}

	return user, nil
}

// validate applies field rules. needPassword is set for account creation.
func (s *UserService) validate(req *services.UserInput, partial, needPassword bool) error {
	passwordRule := validation.NilOrNotEmpty
	if needPassword {
		passwordRule = validation.Required
	}

	return toValidationError(validation.ValidateStruct(req,
		validation.Field(&req.Username,
			presence(partial),
			validation.Length(1, config.MaxUsernameLength),
			validation.Match(usernamePattern).Error("Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."),
		),
		validation.Field(&req.Email, is.EmailFormat),
		validation.Field(&req.FirstName, validation.Length(0, config.MaxNameLength)),
		validation.Field(&req.LastName, validation.Length(0, config.MaxNameLength)),
		validation.Field(&req.Password, passwordRule),
	))
}

// normalizeUserInput trims everything except the password
func normalizeUserInput(req *services.UserInput) {
	req.Username = trimmed(req.Username)
	req.Email = trimmed(req.Email)
	req.FirstName = trimmed(req.FirstName)
	req.LastName = trimmed(req.LastName)
}

// assignProfile copies the optional profile fields that were supplied
func assignProfile(user *models.User, req *services.UserInput) {
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
}
