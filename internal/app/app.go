// Package app wires storage and services from configuration.
// Both commands build the same graph through it.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"blogapi/internal/config"
	"blogapi/internal/domain/repositories"
	"blogapi/internal/domain/services"
	"blogapi/internal/repository/memory"
	"blogapi/internal/repository/postgres"
	"blogapi/internal/service"
	authz "blogapi/internal/service/auth"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Storage is one repository backend
type Storage struct {
	Users      repositories.UserRepository
	Categories repositories.CategoryRepository
	Posts      repositories.PostRepository
	Comments   repositories.CommentRepository
	Tx         repositories.TransactionManager

	// Pool and Tables are nil for the memory backend
	Pool   *pgxpool.Pool
	Tables *postgres.TableNames
}

// Close releases the connection pool, if any
func (s *Storage) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// OpenStorage connects the configured backend and makes sure the schema exists.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Storage, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendMemory:
		return NewMemoryStorage(cfg.CategoryMode), nil
	case config.StorageBackendPostgres:
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables, cfg.CategoryMode.UniqueNames()); err != nil {
		pool.Close()
		return nil, err
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	return &Storage{
		Users:      postgres.NewUserRepository(repoConfig),
		Categories: postgres.NewCategoryRepository(repoConfig),
		Posts:      postgres.NewPostRepository(repoConfig),
		Comments:   postgres.NewCommentRepository(repoConfig),
		Tx:         postgres.NewTransactionManager(repoConfig),
		Pool:       pool,
		Tables:     tables,
	}, nil
}

// NewMemoryStorage builds an empty in-process backend
func NewMemoryStorage(mode config.CategoryMode) *Storage {
	store := memory.NewStore(mode.UniqueNames())
	return &Storage{
		Users:      store.Users(),
		Categories: store.Categories(),
		Posts:      store.Posts(),
		Comments:   store.Comments(),
		Tx:         store.TransactionManager(),
	}
}

// Services is the resource service set sharing one policy
type Services struct {
	Users      *service.UserService
	Categories services.CategoryService
	Posts      services.PostService
	Comments   services.CommentService
}

// NewServices builds the services over storage
func NewServices(st *Storage, mode config.CategoryMode, logger *slog.Logger) *Services {
	policy := authz.NewPolicy(mode)
	return &Services{
		Users:      service.NewUserService(st.Users, policy, logger),
		Categories: service.NewCategoryService(st.Categories, policy, mode, logger),
		Posts:      service.NewPostService(st.Posts, st.Categories, st.Tx, policy, logger),
		Comments:   service.NewCommentService(st.Comments, st.Posts, policy, logger),
	}
}
