package postgres

import (
	"context"
	"fmt"

	"blogapi/internal/domain"
	"blogapi/internal/domain/models"
	"blogapi/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCategoryRepository implements the CategoryRepository interface
type PostgresCategoryRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(config *RepositoryConfig) repositories.CategoryRepository {
	return &PostgresCategoryRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// selectCategories joins the owner's username and aggregates linked posts
func (r *PostgresCategoryRepository) selectCategories() string {
	return fmt.Sprintf(`
		SELECT c.id, c.name, c.owner_id, u.username, c.created_at, c.updated_at,
			COALESCE((
				SELECT array_agg(pc.post_id ORDER BY pc.post_id)
				FROM %s pc
				WHERE pc.category_id = c.id
			), '{}'::bigint[])
		FROM %s c
		LEFT JOIN %s u ON u.id = c.owner_id
	`, r.tables.PostCategories, r.tables.Categories, r.tables.Users)
}

func scanCategory(row rowScanner, c *models.Category) error {
	return row.Scan(
		&c.ID,
		&c.Name,
		&c.OwnerID,
		&c.OwnerUsername,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.PostIDs,
	)
}

// Create inserts a category
func (r *PostgresCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, r.tables.Categories)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		category.Name,
		category.OwnerID,
		category.CreatedAt,
		category.UpdatedAt,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return domain.NewValidationError("name", "category with this name already exists.")
		}
		return fmt.Errorf("create category: %w", err)
	}

	return nil
}

// GetByID retrieves a category by ID
func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	query := r.selectCategories() + ` WHERE c.id = $1`

	var category models.Category
	executor := GetExecutor(ctx, r.pool)
	if err := scanCategory(executor.QueryRow(ctx, query, id), &category); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("category %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	return &category, nil
}

// List retrieves all categories ordered by id
func (r *PostgresCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	query := r.selectCategories() + ` ORDER BY c.id`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var category models.Category
		if err := scanCategory(rows, &category); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

// Update renames a category
func (r *PostgresCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, updated_at = $2
		WHERE id = $3
	`, r.tables.Categories)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, category.Name, category.UpdatedAt, category.ID)
	if err != nil {
		if IsPgDuplicateError(err) {
			return domain.NewValidationError("name", "category with this name already exists.")
		}
		return fmt.Errorf("update category: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("category %d: %w", category.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a category; post links cascade
func (r *PostgresCategoryRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Categories)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("category %d: %w", id, domain.ErrNotFound)
	}

	return nil
}
