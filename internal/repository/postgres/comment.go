package postgres

import (
	"context"
	"fmt"

	"blogapi/internal/domain"
	"blogapi/internal/domain/models"
	"blogapi/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCommentRepository implements the CommentRepository interface
type PostgresCommentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(config *RepositoryConfig) repositories.CommentRepository {
	return &PostgresCommentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func (r *PostgresCommentRepository) selectComments() string {
	return fmt.Sprintf(`
		SELECT c.id, c.body, c.owner_id, u.username, c.post_id, c.created_at, c.updated_at
		FROM %s c
		JOIN %s u ON u.id = c.owner_id
	`, r.tables.Comments, r.tables.Users)
}

func scanComment(row rowScanner, c *models.Comment) error {
	return row.Scan(
		&c.ID,
		&c.Body,
		&c.OwnerID,
		&c.OwnerUsername,
		&c.PostID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

// Create inserts a comment
func (r *PostgresCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (body, owner_id, post_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, r.tables.Comments)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		comment.Body,
		comment.OwnerID,
		comment.PostID,
		comment.CreatedAt,
		comment.UpdatedAt,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("post %d: %w", comment.PostID, domain.ErrNotFound)
		}
		return fmt.Errorf("create comment: %w", err)
	}

	return nil
}

// GetByID retrieves a comment by ID
func (r *PostgresCommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	query := r.selectComments() + ` WHERE c.id = $1`

	var comment models.Comment
	executor := GetExecutor(ctx, r.pool)
	if err := scanComment(executor.QueryRow(ctx, query, id), &comment); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("comment %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}

	return &comment, nil
}

// List retrieves all comments, oldest first
func (r *PostgresCommentRepository) List(ctx context.Context) ([]models.Comment, error) {
	return r.list(ctx, r.selectComments()+` ORDER BY c.created_at, c.id`)
}

// ListByPost retrieves a post's comments, oldest first
func (r *PostgresCommentRepository) ListByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	return r.list(ctx, r.selectComments()+` WHERE c.post_id = $1 ORDER BY c.created_at, c.id`, postID)
}

func (r *PostgresCommentRepository) list(ctx context.Context, query string, args ...any) ([]models.Comment, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var comment models.Comment
		if err := scanComment(rows, &comment); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}

// Update persists the comment body
func (r *PostgresCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET body = $1, updated_at = $2
		WHERE id = $3
	`, r.tables.Comments)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, comment.Body, comment.UpdatedAt, comment.ID)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("comment %d: %w", comment.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a comment
func (r *PostgresCommentRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Comments)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("comment %d: %w", id, domain.ErrNotFound)
	}

	return nil
}
