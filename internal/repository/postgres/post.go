package postgres

import (
	"context"
	"fmt"

	"blogapi/internal/domain"
	"blogapi/internal/domain/models"
	"blogapi/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPostRepository implements the PostRepository interface.
// Callers wrap Create and Update in a transaction; both write the post row
// and its category links.
type PostgresPostRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewPostRepository creates a new post repository
func NewPostRepository(config *RepositoryConfig) repositories.PostRepository {
	return &PostgresPostRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func (r *PostgresPostRepository) selectPosts() string {
	return fmt.Sprintf(`
		SELECT p.id, p.title, p.body, p.owner_id, u.username, p.created_at, p.updated_at,
			COALESCE((
				SELECT array_agg(pc.category_id ORDER BY pc.category_id)
				FROM %s pc
				WHERE pc.post_id = p.id
			), '{}'::bigint[]),
			COALESCE((
				SELECT array_agg(cm.id ORDER BY cm.created_at, cm.id)
				FROM %s cm
				WHERE cm.post_id = p.id
			), '{}'::bigint[])
		FROM %s p
		JOIN %s u ON u.id = p.owner_id
	`, r.tables.PostCategories, r.tables.Comments, r.tables.Posts, r.tables.Users)
}

func scanPost(row rowScanner, p *models.Post) error {
	return row.Scan(
		&p.ID,
		&p.Title,
		&p.Body,
		&p.OwnerID,
		&p.OwnerUsername,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.CategoryIDs,
		&p.CommentIDs,
	)
}

// Create inserts a post and its category links
func (r *PostgresPostRepository) Create(ctx context.Context, post *models.Post) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (title, body, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, r.tables.Posts)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		post.Title,
		post.Body,
		post.OwnerID,
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}

	return r.replaceCategories(ctx, post.ID, post.CategoryIDs)
}

// GetByID retrieves a post by ID
func (r *PostgresPostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := r.selectPosts() + ` WHERE p.id = $1`

	var post models.Post
	executor := GetExecutor(ctx, r.pool)
	if err := scanPost(executor.QueryRow(ctx, query, id), &post); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("post %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	return &post, nil
}

// List retrieves all posts, newest first
func (r *PostgresPostRepository) List(ctx context.Context) ([]models.Post, error) {
	query := r.selectPosts() + ` ORDER BY p.created_at DESC, p.id DESC`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var post models.Post
		if err := scanPost(rows, &post); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}

	return posts, nil
}

// Update persists title, body and category links
func (r *PostgresPostRepository) Update(ctx context.Context, post *models.Post) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, body = $2, updated_at = $3
		WHERE id = $4
	`, r.tables.Posts)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, post.Title, post.Body, post.UpdatedAt, post.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("post %d: %w", post.ID, domain.ErrNotFound)
	}

	return r.replaceCategories(ctx, post.ID, post.CategoryIDs)
}

// Delete removes a post; comments and category links cascade
func (r *PostgresPostRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Posts)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("post %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// replaceCategories rewrites the link rows for a post
func (r *PostgresPostRepository) replaceCategories(ctx context.Context, postID int64, categoryIDs []int64) error {
	executor := GetExecutor(ctx, r.pool)

	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE post_id = $1`, r.tables.PostCategories)
	if _, err := executor.Exec(ctx, deleteQuery, postID); err != nil {
		return fmt.Errorf("clear post categories: %w", err)
	}

	if len(categoryIDs) == 0 {
		return nil
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (post_id, category_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING
	`, r.tables.PostCategories)
	if _, err := executor.Exec(ctx, insertQuery, postID, categoryIDs); err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("link post %d categories: %w", postID, domain.ErrNotFound)
		}
		return fmt.Errorf("link post categories: %w", err)
	}

	return nil
}
