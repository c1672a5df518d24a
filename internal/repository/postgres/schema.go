package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates missing tables. It never alters existing ones.
// uniqueCategoryNames adds the unique index used by open-mode categories.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, t *TableNames, uniqueCategoryNames bool) error {
	statements := []string{
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id            BIGSERIAL PRIMARY KEY,
			username      VARCHAR(150) NOT NULL UNIQUE,
			email         VARCHAR(254) NOT NULL DEFAULT '',
			first_name    VARCHAR(150) NOT NULL DEFAULT '',
			last_name     VARCHAR(150) NOT NULL DEFAULT '',
			is_admin      BOOLEAN NOT NULL DEFAULT FALSE,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, t.Users),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id         BIGSERIAL PRIMARY KEY,
			name       VARCHAR(100) NOT NULL,
			owner_id   BIGINT REFERENCES %s(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, t.Categories, t.Users),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id         BIGSERIAL PRIMARY KEY,
			title      VARCHAR(100) NOT NULL,
			body       TEXT NOT NULL,
			owner_id   BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, t.Posts, t.Users),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_created_at_idx ON %s (created_at DESC, id DESC)`, t.Posts, t.Posts),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			post_id     BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
			category_id BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
			PRIMARY KEY (post_id, category_id)
		)`, t.PostCategories, t.Posts, t.Categories),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id         BIGSERIAL PRIMARY KEY,
			body       TEXT NOT NULL,
			owner_id   BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
			post_id    BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, t.Comments, t.Users, t.Posts),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_post_created_idx ON %s (post_id, created_at, id)`, t.Comments, t.Comments),
	}
	if uniqueCategoryNames {
		statements = append(statements,
			fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s_name_key ON %s (name)`, t.Categories, t.Categories))
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// DropSchema removes every table for the prefix.
func DropSchema(ctx context.Context, pool *pgxpool.Pool, t *TableNames) error {
	for _, table := range t.All() {
		if _, err := pool.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s CASCADE`, table)); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}
