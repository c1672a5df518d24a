package memory

import (
	"context"
	"fmt"
	"slices"

	"blogapi/internal/domain"
	"blogapi/internal/domain/models"
)

type postRepository struct{ s *Store }

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[post.OwnerID]; !ok {
		return fmt.Errorf("post owner %d: %w", post.OwnerID, domain.ErrNotFound)
	}
	if err := r.checkCategoriesLocked(post.CategoryIDs); err != nil {
		return err
	}

	post.ID = r.s.nextID()
	stamp(&post.CreatedAt, &post.UpdatedAt)
	stored := *post
	stored.CategoryIDs = normalizeIDs(post.CategoryIDs)
	stored.CommentIDs = nil
	r.s.posts[post.ID] = stored

	*post = r.viewLocked(stored)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %d: %w", id, domain.ErrNotFound)
	}
	view := r.viewLocked(p)
	return &view, nil
}

// List orders newest first; equal timestamps fall back to id.
func (r *postRepository) List(ctx context.Context) ([]models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.Post, 0, len(r.s.posts))
	for _, p := range r.s.posts {
		out = append(out, r.viewLocked(p))
	}
	slices.SortFunc(out, func(a, b models.Post) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmpInt64(b.ID, a.ID)
	})
	return out, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.posts[post.ID]
	if !ok {
		return fmt.Errorf("post %d: %w", post.ID, domain.ErrNotFound)
	}
	if err := r.checkCategoriesLocked(post.CategoryIDs); err != nil {
		return err
	}

	existing.Title = post.Title
	existing.Body = post.Body
	existing.CategoryIDs = normalizeIDs(post.CategoryIDs)
	existing.UpdatedAt = post.UpdatedAt
	r.s.posts[post.ID] = existing
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[id]; !ok {
		return fmt.Errorf("post %d: %w", id, domain.ErrNotFound)
	}
	r.s.deletePostLocked(id)
	return nil
}

// checkCategoriesLocked mirrors the post_categories foreign key.
func (r *postRepository) checkCategoriesLocked(ids []int64) error {
	for _, id := range ids {
		if _, ok := r.s.categories[id]; !ok {
			return fmt.Errorf("category %d: %w", id, domain.ErrNotFound)
		}
	}
	return nil
}

func (r *postRepository) viewLocked(p models.Post) models.Post {
	p.OwnerUsername = r.s.username(p.OwnerID)
	p.CategoryIDs = slices.Clone(p.CategoryIDs)
	if p.CategoryIDs == nil {
		p.CategoryIDs = []int64{}
	}
	p.CommentIDs = []int64{}
	for _, c := range sortedComments(r.s.comments, p.ID) {
		p.CommentIDs = append(p.CommentIDs, c.ID)
	}
	return p
}

// normalizeIDs sorts and de-duplicates link ids, like a composite primary key.
func normalizeIDs(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
