package memory

import (
	"context"
	"fmt"
	"slices"

	"blogapi/internal/domain"
	"blogapi/internal/domain/models"
)

type commentRepository struct{ s *Store }

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[comment.PostID]; !ok {
		return fmt.Errorf("post %d: %w", comment.PostID, domain.ErrNotFound)
	}
	if _, ok := r.s.users[comment.OwnerID]; !ok {
		return fmt.Errorf("comment owner %d: %w", comment.OwnerID, domain.ErrNotFound)
	}

	comment.ID = r.s.nextID()
	stamp(&comment.CreatedAt, &comment.UpdatedAt)
	r.s.comments[comment.ID] = *comment
	comment.OwnerUsername = r.s.username(comment.OwnerID)
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %d: %w", id, domain.ErrNotFound)
	}
	c.OwnerUsername = r.s.username(c.OwnerID)
	return &c, nil
}

func (r *commentRepository) List(ctx context.Context) ([]models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.withOwnersLocked(sortedComments(r.s.comments, allPosts)), nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.withOwnersLocked(sortedComments(r.s.comments, postID)), nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.comments[comment.ID]
	if !ok {
		return fmt.Errorf("comment %d: %w", comment.ID, domain.ErrNotFound)
	}

	existing.Body = comment.Body
	existing.UpdatedAt = comment.UpdatedAt
	r.s.comments[comment.ID] = existing
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.comments[id]; !ok {
		return fmt.Errorf("comment %d: %w", id, domain.ErrNotFound)
	}
	delete(r.s.comments, id)
	return nil
}

func (r *commentRepository) withOwnersLocked(comments []models.Comment) []models.Comment {
	for i := range comments {
		comments[i].OwnerUsername = r.s.username(comments[i].OwnerID)
	}
	return comments
}

const allPosts int64 = 0

// sortedComments returns comments oldest first, limited to postID unless it
// is allPosts.
func sortedComments(all map[int64]models.Comment, postID int64) []models.Comment {
	out := make([]models.Comment, 0)
	for _, c := range all {
		if postID == allPosts || c.PostID == postID {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b models.Comment) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmpInt64(a.ID, b.ID)
	})
	return out
}
