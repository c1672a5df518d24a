package memory

import (
	"context"
	"fmt"
	"slices"

	"blogapi/internal/domain"
	"blogapi/internal/domain/models"
)

type categoryRepository struct{ s *Store }

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTakenLocked(category.Name, models.NoOwner) {
		return duplicateCategoryName()
	}
	if category.OwnerID != nil {
		if _, ok := r.s.users[*category.OwnerID]; !ok {
			return fmt.Errorf("category owner %d: %w", *category.OwnerID, domain.ErrNotFound)
		}
	}

	category.ID = r.s.nextID()
	stamp(&category.CreatedAt, &category.UpdatedAt)
	stored := *category
	stored.PostIDs = nil
	stored.OwnerUsername = nil
	r.s.categories[category.ID] = stored

	*category = r.viewLocked(stored)
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %d: %w", id, domain.ErrNotFound)
	}
	view := r.viewLocked(c)
	return &view, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, r.viewLocked(c))
	}
	slices.SortFunc(out, func(a, b models.Category) int { return cmpInt64(a.ID, b.ID) })
	return out, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.categories[category.ID]
	if !ok {
		return fmt.Errorf("category %d: %w", category.ID, domain.ErrNotFound)
	}
	if r.nameTakenLocked(category.Name, category.ID) {
		return duplicateCategoryName()
	}

	existing.Name = category.Name
	existing.UpdatedAt = category.UpdatedAt
	r.s.categories[category.ID] = existing
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[id]; !ok {
		return fmt.Errorf("category %d: %w", id, domain.ErrNotFound)
	}
	r.s.deleteCategoryLocked(id)
	return nil
}

func (r *categoryRepository) nameTakenLocked(name string, except int64) bool {
	if !r.s.uniqueCategoryNames {
		return false
	}
	for id, c := range r.s.categories {
		if id != except && c.Name == name {
			return true
		}
	}
	return false
}

// viewLocked fills derived fields: owner username and linked post ids.
func (r *categoryRepository) viewLocked(c models.Category) models.Category {
	if c.OwnerID != nil {
		name := r.s.username(*c.OwnerID)
		c.OwnerUsername = &name
	}
	c.PostIDs = []int64{}
	for id, p := range r.s.posts {
		if slices.Contains(p.CategoryIDs, c.ID) {
			c.PostIDs = append(c.PostIDs, id)
		}
	}
	slices.Sort(c.PostIDs)
	return c
}

func duplicateCategoryName() error {
	return domain.NewValidationError("name", "category with this name already exists.")
}
