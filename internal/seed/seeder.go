package seed

import (
	"context"
	"fmt"
	"log/slog"

	"blogapi/internal/domain/models"
	"blogapi/internal/domain/services"
)

// AccountRegistrar creates accounts without a policy check.
// It returns the existing account when the username is taken.
type AccountRegistrar interface {
	Register(ctx context.Context, username, password string, isAdmin bool) (*models.User, error)
}

// Seeder applies fixtures through the resource services, so seeded records
// get the same ownership and validation as API writes.
type Seeder struct {
	accounts   AccountRegistrar
	users      services.UserService
	categories services.CategoryService
	posts      services.PostService
	comments   services.CommentService
	logger     *slog.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(
	accounts AccountRegistrar,
	users services.UserService,
	categories services.CategoryService,
	posts services.PostService,
	comments services.CommentService,
	logger *slog.Logger,
) *Seeder {
	return &Seeder{
		accounts:   accounts,
		users:      users,
		categories: categories,
		posts:      posts,
		comments:   comments,
		logger:     logger,
	}
}

// Result counts what Apply created
type Result struct {
	Users      int
	Categories int
	Posts      int
	Comments   int
}

// Apply creates every fixture in order: users, categories, posts, comments.
func (s *Seeder) Apply(ctx context.Context, f *Fixtures) (*Result, error) {
	res := &Result{}
	principals := make(map[string]models.Principal, len(f.Users))

	for _, uf := range f.Users {
		user, err := s.accounts.Register(ctx, uf.Username, uf.Password, uf.Admin)
		if err != nil {
			return res, fmt.Errorf("seed user %q: %w", uf.Username, err)
		}
		principal := models.NewPrincipal(user)

		if uf.Email != "" || uf.FirstName != "" || uf.LastName != "" {
			profile := &services.UserInput{
				Email:     optional(uf.Email),
				FirstName: optional(uf.FirstName),
				LastName:  optional(uf.LastName),
			}
			if _, err := s.users.Update(ctx, principal, user.ID, profile, true); err != nil {
				return res, fmt.Errorf("seed user %q profile: %w", uf.Username, err)
			}
		}

		principals[uf.Username] = principal
		res.Users++
	}

	lookup := func(username string) (models.Principal, error) {
		p, ok := principals[username]
		if !ok {
			return models.Anonymous(), fmt.Errorf("unknown fixture user %q", username)
		}
		return p, nil
	}

	categoryIDs := make(map[string]int64, len(f.Categories))
	for _, cf := range f.Categories {
		owner, err := lookup(cf.Owner)
		if err != nil {
			return res, err
		}
		name := cf.Name
		category, err := s.categories.Create(ctx, owner, &services.CategoryInput{Name: &name})
		if err != nil {
			return res, fmt.Errorf("seed category %q: %w", cf.Name, err)
		}
		categoryIDs[cf.Name] = category.ID
		res.Categories++
	}

	for _, pf := range f.Posts {
		owner, err := lookup(pf.Owner)
		if err != nil {
			return res, err
		}

		ids := make([]int64, 0, len(pf.Categories))
		for _, name := range pf.Categories {
			id, ok := categoryIDs[name]
			if !ok {
				return res, fmt.Errorf("post %q: unknown fixture category %q", pf.Title, name)
			}
			ids = append(ids, id)
		}

		title, body := pf.Title, pf.Body
		post, err := s.posts.Create(ctx, owner, &services.PostInput{Title: &title, Body: &body, Categories: &ids})
		if err != nil {
			return res, fmt.Errorf("seed post %q: %w", pf.Title, err)
		}
		res.Posts++

		for _, cf := range pf.Comments {
			commenter, err := lookup(cf.Owner)
			if err != nil {
				return res, err
			}
			text, postID := cf.Body, post.ID
			if _, err := s.comments.Create(ctx, commenter, &services.CommentInput{Body: &text, Post: &postID}); err != nil {
				return res, fmt.Errorf("seed comment on %q: %w", pf.Title, err)
			}
			res.Comments++
		}
	}

	s.logger.Info("seed applied",
		"users", res.Users,
		"categories", res.Categories,
		"posts", res.Posts,
		"comments", res.Comments,
	)

	return res, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
