package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"blogapi/internal/domain"
	"blogapi/internal/domain/models"
)

func seedUser(t *testing.T, s *Store, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, PasswordHash: "x"}
	if err := s.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func TestUsers_UniqueUsername(t *testing.T) {
	s := NewStore(false)
	seedUser(t, s, "alice")

	err := s.Users().Create(context.Background(), &models.User{Username: "alice"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("duplicate Create() error = %v, want validation", err)
	}
}

func TestCategories_UniqueNamesOnlyWhenConfigured(t *testing.T) {
	ctx := context.Background()

	for _, unique := range []bool{false, true} {
		s := NewStore(unique)
		if err := s.Categories().Create(ctx, &models.Category{Name: "Go"}); err != nil {
			t.Fatalf("first Create() error = %v", err)
		}
		err := s.Categories().Create(ctx, &models.Category{Name: "Go"})
		if unique && !errors.Is(err, domain.ErrValidation) {
			t.Errorf("unique store: duplicate Create() error = %v, want validation", err)
		}
		if !unique && err != nil {
			t.Errorf("non-unique store: duplicate Create() error = %v", err)
		}
	}
}

// Equal timestamps order by id so list order stays deterministic.
func TestPosts_OrderingTieBreak(t *testing.T) {
	ctx := context.Background()
	s := NewStore(false)
	u := seedUser(t, s, "alice")

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []int64
	for i := 0; i < 3; i++ {
		p := &models.Post{Title: "t", Body: "b", OwnerID: u.ID, CreatedAt: at, UpdatedAt: at}
		if err := s.Posts().Create(ctx, p); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		ids = append(ids, p.ID)

		c := &models.Comment{Body: "c", OwnerID: u.ID, PostID: ids[0], CreatedAt: at, UpdatedAt: at}
		if err := s.Comments().Create(ctx, c); err != nil {
			t.Fatalf("create comment: %v", err)
		}
	}

	posts, _ := s.Posts().List(ctx)
	for i, p := range posts {
		if want := ids[len(ids)-1-i]; p.ID != want {
			t.Errorf("posts[%d] = %d, want %d", i, p.ID, want)
		}
	}

	comments, _ := s.Comments().ListByPost(ctx, ids[0])
	for i := 1; i < len(comments); i++ {
		if comments[i-1].ID > comments[i].ID {
			t.Errorf("comments out of order: %d before %d", comments[i-1].ID, comments[i].ID)
		}
	}
}

func TestCategories_DeleteUnlinksPosts(t *testing.T) {
	ctx := context.Background()
	s := NewStore(false)
	u := seedUser(t, s, "alice")

	cat := &models.Category{Name: "Go"}
	if err := s.Categories().Create(ctx, cat); err != nil {
		t.Fatalf("create category: %v", err)
	}
	post := &models.Post{Title: "t", Body: "b", OwnerID: u.ID, CategoryIDs: []int64{cat.ID}}
	if err := s.Posts().Create(ctx, post); err != nil {
		t.Fatalf("create post: %v", err)
	}

	if err := s.Categories().Delete(ctx, cat.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	got, err := s.Posts().GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("post deleted with its category: %v", err)
	}
	if len(got.CategoryIDs) != 0 {
		t.Errorf("CategoryIDs = %v, want none", got.CategoryIDs)
	}
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore(false)
	u := seedUser(t, s, "alice")

	post := &models.Post{Title: "t", Body: "b", OwnerID: u.ID}
	if err := s.Posts().Create(ctx, post); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, _ := s.Posts().GetByID(ctx, post.ID)
	got.Title = "mutated"
	got.OwnerID = 999

	again, _ := s.Posts().GetByID(ctx, post.ID)
	if again.Title != "t" || again.OwnerID != u.ID {
		t.Errorf("store changed through a returned record: %+v", again)
	}
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewStore(false)

	checks := map[string]error{
		"user":     s.Users().Delete(ctx, 1),
		"category": s.Categories().Delete(ctx, 1),
		"post":     s.Posts().Delete(ctx, 1),
		"comment":  s.Comments().Delete(ctx, 1),
	}
	for name, err := range checks {
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("%s Delete() error = %v, want not found", name, err)
		}
	}

	if err := s.Comments().Create(ctx, &models.Comment{Body: "c", OwnerID: 1, PostID: 1}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("comment on missing post error = %v, want not found", err)
	}
}
