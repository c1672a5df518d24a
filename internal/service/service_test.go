package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"blogapi/internal/config"
	"blogapi/internal/domain"
	"blogapi/internal/domain/models"
	"blogapi/internal/domain/services"
	"blogapi/internal/repository/memory"
	"blogapi/internal/service"
	authz "blogapi/internal/service/auth"
)

type fixture struct {
	ctx        context.Context
	store      *memory.Store
	users      *service.UserService
	categories services.CategoryService
	posts      services.PostService
	comments   services.CommentService

	admin models.Principal
	alice models.Principal
	bob   models.Principal
}

func newFixture(t *testing.T, mode config.CategoryMode) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore(mode.UniqueNames())
	policy := authz.NewPolicy(mode)

	f := &fixture{
		ctx:        context.Background(),
		store:      store,
		users:      service.NewUserService(store.Users(), policy, logger),
		categories: service.NewCategoryService(store.Categories(), policy, mode, logger),
		posts:      service.NewPostService(store.Posts(), store.Categories(), store.TransactionManager(), policy, logger),
		comments:   service.NewCommentService(store.Comments(), store.Posts(), policy, logger),
	}
	f.admin = f.register(t, "admin", true)
	f.alice = f.register(t, "alice", false)
	f.bob = f.register(t, "bob", false)
	return f
}

func (f *fixture) register(t *testing.T, username string, isAdmin bool) models.Principal {
	t.Helper()
	user, err := f.users.Register(f.ctx, username, username+"-password", isAdmin)
	if err != nil {
		t.Fatalf("Register(%s): %v", username, err)
	}
	return models.NewPrincipal(user)
}

func (f *fixture) createPost(t *testing.T, p models.Principal, title string) *models.Post {
	t.Helper()
	body := "body of " + title
	post, err := f.posts.Create(f.ctx, p, &services.PostInput{Title: &title, Body: &body})
	if err != nil {
		t.Fatalf("create post %q: %v", title, err)
	}
	return post
}

func (f *fixture) createComment(t *testing.T, p models.Principal, postID int64, body string) *models.Comment {
	t.Helper()
	c, err := f.comments.Create(f.ctx, p, &services.CommentInput{Body: &body, Post: &postID})
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	return c
}

func ptr[T any](v T) *T { return &v }

func TestPostCreate_OwnerIsRequester(t *testing.T) {
	f := newFixture(t, config.CategoryModeOwned)

	post := f.createPost(t, f.alice, "mine")
	if post.OwnerID != f.alice.ID {
		t.Errorf("OwnerID = %d, want %d", post.OwnerID, f.alice.ID)
	}
	if post.OwnerUsername != "alice" {
		t.Errorf("OwnerUsername = %q, want alice", post.OwnerUsername)
	}
}

func TestPostCreate_Anonymous(t *testing.T) {
	f := newFixture(t, config.CategoryModeOwned)

	_, err := f.posts.Create(f.ctx, models.Anonymous(), &services.PostInput{Title: ptr("t"), Body: ptr("b")})
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("Create() error = %v, want unauthenticated", err)
	}

	posts, _ := f.posts.List(f.ctx, models.Anonymous())
	if len(posts) != 0 {
		t.Errorf("anonymous create persisted %d posts", len(posts))
	}
}

func TestPostCreate_Validation(t *testing.T) {
	f := newFixture(t, config.CategoryModeOwned)

	tests := []struct {
		name  string
		req   services.PostInput
		field string
	}{
		{"missing title", services.PostInput{Body: ptr("b")}, "title"},
		{"blank title", services.PostInput{Title: ptr("   "), Body: ptr("b")}, "title"},
		{"missing body", services.PostInput{Title: ptr("t")}, "body"},
		{"unknown category", services.PostInput{Title: ptr("t"), Body: ptr("b"), Categories: &[]int64{999}}, "categories"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.posts.Create(f.ctx, f.alice, &req)

			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Create() error = %v, want validation error", err)
			}
			if _, ok := ve.Fields[tt.field]; !ok {
				t.Errorf("Fields = %v, want key %q", ve.Fields, tt.field)
			}
		})
	}
}

func TestPostUpdate_AdminOverrideKeepsOwner(t *testing.T) {
	f := newFixture(t, config.CategoryModeOwned)
	post := f.createPost(t, f.alice, "original")

	updated, err := f.posts.Update(f.ctx, f.admin, post.ID, &services.PostInput{Title: ptr("edited by admin")}, true)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "edited by admin" {
		t.Errorf("Title = %q", updated.Title)
	}
	if updated.Body != post.Body {
		t.Errorf("partial update changed body to %q", updated.Body)
	}
	if updated.OwnerID != f.alice.ID {
		t.Errorf("OwnerID = %d after admin edit, want %d", updated.OwnerID, f.alice.ID)
	}
	if !updated.CreatedAt.Equal(post.CreatedAt) {
		t.Errorf("CreatedAt changed from %v to %v", post.CreatedAt, updated.CreatedAt)
	}
}

func TestPostUpdate_PeerForbidden(t *testing.T) {
	f := newFixture(t, config.CategoryModeOwned)

	post := f.createPost(t, f.alice, "alice's post")

	_, err := f.posts.Update(f.ctx, f.bob, post.ID, &services.PostInput{Title: ptr("hijacked"), Body: ptr("x")}, false)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Update() error = %v, want forbidden", err)
	}

	got, err := f.posts.Retrieve(f.ctx, models.Anonymous(), post.ID)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if got.Title != post.Title || got.Body != post.Body {
		t.Errorf("post changed after denied update: %+v", got)
	}
}

func TestPostUpdate_ForbiddenBeforeValidation(t *testing.T) {
	f := newFixture(t, config.CategoryModeOwned)
	post := f.createPost(t, f.alice, "p")

	// An invalid payload from a non-owner is still a permission failure
	_, err := f.posts.Update(f.ctx, f.bob, post.ID, &services.PostInput{}, false)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Update() error = %v, want forbidden", err)
	}
}

func TestPostUpdate_PutRequiresAllFields(t *testing.T) {
	f := newFixture(t, config.CategoryModeOwned)
	post := f.createPost(t, f.alice, "p")

	_, err := f.posts.Update(f.ctx, f.alice, post.ID, &services.PostInput{Title: ptr("only title")}, false)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("PUT without body error = %v, want validation", err)
	}

	if _, err := f.posts.Update(f.ctx, f.alice, post.ID, &services.PostInput{Title: ptr("only title")}, true); err != nil {
		t.Fatalf("PATCH with title only: %v", err)
	}
}

func TestPostRetrieve_NotFound(t *testing.T) {
	f := newFixture(t, config.CategoryModeOwned)

	_, err := f.posts.Retrieve(f.ctx, f.alice, 12345)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Retrieve() error = %v, want not found", err)
	}

	// A missing record is NotFound even for a principal who could not edit it
	_, err = f.posts.Update(f.ctx, f.bob, 12345, &services.PostInput{Title: ptr("t"), Body: ptr("b")}, false)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Update() error = %v, want not found", err)
	}
}

func TestPostList_NewestFirst(t *testing.T) {
	f := newFixture(t, config.CategoryModeOwned)

	var ids []int64
	for i := 0; i < 10; i++ {
		ids = append(ids, f.createPost(t, f.alice, "post").ID)
	}

	posts, err := f.posts.List(f.ctx, models.Anonymous())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(posts) != len(ids) {
		t.Fatalf("len = %d, want %d", len(posts), len(ids))
	}
	for i, p := range posts {
		if want := ids[len(ids)-1-i]; p.ID != want {
			t.Errorf("posts[%d].ID = %d, want %d", i, p.ID, want)
		}
	}
}

func TestPostDestroy_CascadesComments(t *testing.T) {
	f := newFixture(t, config.CategoryModeOwned)
	post := f.createPost(t, f.alice, "p")
	other := f.createPost(t, f.alice, "other")

	for i := 0; i < 3; i++ {
		f.createComment(t, f.bob, post.ID, "c")
	}
	kept := f.createComment(t, f.bob, other.ID, "stays")

	if err := f.posts.Destroy(f.ctx, f.alice, post.ID); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}

	all, err := f.comments.List(f.ctx, models.Anonymous())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	for _, c := range all {
		if c.PostID == post.ID {
			t.Errorf("comment %d still references deleted post", c.ID)
		}
	}
	if len(all) != 1 || all[0].ID != kept.ID {
		t.Errorf("comments = %+v, want only %d", all, kept.ID)
	}

	if _, err := f.comments.ListByPost(f.ctx, models.Anonymous(), post.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("ListByPost(deleted) error = %v, want not found", err)
	}
}

func TestPostDestroy_AdminAnyPost(t *testing.T) {
	f := newFixture(t, config.CategoryModeOwned)
	post := f.createPost(t, f.bob, "p")

	if err := f.posts.Destroy(f.ctx, f.alice, post.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("peer Destroy() error = %v, want forbidden", err)
	}
	if err := f.posts.Destroy(f.ctx, f.admin, post.ID); err != nil {
		t.Fatalf("admin Destroy() error = %v", err)
	}
	if _, err := f.posts.Retrieve(f.ctx, f.admin, post.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Retrieve() after delete error = %v, want not found", err)
	}
}

func TestPostCategories(t *testing.T) {
	f := newFixture(t, config.CategoryModeOwned)
	cat, err := f.categories.Create(f.ctx, f.alice, &services.CategoryInput{Name: ptr("Go")})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	post, err := f.posts.Create(f.ctx, f.bob, &services.PostInput{
		Title:      ptr("t"),
		Body:       ptr("b"),
		Categories: &[]int64{cat.ID, cat.ID},
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if len(post.CategoryIDs) != 1 || post.CategoryIDs[0] != cat.ID {
		t.Errorf("CategoryIDs = %v, want [%d]", post.CategoryIDs, cat.ID)
	}

	got, err := f.categories.Retrieve(f.ctx, models.Anonymous(), cat.ID)
	if err != nil {
		t.Fatalf("retrieve category: %v", err)
	}
	if len(got.PostIDs) != 1 || got.PostIDs[0] != post.ID {
		t.Errorf("PostIDs = %v, want [%d]", got.PostIDs, post.ID)
	}

	// Clearing categories with PATCH
	updated, err := f.posts.Update(f.ctx, f.bob, post.ID, &services.PostInput{Categories: &[]int64{}}, true)
	if err != nil {
		t.Fatalf("update post: %v", err)
	}
	if len(updated.CategoryIDs) != 0 {
		t.Errorf("CategoryIDs = %v after clearing", updated.CategoryIDs)
	}
}

func TestCommentCreate(t *testing.T) {
	f := newFixture(t, config.CategoryModeOwned)
	post := f.createPost(t, f.alice, "p")

	c := f.createComment(t, f.bob, post.ID, "nice")
	if c.OwnerID != f.bob.ID || c.PostID != post.ID {
		t.Errorf("comment = %+v, want owner %d post %d", c, f.bob.ID, post.ID)
	}

	_, err := f.comments.Create(f.ctx, f.bob, &services.CommentInput{Body: ptr("x"), Post: ptr(int64(999))})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Fields["post"] == "" {
		t.Errorf("comment on missing post error = %v, want post field error", err)
	}

	_, err = f.comments.Create(f.ctx, f.bob, &services.CommentInput{Body: ptr("x")})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("comment without post error = %v, want validation", err)
	}
}

func TestCommentUpdate_PostIsReadOnly(t *testing.T) {
	f := newFixture(t, config.CategoryModeOwned)
	post := f.createPost(t, f.alice, "p")
	other := f.createPost(t, f.alice, "other")
	c := f.createComment(t, f.bob, post.ID, "first")

	updated, err := f.comments.Update(f.ctx, f.bob, c.ID, &services.CommentInput{Body: ptr("second"), Post: &other.ID}, false)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.PostID != post.ID {
		t.Errorf("PostID = %d, want %d", updated.PostID, post.ID)
	}
	if updated.Body != "second" {
		t.Errorf("Body = %q", updated.Body)
	}
}

func TestCommentUpdate_Permissions(t *testing.T) {
	f := newFixture(t, config.CategoryModeOwned)
	post := f.createPost(t, f.alice, "p")
	c := f.createComment(t, f.bob, post.ID, "bob's")

	// The post owner does not own comments on it
	if _, err := f.comments.Update(f.ctx, f.alice, c.ID, &services.CommentInput{Body: ptr("x")}, true); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("post owner Update() error = %v, want forbidden", err)
	}

	updated, err := f.comments.Update(f.ctx, f.admin, c.ID, &services.CommentInput{Body: ptr("moderated")}, true)
	if err != nil {
		t.Fatalf("admin Update() error = %v", err)
	}
	if updated.OwnerID != f.bob.ID {
		t.Errorf("OwnerID = %d after admin edit, want %d", updated.OwnerID, f.bob.ID)
	}
}

func TestCommentList_OldestFirst(t *testing.T) {
	f := newFixture(t, config.CategoryModeOwned)
	post := f.createPost(t, f.alice, "p")
	first := f.createComment(t, f.bob, post.ID, "1")
	second := f.createComment(t, f.alice, post.ID, "2")

	comments, err := f.comments.ListByPost(f.ctx, models.Anonymous(), post.ID)
	if err != nil {
		t.Fatalf("ListByPost() error = %v", err)
	}
	if len(comments) != 2 || comments[0].ID != first.ID || comments[1].ID != second.ID {
		t.Errorf("comments = %+v, want [%d %d]", comments, first.ID, second.ID)
	}

	got, err := f.posts.Retrieve(f.ctx, models.Anonymous(), post.ID)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(got.CommentIDs) != 2 || got.CommentIDs[0] != first.ID || got.CommentIDs[1] != second.ID {
		t.Errorf("CommentIDs = %v, want [%d %d]", got.CommentIDs, first.ID, second.ID)
	}
}

func TestCategory_OwnedMode(t *testing.T) {
	f := newFixture(t, config.CategoryModeOwned)

	cat, err := f.categories.Create(f.ctx, f.alice, &services.CategoryInput{Name: ptr("Go")})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if cat.OwnerID == nil || *cat.OwnerID != f.alice.ID {
		t.Fatalf("OwnerID = %v, want %d", cat.OwnerID, f.alice.ID)
	}

	// Duplicate names are allowed without the unique constraint
	if _, err := f.categories.Create(f.ctx, f.bob, &services.CategoryInput{Name: ptr("Go")}); err != nil {
		t.Errorf("duplicate name in owned mode: %v", err)
	}

	if _, err := f.categories.Update(f.ctx, f.admin, cat.ID, &services.CategoryInput{Name: ptr("Rust")}, false); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("admin Update() error = %v, want forbidden", err)
	}
	if err := f.categories.Destroy(f.ctx, f.bob, cat.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("peer Destroy() error = %v, want forbidden", err)
	}

	renamed, err := f.categories.Update(f.ctx, f.alice, cat.ID, &services.CategoryInput{Name: ptr("Golang")}, false)
	if err != nil {
		t.Fatalf("owner Update() error = %v", err)
	}
	if renamed.Name != "Golang" {
		t.Errorf("Name = %q", renamed.Name)
	}
}

func TestCategory_OpenMode(t *testing.T) {
	f := newFixture(t, config.CategoryModeOpen)

	cat, err := f.categories.Create(f.ctx, f.alice, &services.CategoryInput{Name: ptr("Go")})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if cat.OwnerID != nil {
		t.Errorf("OwnerID = %d, want nil in open mode", *cat.OwnerID)
	}

	_, err = f.categories.Create(f.ctx, f.bob, &services.CategoryInput{Name: ptr("Go")})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Fields["name"] == "" {
		t.Errorf("duplicate Create() error = %v, want name validation error", err)
	}

	if _, err := f.categories.Update(f.ctx, f.bob, cat.ID, &services.CategoryInput{Name: ptr("Golang")}, true); err != nil {
		t.Errorf("peer Update() error = %v", err)
	}
	if err := f.categories.Destroy(f.ctx, f.bob, cat.ID); err != nil {
		t.Errorf("peer Destroy() error = %v", err)
	}
	if err := f.categories.Destroy(f.ctx, models.Anonymous(), cat.ID); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("anonymous Destroy() error = %v, want unauthenticated", err)
	}
}

func TestUserCreate_Idempotent(t *testing.T) {
	f := newFixture(t, config.CategoryModeOwned)

	req := func() *services.UserInput {
		return &services.UserInput{Username: ptr("carol"), Password: ptr("secret-1"), Email: ptr("carol@example.com")}
	}

	first, created, err := f.users.Create(f.ctx, f.admin, req())
	if err != nil || !created {
		t.Fatalf("first Create() = created %v, err %v", created, err)
	}

	again := req()
	again.Email = ptr("other@example.com")
	second, created, err := f.users.Create(f.ctx, f.admin, again)
	if err != nil {
		t.Fatalf("second Create() error = %v", err)
	}
	if created {
		t.Error("second Create() reported created")
	}
	if second.ID != first.ID || second.Email != "carol@example.com" {
		t.Errorf("second Create() = %+v, want unchanged %+v", second, first)
	}

	users, err := f.users.List(f.ctx, f.admin)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	count := 0
	for _, u := range users {
		if u.Username == "carol" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("found %d users named carol", count)
	}
}

func TestUserCreate_AdminOnly(t *testing.T) {
	f := newFixture(t, config.CategoryModeOwned)
	req := &services.UserInput{Username: ptr("mallory"), Password: ptr("pw")}

	if _, _, err := f.users.Create(f.ctx, f.alice, req); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("user Create() error = %v, want forbidden", err)
	}
	if _, _, err := f.users.Create(f.ctx, models.Anonymous(), req); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("anonymous Create() error = %v, want unauthenticated", err)
	}
}

func TestUserUpdate_OnlySuppliedFields(t *testing.T) {
	f := newFixture(t, config.CategoryModeOwned)

	if _, err := f.users.Update(f.ctx, f.alice, f.alice.ID, &services.UserInput{
		Email:     ptr("alice@example.com"),
		FirstName: ptr("Alice"),
	}, true); err != nil {
		t.Fatalf("first Update() error = %v", err)
	}

	updated, err := f.users.Update(f.ctx, f.alice, f.alice.ID, &services.UserInput{LastName: ptr("Liddell")}, true)
	if err != nil {
		t.Fatalf("second Update() error = %v", err)
	}
	if updated.Email != "alice@example.com" || updated.FirstName != "Alice" || updated.LastName != "Liddell" {
		t.Errorf("user = %+v", updated)
	}
	if updated.Username != "alice" || updated.IsAdmin {
		t.Errorf("untouched fields changed: %+v", updated)
	}
}

func TestUserUpdate_Password(t *testing.T) {
	f := newFixture(t, config.CategoryModeOwned)

	if _, err := f.users.Update(f.ctx, f.bob, f.bob.ID, &services.UserInput{Password: ptr("new-password")}, true); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if _, err := f.users.Authenticate(f.ctx, "bob", "bob-password"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("old password error = %v, want unauthenticated", err)
	}
	if p, err := f.users.Authenticate(f.ctx, "bob", "new-password"); err != nil || p.ID != f.bob.ID {
		t.Errorf("new password = %+v, %v", p, err)
	}
}

func TestUserRetrieve_SelfOrAdmin(t *testing.T) {
	f := newFixture(t, config.CategoryModeOwned)

	if _, err := f.users.Retrieve(f.ctx, f.alice, f.alice.ID); err != nil {
		t.Errorf("self Retrieve() error = %v", err)
	}
	if _, err := f.users.Retrieve(f.ctx, f.alice, f.bob.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("peer Retrieve() error = %v, want forbidden", err)
	}
	if _, err := f.users.Retrieve(f.ctx, f.admin, f.bob.ID); err != nil {
		t.Errorf("admin Retrieve() error = %v", err)
	}
	if _, err := f.users.Update(f.ctx, f.alice, f.bob.ID, &services.UserInput{FirstName: ptr("x")}, true); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("peer Update() error = %v, want forbidden", err)
	}
}

func TestUserDestroy_CascadesOwnedRecords(t *testing.T) {
	f := newFixture(t, config.CategoryModeOwned)

	bobPost := f.createPost(t, f.bob, "bob's post")
	alicePost := f.createPost(t, f.alice, "alice's post")
	f.createComment(t, f.alice, bobPost.ID, "on bob's post")
	f.createComment(t, f.bob, alicePost.ID, "bob's comment")
	if _, err := f.categories.Create(f.ctx, f.bob, &services.CategoryInput{Name: ptr("bob's")}); err != nil {
		t.Fatalf("create category: %v", err)
	}

	if err := f.users.Destroy(f.ctx, f.bob, f.bob.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("self Destroy() error = %v, want forbidden", err)
	}
	if err := f.users.Destroy(f.ctx, f.admin, f.bob.ID); err != nil {
		t.Fatalf("admin Destroy() error = %v", err)
	}

	posts, _ := f.posts.List(f.ctx, models.Anonymous())
	if len(posts) != 1 || posts[0].ID != alicePost.ID {
		t.Errorf("posts = %+v, want only alice's", posts)
	}
	comments, _ := f.comments.List(f.ctx, models.Anonymous())
	if len(comments) != 0 {
		t.Errorf("comments = %+v, want none", comments)
	}
	categories, _ := f.categories.List(f.ctx, models.Anonymous())
	if len(categories) != 0 {
		t.Errorf("categories = %+v, want none", categories)
	}
	if _, err := f.users.ResolvePrincipal(f.ctx, f.bob.ID); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("ResolvePrincipal(deleted) error = %v, want unauthenticated", err)
	}
}

func TestUserValidation(t *testing.T) {
	f := newFixture(t, config.CategoryModeOwned)

	tests := []struct {
		name  string
		req   services.UserInput
		field string
	}{
		{"missing username", services.UserInput{Password: ptr("pw")}, "username"},
		{"bad username", services.UserInput{Username: ptr("no spaces"), Password: ptr("pw")}, "username"},
		{"missing password", services.UserInput{Username: ptr("dave")}, "password"},
		{"bad email", services.UserInput{Username: ptr("dave"), Password: ptr("pw"), Email: ptr("not-an-email")}, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, _, err := f.users.Create(f.ctx, f.admin, &req)

			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Create() error = %v, want validation error", err)
			}
			if _, ok := ve.Fields[tt.field]; !ok {
				t.Errorf("Fields = %v, want key %q", ve.Fields, tt.field)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t, config.CategoryModeOwned)

	p, err := f.users.Authenticate(f.ctx, "admin", "admin-password")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if !p.IsAuthenticated || !p.IsAdmin || p.ID != f.admin.ID {
		t.Errorf("principal = %+v", p)
	}

	if _, err := f.users.Authenticate(f.ctx, "nobody", "x"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("unknown user error = %v, want unauthenticated", err)
	}
}

func TestAuthorize(t *testing.T) {
	f := newFixture(t, config.CategoryModeOwned)
	post := f.createPost(t, f.alice, "mine")

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"anonymous post create", func() error {
			return f.posts.Authorize(f.ctx, models.Anonymous(), services.OpCreate, 0)
		}, domain.ErrUnauthenticated},
		{"member post create", func() error {
			return f.posts.Authorize(f.ctx, f.bob, services.OpCreate, 0)
		}, nil},
		{"peer post update", func() error {
			return f.posts.Authorize(f.ctx, f.bob, services.OpPartialUpdate, post.ID)
		}, domain.ErrForbidden},
		{"admin post update", func() error {
			return f.posts.Authorize(f.ctx, f.admin, services.OpUpdate, post.ID)
		}, nil},
		{"missing post", func() error {
			return f.posts.Authorize(f.ctx, f.bob, services.OpUpdate, 9999)
		}, domain.ErrNotFound},
		{"member user create", func() error {
			return f.users.Authorize(f.ctx, f.bob, services.OpCreate, 0)
		}, domain.ErrForbidden},
		{"self user update", func() error {
			return f.users.Authorize(f.ctx, f.bob, services.OpPartialUpdate, f.bob.ID)
		}, nil},
		{"anonymous comment create", func() error {
			return f.comments.Authorize(f.ctx, models.Anonymous(), services.OpCreate, 0)
		}, domain.ErrUnauthenticated},
		{"anonymous category create", func() error {
			return f.categories.Authorize(f.ctx, models.Anonymous(), services.OpCreate, 0)
		}, domain.ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Authorize() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Authorize() error = %v, want %v", err, tt.want)
			}
		})
	}

	// Authorize never writes
	got, _ := f.posts.Retrieve(f.ctx, f.alice, post.ID)
	if got.Title != "mine" {
		t.Errorf("post changed: %+v", got)
	}
}
