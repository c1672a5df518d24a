// Package memory implements the repository interfaces in process.
// It enforces the same ordering, uniqueness and cascade rules as the
// PostgreSQL schema so services behave identically on both.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"blogapi/internal/domain/models"
	"blogapi/internal/domain/repositories"
)

// Store holds all four collections behind one lock so cascades are atomic.
type Store struct {
	mu sync.RWMutex

	uniqueCategoryNames bool

	lastID     int64
	users      map[int64]models.User
	categories map[int64]models.Category
	posts      map[int64]models.Post
	comments   map[int64]models.Comment
}

// NewStore creates an empty store. uniqueCategoryNames mirrors the unique
// index created for open-mode categories.
func NewStore(uniqueCategoryNames bool) *Store {
	return &Store{
		uniqueCategoryNames: uniqueCategoryNames,
		users:               make(map[int64]models.User),
		categories:          make(map[int64]models.Category),
		posts:               make(map[int64]models.Post),
		comments:            make(map[int64]models.Comment),
	}
}

func (s *Store) Users() repositories.UserRepository { return &userRepository{s} }
func (s *Store) Categories() repositories.CategoryRepository { return &categoryRepository{s} }
func (s *Store) Posts() repositories.PostRepository { return &postRepository{s} }
func (s *Store) Comments() repositories.CommentRepository { return &commentRepository{s} }
func (s *Store) TransactionManager() repositories.TransactionManager { return txManager{} }

// nextID must be called with mu held. Ids are shared across collections,
// which keeps them unique and monotonic like a sequence.
func (s *Store) nextID() int64 {
	s.lastID++
	return s.lastID
}

func stamp(created, updated *time.Time) {
	now := time.Now()
	if created.IsZero() {
		*created = now
	}
	if updated.IsZero() {
		*updated = *created
	}
}

func (s *Store) username(id int64) string {
	return s.users[id].Username
}

// deletePostLocked removes a post and its comments.
func (s *Store) deletePostLocked(id int64) {
	delete(s.posts, id)
	for cid, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, cid)
		}
	}
}

// deleteCategoryLocked removes a category and unlinks it from posts.
func (s *Store) deleteCategoryLocked(id int64) {
	delete(s.categories, id)
	for pid, p := range s.posts {
		if i := slices.Index(p.CategoryIDs, id); i >= 0 {
			p.CategoryIDs = slices.Delete(slices.Clone(p.CategoryIDs), i, i+1)
			s.posts[pid] = p
		}
	}
}

// deleteUserLocked removes a user and, transitively, everything it owns.
func (s *Store) deleteUserLocked(id int64) {
	delete(s.users, id)
	for pid, p := range s.posts {
		if p.OwnerID == id {
			s.deletePostLocked(pid)
		}
	}
	for cid, c := range s.comments {
		if c.OwnerID == id {
			delete(s.comments, cid)
		}
	}
	for cid, c := range s.categories {
		if c.OwnerID != nil && *c.OwnerID == id {
			s.deleteCategoryLocked(cid)
		}
	}
}

// txManager runs fn directly; each repository call is already atomic.
type txManager struct{}

func (txManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}
