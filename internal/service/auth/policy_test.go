package auth

import (
	"errors"
	"testing"

	"blogapi/internal/config"
	"blogapi/internal/domain"
	"blogapi/internal/domain/models"
	"blogapi/internal/domain/services"
)

var (
	anonymous = models.Anonymous()
	owner     = models.Principal{ID: 1, Username: "owner", IsAuthenticated: true}
	peer      = models.Principal{ID: 2, Username: "peer", IsAuthenticated: true}
	admin     = models.Principal{ID: 3, Username: "admin", IsAdmin: true, IsAuthenticated: true}
)

var allOps = []services.Operation{
	services.OpList,
	services.OpRetrieve,
	services.OpCreate,
	services.OpUpdate,
	services.OpPartialUpdate,
	services.OpDestroy,
}

// outcome is nil, domain.ErrUnauthenticated or domain.ErrForbidden
func outcome(t *testing.T, err error) error {
	t.Helper()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrUnauthenticated):
		return domain.ErrUnauthenticated
	case errors.Is(err, domain.ErrForbidden):
		return domain.ErrForbidden
	}
	t.Fatalf("unexpected error type: %v", err)
	return nil
}

func TestAuthorize(t *testing.T) {
	owned := NewPolicy(config.CategoryModeOwned)
	open := NewPolicy(config.CategoryModeOpen)

	tests := []struct {
		name      string
		policy    *Policy
		resource  services.Resource
		op        services.Operation
		principal models.Principal
		ownerID   int64
		want      error
	}{
		// Reads are public for content resources
		{"anonymous lists posts", owned, services.ResourcePost, services.OpList, anonymous, 0, nil},
		{"anonymous retrieves post", owned, services.ResourcePost, services.OpRetrieve, anonymous, owner.ID, nil},
		{"anonymous retrieves comment", owned, services.ResourceComment, services.OpRetrieve, anonymous, owner.ID, nil},
		{"anonymous lists categories", owned, services.ResourceCategory, services.OpList, anonymous, 0, nil},

		// Anonymous writes never pass
		{"anonymous creates post", owned, services.ResourcePost, services.OpCreate, anonymous, 0, domain.ErrUnauthenticated},
		{"anonymous updates post", owned, services.ResourcePost, services.OpUpdate, anonymous, owner.ID, domain.ErrUnauthenticated},
		{"anonymous deletes comment", owned, services.ResourceComment, services.OpDestroy, anonymous, owner.ID, domain.ErrUnauthenticated},
		{"anonymous creates open category", open, services.ResourceCategory, services.OpCreate, anonymous, 0, domain.ErrUnauthenticated},

		// Posts and comments: owner or admin
		{"owner updates post", owned, services.ResourcePost, services.OpUpdate, owner, owner.ID, nil},
		{"peer updates post", owned, services.ResourcePost, services.OpUpdate, peer, owner.ID, domain.ErrForbidden},
		{"peer patches post", owned, services.ResourcePost, services.OpPartialUpdate, peer, owner.ID, domain.ErrForbidden},
		{"admin updates post", owned, services.ResourcePost, services.OpUpdate, admin, owner.ID, nil},
		{"admin deletes comment", owned, services.ResourceComment, services.OpDestroy, admin, owner.ID, nil},
		{"peer deletes comment", owned, services.ResourceComment, services.OpDestroy, peer, owner.ID, domain.ErrForbidden},
		{"any user creates comment", owned, services.ResourceComment, services.OpCreate, peer, 0, nil},

		// Owned categories: owner only, no admin override
		{"owner renames owned category", owned, services.ResourceCategory, services.OpUpdate, owner, owner.ID, nil},
		{"admin renames owned category", owned, services.ResourceCategory, services.OpUpdate, admin, owner.ID, domain.ErrForbidden},
		{"peer deletes owned category", owned, services.ResourceCategory, services.OpDestroy, peer, owner.ID, domain.ErrForbidden},

		// Open categories: any authenticated principal
		{"peer renames open category", open, services.ResourceCategory, services.OpUpdate, peer, models.NoOwner, nil},
		{"peer deletes open category", open, services.ResourceCategory, services.OpDestroy, peer, models.NoOwner, nil},

		// Users
		{"anonymous lists users", owned, services.ResourceUser, services.OpList, anonymous, 0, domain.ErrUnauthenticated},
		{"peer lists users", owned, services.ResourceUser, services.OpList, peer, 0, nil},
		{"user retrieves self", owned, services.ResourceUser, services.OpRetrieve, peer, peer.ID, nil},
		{"user retrieves other", owned, services.ResourceUser, services.OpRetrieve, peer, owner.ID, domain.ErrForbidden},
		{"admin retrieves other", owned, services.ResourceUser, services.OpRetrieve, admin, owner.ID, nil},
		{"user updates self", owned, services.ResourceUser, services.OpPartialUpdate, peer, peer.ID, nil},
		{"user creates user", owned, services.ResourceUser, services.OpCreate, peer, 0, domain.ErrForbidden},
		{"admin creates user", owned, services.ResourceUser, services.OpCreate, admin, 0, nil},
		{"user deletes self", owned, services.ResourceUser, services.OpDestroy, peer, peer.ID, domain.ErrForbidden},
		{"admin deletes user", owned, services.ResourceUser, services.OpDestroy, admin, owner.ID, nil},

		// Unknown pairs deny
		{"unknown operation", owned, services.ResourcePost, services.Operation("publish"), admin, admin.ID, domain.ErrForbidden},
		{"unknown resource", owned, services.Resource("tag"), services.OpCreate, admin, 0, domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Authorize(tt.principal, tt.resource, tt.op, tt.ownerID)
			if got := outcome(t, err); got != tt.want {
				t.Errorf("Authorize() = %v, want %v", err, tt.want)
			}
		})
	}
}

// Update on an owner-or-admin resource is allowed iff the principal owns the
// record or is an admin; on an owner-only resource iff it owns the record.
func TestAuthorize_UpdateMatrix(t *testing.T) {
	policy := NewPolicy(config.CategoryModeOwned)
	principals := []models.Principal{owner, peer, admin}
	owners := []int64{owner.ID, peer.ID, admin.ID, 42}

	for _, p := range principals {
		for _, ownerID := range owners {
			for _, op := range []services.Operation{services.OpUpdate, services.OpPartialUpdate, services.OpDestroy} {
				isOwner := p.ID == ownerID

				for _, res := range []services.Resource{services.ResourcePost, services.ResourceComment} {
					err := policy.Authorize(p, res, op, ownerID)
					if allowed := err == nil; allowed != (isOwner || p.IsAdmin) {
						t.Errorf("%s %s by %s on owner %d: allowed=%v", op, res, p.Username, ownerID, allowed)
					}
				}

				err := policy.Authorize(p, services.ResourceCategory, op, ownerID)
				if allowed := err == nil; allowed != isOwner {
					t.Errorf("%s category by %s on owner %d: allowed=%v", op, p.Username, ownerID, allowed)
				}
			}
		}
	}
}

func TestAuthorize_AnonymousNeverWrites(t *testing.T) {
	for _, mode := range []config.CategoryMode{config.CategoryModeOwned, config.CategoryModeOpen} {
		policy := NewPolicy(mode)
		for _, res := range []services.Resource{
			services.ResourceCategory, services.ResourcePost, services.ResourceComment, services.ResourceUser,
		} {
			for _, op := range allOps {
				if !op.IsWrite() {
					continue
				}
				err := policy.Authorize(anonymous, res, op, models.NoOwner)
				if !errors.Is(err, domain.ErrUnauthenticated) {
					t.Errorf("%s: anonymous %s %s = %v, want unauthenticated", mode, op, res, err)
				}
			}
		}
	}
}

// Unowned records must not match a principal whose id is the zero value.
func TestAuthorize_NoOwnerNeverMatches(t *testing.T) {
	policy := NewPolicy(config.CategoryModeOwned)
	zeroID := models.Principal{IsAuthenticated: true}

	err := policy.Authorize(zeroID, services.ResourceCategory, services.OpUpdate, models.NoOwner)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Authorize() = %v, want forbidden", err)
	}
}

func TestPrecheck(t *testing.T) {
	policy := NewPolicy(config.CategoryModeOwned)

	tests := []struct {
		name      string
		resource  services.Resource
		op        services.Operation
		principal models.Principal
		want      error
	}{
		{"owner rule passes before lookup", services.ResourcePost, services.OpUpdate, peer, nil},
		{"owner rule still needs a login", services.ResourcePost, services.OpUpdate, anonymous, domain.ErrUnauthenticated},
		{"admin-only rejects early", services.ResourceUser, services.OpDestroy, peer, domain.ErrForbidden},
		{"admin-only passes admin", services.ResourceUser, services.OpCreate, admin, nil},
		{"public read", services.ResourceComment, services.OpList, anonymous, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.Precheck(tt.principal, tt.resource, tt.op)
			if got := outcome(t, err); got != tt.want {
				t.Errorf("Precheck() = %v, want %v", err, tt.want)
			}
		})
	}
}
