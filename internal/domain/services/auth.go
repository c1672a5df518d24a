package services

import (
	"context"

	"blogapi/internal/domain/models"
)

// Resource names a protected record collection.
type Resource string

const (
	ResourceCategory Resource = "category"
	ResourcePost     Resource = "post"
	ResourceComment  Resource = "comment"
	ResourceUser     Resource = "user"
)

// Operation names an entry point on a resource.
type Operation string

const (
	OpList          Operation = "list"
	OpRetrieve      Operation = "retrieve"
	OpCreate        Operation = "create"
	OpUpdate        Operation = "update"
	OpPartialUpdate Operation = "partial_update"
	OpDestroy       Operation = "destroy"
)

// IsWrite reports whether the operation mutates storage.
func (o Operation) IsWrite() bool {
	switch o {
	case OpCreate, OpUpdate, OpPartialUpdate, OpDestroy:
		return true
	}
	return false
}

// Authorizer decides whether a principal may run an operation.
// Implementations are pure: they never consult storage.
type Authorizer interface {
	// Precheck evaluates the part of the decision that needs no record.
	// Services call it before any lookup.
	Precheck(principal models.Principal, resource Resource, op Operation) error

	// Authorize is the full decision for a record owned by ownerID.
	// Returns nil, domain.ErrUnauthenticated or domain.ErrForbidden (wrapped).
	Authorize(principal models.Principal, resource Resource, op Operation, ownerID int64) error
}

// Authenticator resolves credentials to a principal.
type Authenticator interface {
	// Authenticate checks a username/password pair.
	// Returns domain.ErrUnauthenticated for unknown users or wrong passwords.
	Authenticate(ctx context.Context, username, password string) (models.Principal, error)

	// ResolvePrincipal loads the principal for a verified token subject.
	ResolvePrincipal(ctx context.Context, userID int64) (models.Principal, error)
}
