package auth

import (
	"fmt"

	"blogapi/internal/config"
	"blogapi/internal/domain"
	"blogapi/internal/domain/models"
	"blogapi/internal/domain/services"
)

// rule is the decision applied to one (resource, operation) pair.
type rule int

const (
	ruleDeny rule = iota
	ruleAnyone
	ruleAuthenticated
	ruleAdminOnly
	ruleOwner
	ruleOwnerOrAdmin
)

func (r rule) String() string {
	switch r {
	case ruleAnyone:
		return "anyone"
	case ruleAuthenticated:
		return "authenticated"
	case ruleAdminOnly:
		return "admin-only"
	case ruleOwner:
		return "owner-or-read-only"
	case ruleOwnerOrAdmin:
		return "owner-or-admin"
	default:
		return "deny"
	}
}

type ruleKey struct {
	resource services.Resource
	op       services.Operation
}

// Policy is the table-driven authorizer shared by every resource service.
// The table is fixed at construction; lookups are read-only.
type Policy struct {
	rules map[ruleKey]rule
}

var _ services.Authorizer = (*Policy)(nil)

// NewPolicy builds the rule table. categoryMode selects whether category
// writes are gated on ownership or open to any authenticated principal.
func NewPolicy(categoryMode config.CategoryMode) *Policy {
	categoryWrite := ruleOwner
	if categoryMode == config.CategoryModeOpen {
		categoryWrite = ruleAuthenticated
	}

	p := &Policy{rules: make(map[ruleKey]rule)}
	p.set(services.ResourceCategory, ruleAnyone, ruleAnyone, ruleAuthenticated, categoryWrite, categoryWrite)
	p.set(services.ResourcePost, ruleAnyone, ruleAnyone, ruleAuthenticated, ruleOwnerOrAdmin, ruleOwnerOrAdmin)
	p.set(services.ResourceComment, ruleAnyone, ruleAnyone, ruleAuthenticated, ruleOwnerOrAdmin, ruleOwnerOrAdmin)
	p.set(services.ResourceUser, ruleAuthenticated, ruleOwnerOrAdmin, ruleAdminOnly, ruleOwnerOrAdmin, ruleAdminOnly)
	return p
}

func (p *Policy) set(res services.Resource, list, retrieve, create, update, destroy rule) {
	p.rules[ruleKey{res, services.OpList}] = list
	p.rules[ruleKey{res, services.OpRetrieve}] = retrieve
	p.rules[ruleKey{res, services.OpCreate}] = create
	p.rules[ruleKey{res, services.OpUpdate}] = update
	p.rules[ruleKey{res, services.OpPartialUpdate}] = update
	p.rules[ruleKey{res, services.OpDestroy}] = destroy
}

// lookup returns ruleDeny for pairs missing from the table
func (p *Policy) lookup(res services.Resource, op services.Operation) rule {
	return p.rules[ruleKey{res, op}]
}

// Precheck applies the owner-independent part of the rule.
// Owner-based rules pass here once the principal is authenticated.
func (p *Policy) Precheck(principal models.Principal, res services.Resource, op services.Operation) error {
	r := p.lookup(res, op)
	if r == ruleAnyone {
		return nil
	}
	if !principal.IsAuthenticated {
		return fmt.Errorf("%s %s: %w", op, res, domain.ErrUnauthenticated)
	}

	switch r {
	case ruleAuthenticated, ruleOwner, ruleOwnerOrAdmin:
		return nil
	case ruleAdminOnly:
		if principal.IsAdmin {
			return nil
		}
	}
	return forbidden(res, op, r)
}

// Authorize is the complete decision for a record owned by ownerID.
func (p *Policy) Authorize(principal models.Principal, res services.Resource, op services.Operation, ownerID int64) error {
	if err := p.Precheck(principal, res, op); err != nil {
		return err
	}

	r := p.lookup(res, op)
	switch r {
	case ruleOwner:
		if isOwner(principal, ownerID) {
			return nil
		}
		return forbidden(res, op, r)
	case ruleOwnerOrAdmin:
		if principal.IsAdmin || isOwner(principal, ownerID) {
			return nil
		}
		return forbidden(res, op, r)
	}
	return nil
}

// isOwner never matches unowned records
func isOwner(principal models.Principal, ownerID int64) bool {
	return ownerID != models.NoOwner && principal.ID == ownerID
}

func forbidden(res services.Resource, op services.Operation, r rule) error {
	return fmt.Errorf("%s %s denied by %s: %w", op, res, r, domain.ErrForbidden)
}
