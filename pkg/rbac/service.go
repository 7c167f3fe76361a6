package rbac

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/intelgrid/dashguard/pkg/logger"
)

// Authorizer answers access decisions for a single immutable policy.
// Every query is a pure function of the role and the policy; it is safe
// for concurrent use without locking.
type Authorizer struct {
	policy *Policy
	log    *slog.Logger
}

// AuthorizerOption configures an Authorizer.
type AuthorizerOption func(*Authorizer)

// WithLogger sets the logger used to report lookups of undefined resources.
func WithLogger(l *slog.Logger) AuthorizerOption {
	return func(a *Authorizer) {
		if l != nil {
			a.log = l
		}
	}
}

// NewAuthorizer creates an Authorizer over policy. A nil policy denies everything.
func NewAuthorizer(policy *Policy, opts ...AuthorizerOption) *Authorizer {
	a := &Authorizer{
		policy: policy,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Policy returns the policy the authorizer evaluates.
func (a *Authorizer) Policy() *Policy {
	return a.policy
}

// EffectivePermissions returns the permissions granted to role.
// Anonymous and unknown roles yield the empty set.
func (a *Authorizer) EffectivePermissions(role Role) PermissionSet {
	return a.policy.Grants(role)
}

// Can reports whether role holds permission.
func (a *Authorizer) Can(role Role, permission Permission) bool {
	return a.EffectivePermissions(role).Has(permission)
}

// CheckPermission is Can expressed as separate resource and action.
func (a *Authorizer) CheckPermission(role Role, resource Resource, action Action) bool {
	return a.Can(role, Permission{Resource: resource, Action: action})
}

// CanAccess reports whether role holds any permission on resource.
// Resources missing from the access index are denied and logged.
func (a *Authorizer) CanAccess(role Role, resource Resource) bool {
	required, ok := a.policy.AccessIndex(resource)
	if !ok {
		a.log.Warn("access check for undefined resource",
			logger.Component("rbac"),
			logger.Role(role),
			logger.Resource(resource),
			logger.Error(ErrUndefinedResource),
		)
		return false
	}
	return a.EffectivePermissions(role).Intersects(required)
}

// CanAny reports whether role holds at least one of permissions.
// An empty list is denied.
func (a *Authorizer) CanAny(role Role, permissions ...Permission) bool {
	return a.EffectivePermissions(role).ContainsAny(permissions...)
}

// CanAll reports whether role holds every one of permissions.
// An empty list is allowed.
func (a *Authorizer) CanAll(role Role, permissions ...Permission) bool {
	return a.EffectivePermissions(role).ContainsAll(permissions...)
}

// Authorize is Can returning ErrInsufficientPermissions on denial.
func (a *Authorizer) Authorize(role Role, permission Permission) error {
	if !a.Can(role, permission) {
		return denied(role, permission.String())
	}
	return nil
}

// AuthorizeAccess is CanAccess returning ErrInsufficientPermissions on denial.
func (a *Authorizer) AuthorizeAccess(role Role, resource Resource) error {
	if _, ok := a.policy.AccessIndex(resource); !ok {
		return errors.Join(ErrInsufficientPermissions, fmt.Errorf("%w: %q", ErrUndefinedResource, resource))
	}
	if !a.CanAccess(role, resource) {
		return denied(role, string(resource))
	}
	return nil
}

// AuthorizeAny is CanAny returning ErrInsufficientPermissions on denial.
func (a *Authorizer) AuthorizeAny(role Role, permissions ...Permission) error {
	if !a.CanAny(role, permissions...) {
		return denied(role, "any of requested permissions")
	}
	return nil
}

// AuthorizeAll is CanAll returning ErrInsufficientPermissions on denial.
func (a *Authorizer) AuthorizeAll(role Role, permissions ...Permission) error {
	if !a.CanAll(role, permissions...) {
		return denied(role, "all of requested permissions")
	}
	return nil
}

func denied(role Role, what string) error {
	if role == RoleAnonymous {
		return errors.Join(ErrInsufficientPermissions, ErrRoleNotInContext)
	}
	return fmt.Errorf("%w: role %q lacks %s", ErrInsufficientPermissions, role, what)
}
