package rbac

import (
	"fmt"
	"slices"
	"strings"
)

// PermissionSeparator joins the resource and action parts of a permission string.
const PermissionSeparator = ":"

// Permission is a single grantable capability: an action on a resource.
// Permissions are compared by value.
type Permission struct {
	Resource Resource
	Action   Action
}

// NewPermission validates both parts against the closed vocabularies.
func NewPermission(resource Resource, action Action) (Permission, error) {
	if !resource.Valid() {
		return Permission{}, fmt.Errorf("%w: %w: %q", ErrInvalidPermissionFormat, ErrUnknownResource, resource)
	}
	if !action.Valid() {
		return Permission{}, fmt.Errorf("%w: %w: %q", ErrInvalidPermissionFormat, ErrUnknownAction, action)
	}
	return Permission{Resource: resource, Action: action}, nil
}

// ParsePermission decodes the canonical "resource:action" form.
// Input is never normalized: whitespace or case differences are errors.
func ParsePermission(s string) (Permission, error) {
	resource, action, ok := strings.Cut(s, PermissionSeparator)
	if !ok || strings.Contains(action, PermissionSeparator) {
		return Permission{}, fmt.Errorf("%w: %q", ErrInvalidPermissionFormat, s)
	}
	return NewPermission(Resource(resource), Action(action))
}

// MustParsePermission is like ParsePermission but panics on malformed input.
// Intended for static tables and tests.
func MustParsePermission(s string) Permission {
	p, err := ParsePermission(s)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePermissions decodes a list of permission strings, stopping at the first error.
func ParsePermissions(ss ...string) ([]Permission, error) {
	out := make([]Permission, 0, len(ss))
	for _, s := range ss {
		p, err := ParsePermission(s)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Valid reports whether both parts belong to the closed vocabularies.
func (p Permission) Valid() bool {
	return p.Resource.Valid() && p.Action.Valid()
}

// String returns the canonical "resource:action" form.
func (p Permission) String() string {
	return string(p.Resource) + PermissionSeparator + string(p.Action)
}

// MarshalText implements encoding.TextMarshaler.
func (p Permission) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPermissionFormat, p.String())
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Permission) UnmarshalText(text []byte) error {
	parsed, err := ParsePermission(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func comparePermissions(a, b Permission) int {
	if d := resourceOrder(a.Resource) - resourceOrder(b.Resource); d != 0 {
		return d
	}
	return actionOrder(a.Action) - actionOrder(b.Action)
}

// PermissionSet is an immutable, unordered collection of permissions.
// The zero value is the empty set.
type PermissionSet struct {
	m map[Permission]struct{}
}

// NewPermissionSet builds a set; duplicates collapse.
func NewPermissionSet(perms ...Permission) PermissionSet {
	m := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		m[p] = struct{}{}
	}
	return PermissionSet{m: m}
}

// Has reports whether p is in the set.
func (s PermissionSet) Has(p Permission) bool {
	_, ok := s.m[p]
	return ok
}

// Len returns the number of permissions in the set.
func (s PermissionSet) Len() int {
	return len(s.m)
}

// ContainsAny reports whether at least one of perms is in the set.
// An empty list yields false.
func (s PermissionSet) ContainsAny(perms ...Permission) bool {
	for _, p := range perms {
		if s.Has(p) {
			return true
		}
	}
	return false
}

// ContainsAll reports whether every one of perms is in the set.
// An empty list yields true.
func (s PermissionSet) ContainsAll(perms ...Permission) bool {
	for _, p := range perms {
		if !s.Has(p) {
			return false
		}
	}
	return true
}

// Intersects reports whether the two sets share a permission.
func (s PermissionSet) Intersects(other PermissionSet) bool {
	small, large := s, other
	if small.Len() > large.Len() {
		small, large = large, small
	}
	for p := range small.m {
		if large.Has(p) {
			return true
		}
	}
	return false
}

// IsSubsetOf reports whether every permission of s is also in other.
func (s PermissionSet) IsSubsetOf(other PermissionSet) bool {
	for p := range s.m {
		if !other.Has(p) {
			return false
		}
	}
	return true
}

// Slice returns the permissions ordered by resource, then action.
func (s PermissionSet) Slice() []Permission {
	out := make([]Permission, 0, len(s.m))
	for p := range s.m {
		out = append(out, p)
	}
	slices.SortFunc(out, comparePermissions)
	return out
}

// Strings returns the canonical string forms in Slice order.
func (s PermissionSet) Strings() []string {
	perms := s.Slice()
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = p.String()
	}
	return out
}
