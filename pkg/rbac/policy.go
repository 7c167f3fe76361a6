package rbac

import (
	"errors"
	"fmt"
)

// Catalog lists, per resource, the actions that are meaningful for it.
// It is the permission vocabulary every grant is checked against.
type Catalog map[Resource][]Action

// DefaultCatalog returns the dashboard's permission vocabulary.
func DefaultCatalog() Catalog {
	return Catalog{
		ResourceDashboard: {ActionView},
		ResourceReports:   {ActionView, ActionCreate, ActionEdit, ActionDelete, ActionApprove, ActionExport},
		ResourceAlerts:    {ActionView, ActionCreate, ActionEdit, ActionDelete, ActionApprove},
		ResourceMap:       {ActionView, ActionCreate, ActionEdit, ActionDelete},
		ResourceData:      {ActionView, ActionCreate, ActionEdit, ActionDelete, ActionExport},
		ResourceUsers:     {ActionView, ActionCreate, ActionEdit, ActionDelete, ActionManage},
		ResourceSettings:  {ActionView, ActionEdit, ActionManage},
		ResourceAudit:     {ActionView, ActionExport},
	}
}

// Contains reports whether p is part of the vocabulary.
func (c Catalog) Contains(p Permission) bool {
	for _, a := range c[p.Resource] {
		if a == p.Action {
			return true
		}
	}
	return false
}

// Permissions enumerates the whole vocabulary ordered by resource, then action.
func (c Catalog) Permissions() []Permission {
	var out []Permission
	for _, r := range resources {
		for _, a := range c[r] {
			out = append(out, Permission{Resource: r, Action: a})
		}
	}
	return NewPermissionSet(out...).Slice()
}

func (c Catalog) clone() Catalog {
	out := make(Catalog, len(c))
	for r, acts := range c {
		cp := make([]Action, len(acts))
		copy(cp, acts)
		out[r] = cp
	}
	return out
}

func (c Catalog) validate() error {
	for r, acts := range c {
		for _, a := range acts {
			if _, err := NewPermission(r, a); err != nil {
				return err
			}
		}
	}
	return nil
}

// Grants maps each role to the permissions it is granted.
type Grants map[Role][]Permission

// DefaultGrants returns the built-in role-permission table.
func DefaultGrants() Grants {
	p := MustParsePermission
	return Grants{
		RoleAdmin: {
			p("dashboard:view"),
			p("reports:view"), p("reports:create"), p("reports:edit"), p("reports:delete"), p("reports:approve"), p("reports:export"),
			p("alerts:view"), p("alerts:create"), p("alerts:edit"), p("alerts:delete"), p("alerts:approve"),
			p("map:view"), p("map:create"), p("map:edit"), p("map:delete"),
			p("data:view"), p("data:create"), p("data:edit"), p("data:delete"), p("data:export"),
			p("users:view"), p("users:create"), p("users:edit"), p("users:delete"), p("users:manage"),
			p("settings:view"), p("settings:edit"), p("settings:manage"),
			p("audit:view"), p("audit:export"),
		},
		// Broad operational access without user or system administration.
		RoleCommander: {
			p("dashboard:view"),
			p("reports:view"), p("reports:create"), p("reports:edit"), p("reports:approve"), p("reports:export"),
			p("alerts:view"), p("alerts:create"), p("alerts:edit"), p("alerts:approve"),
			p("map:view"), p("map:create"), p("map:edit"),
			p("data:view"), p("data:create"), p("data:edit"), p("data:export"),
			p("users:view"),
			p("settings:view"),
			p("audit:view"),
		},
		RoleAnalyst: {
			p("dashboard:view"),
			p("reports:view"), p("reports:create"), p("reports:edit"), p("reports:export"),
			p("alerts:view"), p("alerts:create"),
			p("map:view"),
			p("data:view"), p("data:create"), p("data:edit"), p("data:export"),
			p("settings:view"),
		},
		RoleField: {
			p("dashboard:view"),
			p("reports:view"), p("reports:create"),
			p("alerts:view"), p("alerts:create"),
			p("map:view"),
			p("data:view"), p("data:create"),
			p("settings:view"),
		},
	}
}

// clone returns a deep copy so callers cannot mutate a source's table.
func (g Grants) clone() Grants {
	out := make(Grants, len(g))
	for role, perms := range g {
		cp := make([]Permission, len(perms))
		copy(cp, perms)
		out[role] = cp
	}
	return out
}

// Policy is the validated, immutable combination of a catalog and a grants table,
// together with the resource-access index derived from the catalog.
type Policy struct {
	catalog Catalog
	grants  map[Role]PermissionSet
	index   map[Resource]PermissionSet
}

// NewPolicy validates grants against the catalog and precomputes per-role sets
// and the resource-access index. Every assignable role gets an entry.
func NewPolicy(catalog Catalog, grants Grants) (*Policy, error) {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if err := catalog.validate(); err != nil {
		return nil, err
	}
	catalog = catalog.clone()

	sets := make(map[Role]PermissionSet, len(roles))
	for _, r := range roles {
		sets[r] = PermissionSet{}
	}

	var errs []error
	for role, perms := range grants {
		if !role.Valid() {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownRole, role))
			continue
		}
		for _, p := range perms {
			if !catalog.Contains(p) {
				errs = append(errs, fmt.Errorf("%w: role %q grants %q", ErrUndefinedPermission, role, p))
			}
		}
		sets[role] = NewPermissionSet(perms...)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	index := make(map[Resource]PermissionSet, len(catalog))
	for r, acts := range catalog {
		perms := make([]Permission, 0, len(acts))
		for _, a := range acts {
			perms = append(perms, Permission{Resource: r, Action: a})
		}
		index[r] = NewPermissionSet(perms...)
	}

	return &Policy{
		catalog: catalog,
		grants:  sets,
		index:   index,
	}, nil
}

// MustNewPolicy is like NewPolicy but panics on an invalid table.
func MustNewPolicy(catalog Catalog, grants Grants) *Policy {
	p, err := NewPolicy(catalog, grants)
	if err != nil {
		panic(err)
	}
	return p
}

// DefaultPolicy returns the built-in catalog and grants.
func DefaultPolicy() *Policy {
	return MustNewPolicy(DefaultCatalog(), DefaultGrants())
}

// Grants returns the permissions granted to role. Unknown roles get the empty set.
func (p *Policy) Grants(role Role) PermissionSet {
	if p == nil {
		return PermissionSet{}
	}
	return p.grants[role]
}

// AccessIndex returns every permission that references resource.
func (p *Policy) AccessIndex(resource Resource) (PermissionSet, bool) {
	if p == nil {
		return PermissionSet{}, false
	}
	set, ok := p.index[resource]
	return set, ok
}

// Catalog returns a copy of the vocabulary the policy was validated against.
func (p *Policy) Catalog() Catalog {
	if p == nil {
		return Catalog{}
	}
	return p.catalog.clone()
}
