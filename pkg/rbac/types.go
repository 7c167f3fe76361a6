package rbac

import "fmt"

// Resource names a protectable area of the dashboard.
type Resource string

const (
	ResourceDashboard Resource = "dashboard"
	ResourceReports   Resource = "reports"
	ResourceAlerts    Resource = "alerts"
	ResourceMap       Resource = "map"
	ResourceData      Resource = "data"
	ResourceUsers     Resource = "users"
	ResourceSettings  Resource = "settings"
	ResourceAudit     Resource = "audit"
)

var resources = []Resource{
	ResourceDashboard,
	ResourceReports,
	ResourceAlerts,
	ResourceMap,
	ResourceData,
	ResourceUsers,
	ResourceSettings,
	ResourceAudit,
}

// AllResources returns every resource in display order.
func AllResources() []Resource {
	out := make([]Resource, len(resources))
	copy(out, resources)
	return out
}

// Valid reports whether r belongs to the resource vocabulary.
func (r Resource) Valid() bool {
	return resourceOrder(r) >= 0
}

// ParseResource validates s against the resource vocabulary.
func ParseResource(s string) (Resource, error) {
	r := Resource(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownResource, s)
	}
	return r, nil
}

// Action names an operation verb.
type Action string

const (
	ActionView    Action = "view"
	ActionCreate  Action = "create"
	ActionEdit    Action = "edit"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
	ActionExport  Action = "export"
	ActionManage  Action = "manage"
)

var actions = []Action{
	ActionView,
	ActionCreate,
	ActionEdit,
	ActionDelete,
	ActionApprove,
	ActionExport,
	ActionManage,
}

// AllActions returns every action in display order.
func AllActions() []Action {
	out := make([]Action, len(actions))
	copy(out, actions)
	return out
}

// Valid reports whether a belongs to the action vocabulary.
func (a Action) Valid() bool {
	return actionOrder(a) >= 0
}

// ParseAction validates s against the action vocabulary.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
	return a, nil
}

// Role names a bundle of permissions assigned to a principal.
// The zero Role is the anonymous principal and is never granted anything.
type Role string

const (
	RoleAnonymous Role = ""
	RoleAdmin     Role = "admin"
	RoleCommander Role = "commander"
	RoleAnalyst   Role = "analyst"
	RoleField     Role = "field"
)

var roles = []Role{
	RoleAdmin,
	RoleCommander,
	RoleAnalyst,
	RoleField,
}

// AllRoles returns every assignable role, most privileged first.
func AllRoles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

// Valid reports whether r is an assignable role.
func (r Role) Valid() bool {
	for _, v := range roles {
		if v == r {
			return true
		}
	}
	return false
}

// ParseRole validates s against the role vocabulary.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return RoleAnonymous, fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

func resourceOrder(r Resource) int {
	for i, v := range resources {
		if v == r {
			return i
		}
	}
	return -1
}

func actionOrder(a Action) int {
	for i, v := range actions {
		if v == a {
			return i
		}
	}
	return -1
}
