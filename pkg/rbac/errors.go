package rbac

import "errors"

// Domain errors for RBAC operations.
var (
	// ErrInvalidPermissionFormat is returned when a permission string is not "resource:action"
	// with both parts drawn from the closed vocabularies.
	ErrInvalidPermissionFormat = errors.New("rbac.invalid_permission_format")

	// ErrUnknownResource is returned when a string does not name a resource.
	ErrUnknownResource = errors.New("rbac.unknown_resource")

	// ErrUnknownAction is returned when a string does not name an action.
	ErrUnknownAction = errors.New("rbac.unknown_action")

	// ErrUnknownRole is returned when a string does not name a role.
	ErrUnknownRole = errors.New("rbac.unknown_role")

	// ErrUndefinedPermission is returned when a grant references a permission outside the catalog.
	ErrUndefinedPermission = errors.New("rbac.undefined_permission")

	// ErrUndefinedResource is returned when a resource has no entry in the access index.
	ErrUndefinedResource = errors.New("rbac.undefined_resource")

	// ErrInsufficientPermissions is returned when required permissions are not granted.
	ErrInsufficientPermissions = errors.New("rbac.insufficient_permissions")

	// ErrRoleNotInContext is returned when no role is found in the context.
	ErrRoleNotInContext = errors.New("rbac.role_not_in_context")

	// ErrInvalidPolicyFile is returned when a policy file cannot be read or decoded.
	ErrInvalidPolicyFile = errors.New("rbac.invalid_policy_file")

	// ErrNilSource is returned when a store is created without a policy source.
	ErrNilSource = errors.New("rbac.nil_source")
)
