// Package rbac provides the role-based access control engine of the
// intelligence dashboard.
//
// The policy grammar is closed: resources, actions and roles are fixed
// enumerations, and a permission is the value pair (resource, action),
// written "resource:action". The role-permission table is the single
// source of truth; it is validated against a catalog of meaningful
// permissions when a Policy is built and never changes afterwards.
//
// Key concepts:
//
//   - Permission: a (Resource, Action) value, parsed with ParsePermission
//   - Catalog: the vocabulary of valid permissions per resource
//   - Grants: the table mapping each Role to its permissions
//   - Policy: validated catalog + grants + resource-access index
//   - Authorizer: pure decision queries over one Policy
//   - Store: atomically swappable Authorizer for policy reloads
//
// Decision queries never fail. Unknown or anonymous roles hold no
// permissions, so every query for them is false. Only construction
// inputs (permission strings, policy files) return errors.
//
// Basic usage:
//
//	store, err := rbac.NewStore(ctx, rbac.DefaultSource())
//	if err != nil {
//	    return err
//	}
//
//	auth := store.Authorizer()
//	if auth.Can(rbac.RoleAnalyst, rbac.MustParsePermission("data:edit")) {
//	    // render the edit control
//	}
//
//	// Navigation gating: any permission on the resource grants the area.
//	if !auth.CanAccess(rbac.RoleField, rbac.ResourceUsers) {
//	    // hide the users entry
//	}
//
//	// Composition
//	auth.CanAny(role, export, approve) // false for an empty list
//	auth.CanAll(role, view, edit)      // true for an empty list
//
//	// Reload from a policy file without blocking readers
//	store, _ = rbac.NewStore(ctx, rbac.NewFileSource("policy.yaml"))
//	err = store.Reload(ctx)
package rbac
