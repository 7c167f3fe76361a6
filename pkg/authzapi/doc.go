// Package authzapi exposes the policy to the dashboard front end over HTTP.
//
// Routes (relative to the mount point):
//
//	GET  /me/permissions     role and sorted effective permissions
//	GET  /me/navigation      sidebar items the role may open
//	POST /me/check           evaluate permissions in "one", "any" or "all" mode
//	GET  /policy/grid        full role x resource x action matrix (users:manage)
//	GET  /policy/roles/{role} one role's matrix (users:manage)
//	GET  /audit/events       recent decisions, filterable (audit:view)
//	GET  /audit/export       decisions as NDJSON (audit:export)
//
// Every /me route requires an authenticated role. The /audit routes exist
// only when an audit reader is configured. Bodies other than the export use
// the response.Envelope shape.
package authzapi
