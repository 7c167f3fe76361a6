// Package guard enforces role permissions on HTTP routes.
//
// A Guard reads the caller's role from the request context (see
// principal.Middleware) and consults the live policy in an rbac.Store on
// every request, so a reload takes effect without rebuilding the router.
//
//	g := guard.New(store, guard.WithLogger(log))
//	r.With(g.RequirePermission(rbac.MustParsePermission("reports:approve"))).
//		Post("/api/reports/{id}/approve", approve)
//	r.With(g.RequireAccess(rbac.ResourceAudit)).Get("/audit", auditPage)
//
// Requests without a role are unauthenticated: API calls (paths under
// /api/ or an Accept header asking for JSON) get 401 and pages are
// redirected to the login path with a redirect query parameter. Requests
// with a role that fails the check are passed to the denied handler, which
// answers 403 with the JSON error envelope unless replaced.
//
// Paths listed as public bypass every check. "/" is matched exactly; other
// entries match themselves and anything below them.
package guard
