package authzapi

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/intelgrid/dashguard/pkg/audit"
	"github.com/intelgrid/dashguard/pkg/guard"
	"github.com/intelgrid/dashguard/pkg/logger"
	"github.com/intelgrid/dashguard/pkg/navigation"
	"github.com/intelgrid/dashguard/pkg/rbac"
)

var (
	// GridPermission protects the policy matrix routes.
	GridPermission = rbac.Permission{Resource: rbac.ResourceUsers, Action: rbac.ActionManage}
	// AuditViewPermission protects the audit trail query.
	AuditViewPermission = rbac.Permission{Resource: rbac.ResourceAudit, Action: rbac.ActionView}
	// AuditExportPermission protects the audit trail export.
	AuditExportPermission = rbac.Permission{Resource: rbac.ResourceAudit, Action: rbac.ActionExport}
)

type api struct {
	policy guard.PolicyProvider
	guard  *guard.Guard
	items  []navigation.Item
	trail  audit.Reader
	log    *slog.Logger
}

// Option configures the router.
type Option func(*api)

// WithGuard replaces the guard used for authentication and the grid check.
func WithGuard(g *guard.Guard) Option {
	return func(a *api) {
		if g != nil {
			a.guard = g
		}
	}
}

// WithNavigation replaces the sidebar served by /me/navigation.
func WithNavigation(items []navigation.Item) Option {
	return func(a *api) { a.items = append([]navigation.Item(nil), items...) }
}

// WithAuditReader enables the /audit routes.
func WithAuditReader(r audit.Reader) Option {
	return func(a *api) { a.trail = r }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *api) {
		if l != nil {
			a.log = l
		}
	}
}

// Router returns the authorization API backed by the live policy p.
func Router(p guard.PolicyProvider, opts ...Option) chi.Router {
	a := &api{
		policy: p,
		items:  navigation.DefaultItems(),
		log:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.guard == nil {
		a.guard = guard.New(p, guard.WithPublicPaths(), guard.WithLogger(a.log))
	}
	a.log = a.log.With(logger.Component("authzapi"))

	r := chi.NewRouter()
	r.Route("/me", func(me chi.Router) {
		me.Use(a.guard.Authenticated())
		me.Get("/permissions", a.permissions)
		me.Get("/navigation", a.navigation)
		me.Post("/check", a.check)
	})
	r.Route("/policy", func(pol chi.Router) {
		pol.Use(a.guard.RequirePermission(GridPermission))
		pol.Get("/grid", a.grid)
		pol.Get("/roles/{role}", a.roleGrid)
	})
	if a.trail != nil {
		r.Route("/audit", func(au chi.Router) {
			au.With(a.guard.RequirePermission(AuditViewPermission)).Get("/events", a.auditEvents)
			au.With(a.guard.RequirePermission(AuditExportPermission)).Get("/export", a.auditExport)
		})
	}
	return r
}
