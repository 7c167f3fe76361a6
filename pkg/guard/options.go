package guard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/intelgrid/dashguard/pkg/audit"
	"github.com/intelgrid/dashguard/pkg/rbac"
)

// Auditor receives denied decisions. *audit.Recorder implements it.
type Auditor interface {
	Record(ctx context.Context, e audit.Event)
}

// RoleExtractor reads the caller's role from a request context.
type RoleExtractor func(ctx context.Context) (rbac.Role, bool)

// Option configures a Guard.
type Option func(*Guard)

// DefaultLoginPath is where unauthenticated page requests are sent.
const DefaultLoginPath = "/auth/login"

// DefaultPublicPaths returns the routes reachable without a session.
func DefaultPublicPaths() []string {
	return []string{
		"/",
		"/auth/login",
		"/auth/register",
		"/auth/forgot-password",
		"/auth/reset-password",
		"/api/auth/login",
		"/api/auth/register",
		"/api/auth/reset-password",
	}
}

// WithRoleExtractor replaces rbac.RoleFromContext.
func WithRoleExtractor(fn RoleExtractor) Option {
	return func(g *Guard) {
		if fn != nil {
			g.roleFrom = fn
		}
	}
}

// WithLoginPath sets the redirect target for unauthenticated page requests.
func WithLoginPath(path string) Option {
	return func(g *Guard) {
		if path != "" {
			g.loginPath = path
		}
	}
}

// WithPublicPaths replaces the public path list.
func WithPublicPaths(paths ...string) Option {
	return func(g *Guard) {
		g.public = append([]string(nil), paths...)
	}
}

// WithDeniedHandler replaces the 403 response. The denial reason is
// available through DenialFromContext.
func WithDeniedHandler(h http.Handler) Option {
	return func(g *Guard) {
		if h != nil {
			g.denied = h
		}
	}
}

// WithLogger sets the decision logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Guard) {
		if l != nil {
			g.log = l
		}
	}
}

// WithAuditor records every denial.
func WithAuditor(a Auditor) Option {
	return func(g *Guard) { g.auditor = a }
}
