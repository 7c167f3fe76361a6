package principal

import (
	"context"
	"log/slog"

	"github.com/intelgrid/dashguard/pkg/logger"
	"github.com/intelgrid/dashguard/pkg/rbac"
)

// Principal is the authenticated caller.
type Principal struct {
	Subject string    `json:"subject"`
	Role    rbac.Role `json:"role"`
}

// Anonymous returns the principal of a request without a valid token.
func Anonymous() Principal { return Principal{} }

// Authenticated reports whether a token identified the caller.
func (p Principal) Authenticated() bool { return p.Subject != "" }

type principalCtxKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

// FromContext returns the principal stored in ctx or Anonymous.
func FromContext(ctx context.Context) Principal {
	if ctx == nil {
		return Anonymous()
	}
	p, ok := ctx.Value(principalCtxKey{}).(Principal)
	if !ok {
		return Anonymous()
	}
	return p
}

// LoggerExtractor adds the caller's subject to log records.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		p := FromContext(ctx)
		if !p.Authenticated() {
			return slog.Attr{}, false
		}
		return logger.Subject(p.Subject), true
	}
}
