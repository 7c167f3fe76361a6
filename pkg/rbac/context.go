package rbac

import (
	"context"
	"log/slog"

	"github.com/intelgrid/dashguard/pkg/logger"
)

// roleCtxKey is the context key for storing role information.
type roleCtxKey struct{}

// SetRoleToContext stores the principal's role in the context.
func SetRoleToContext(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, roleCtxKey{}, role)
}

// RoleFromContext retrieves the principal's role from the context.
// A missing or anonymous role reports false.
func RoleFromContext(ctx context.Context) (Role, bool) {
	role, ok := ctx.Value(roleCtxKey{}).(Role)
	if !ok || role == RoleAnonymous {
		return RoleAnonymous, false
	}
	return role, true
}

// LoggerExtractor adds the request's role to log records.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if role, ok := RoleFromContext(ctx); ok {
			return logger.Role(role), true
		}
		return slog.Attr{}, false
	}
}
