package principal

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/intelgrid/dashguard/pkg/logger"
	"github.com/intelgrid/dashguard/pkg/rbac"
)

// Middleware resolves the caller and stores the principal and role in the
// request context. It never rejects a request.
func Middleware(res *Resolver, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Discard()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := res.Resolve(r)
			if err != nil && !errors.Is(err, ErrNoToken) {
				log.DebugContext(r.Context(), "session token rejected",
					logger.Component("principal"),
					logger.Path(r.URL.Path),
					logger.Error(err),
				)
			}

			ctx := WithPrincipal(r.Context(), p)
			ctx = rbac.SetRoleToContext(ctx, p.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
