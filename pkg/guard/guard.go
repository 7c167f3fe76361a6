package guard

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/intelgrid/dashguard/pkg/audit"
	"github.com/intelgrid/dashguard/pkg/logger"
	"github.com/intelgrid/dashguard/pkg/navigation"
	"github.com/intelgrid/dashguard/pkg/rbac"
	"github.com/intelgrid/dashguard/pkg/response"
)

// PolicyProvider hands out the current authorizer. *rbac.Store implements it.
type PolicyProvider interface {
	Authorizer() *rbac.Authorizer
}

// Guard builds authorization middleware over a live policy.
type Guard struct {
	policy    PolicyProvider
	roleFrom  RoleExtractor
	loginPath string
	public    []string
	denied    http.Handler
	auditor   Auditor
	log       *slog.Logger
}

// New returns a Guard reading policy decisions from p.
func New(p PolicyProvider, opts ...Option) *Guard {
	g := &Guard{
		policy:    p,
		roleFrom:  rbac.RoleFromContext,
		loginPath: DefaultLoginPath,
		public:    DefaultPublicPaths(),
		denied:    http.HandlerFunc(forbidden),
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.With(logger.Component("guard"))
	return g
}

type decision func(auth *rbac.Authorizer, role rbac.Role) error

// target describes what a middleware checks, for logs and audit events.
type target struct {
	attr       slog.Attr
	permission string
	resource   string
}

// RequirePermission allows roles holding p.
func (g *Guard) RequirePermission(p rbac.Permission) func(http.Handler) http.Handler {
	return g.middleware(func(auth *rbac.Authorizer, role rbac.Role) error {
		return auth.Authorize(role, p)
	}, target{attr: logger.Permission(p), permission: p.String(), resource: string(p.Resource)})
}

// RequireAccess allows roles that can open res.
func (g *Guard) RequireAccess(res rbac.Resource) func(http.Handler) http.Handler {
	return g.middleware(func(auth *rbac.Authorizer, role rbac.Role) error {
		return auth.AuthorizeAccess(role, res)
	}, target{attr: logger.Resource(res), resource: string(res)})
}

// RequireAny allows roles holding at least one of ps. An empty list denies.
func (g *Guard) RequireAny(ps ...rbac.Permission) func(http.Handler) http.Handler {
	return g.middleware(func(auth *rbac.Authorizer, role rbac.Role) error {
		return auth.AuthorizeAny(role, ps...)
	}, listTarget(ps))
}

// RequireAll allows roles holding every one of ps.
func (g *Guard) RequireAll(ps ...rbac.Permission) func(http.Handler) http.Handler {
	return g.middleware(func(auth *rbac.Authorizer, role rbac.Role) error {
		return auth.AuthorizeAll(role, ps...)
	}, listTarget(ps))
}

// Authenticated only requires a role.
func (g *Guard) Authenticated() func(http.Handler) http.Handler {
	return g.middleware(nil, target{})
}

func listTarget(ps []rbac.Permission) target {
	list := rbac.NewPermissionSet(ps...).Strings()
	return target{attr: slog.Any("permissions", list), permission: strings.Join(list, ",")}
}

// RequireNavigation guards page routes by the resource of the sidebar item
// owning the path. Paths outside the sidebar only need authentication.
func (g *Guard) RequireNavigation(items []navigation.Item) func(http.Handler) http.Handler {
	items = append([]navigation.Item(nil), items...)
	return func(next http.Handler) http.Handler {
		authOnly := g.Authenticated()(next)
		byHref := make(map[string]http.Handler, len(items))
		for _, it := range items {
			byHref[it.Href] = g.RequireAccess(it.Resource)(next)
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if it, ok := navigation.Match(items, r.URL.Path); ok {
				byHref[it.Href].ServeHTTP(w, r)
				return
			}
			authOnly.ServeHTTP(w, r)
		})
	}
}

func (g *Guard) middleware(decide decision, tgt target) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if g.isPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			role, ok := g.roleFrom(ctx)
			if !ok {
				g.log.InfoContext(ctx, "unauthenticated request", logger.Path(r.URL.Path))
				g.unauthenticated(w, r)
				return
			}
			if decide == nil {
				next.ServeHTTP(w, r)
				return
			}

			if err := decide(g.policy.Authorizer(), role); err != nil {
				g.log.LogAttrs(ctx, slog.LevelInfo, "access denied",
					logger.Role(role), logger.Path(r.URL.Path), logger.Decision(false), tgt.attr, logger.Error(err))
				if g.auditor != nil {
					g.auditor.Record(ctx, audit.Event{
						Role:       string(role),
						Decision:   audit.DecisionDeny,
						Permission: tgt.permission,
						Resource:   tgt.resource,
						Method:     r.Method,
						Path:       r.URL.Path,
						Reason:     err.Error(),
					})
				}
				g.denied.ServeHTTP(w, r.WithContext(withDenial(ctx, err)))
				return
			}

			g.log.LogAttrs(ctx, slog.LevelDebug, "access granted",
				logger.Role(role), logger.Path(r.URL.Path), logger.Decision(true), tgt.attr)
			next.ServeHTTP(w, r)
		})
	}
}

func (g *Guard) isPublic(path string) bool {
	for _, p := range g.public {
		if p == "/" {
			if path == "/" {
				return true
			}
			continue
		}
		if path == p || strings.HasPrefix(path, strings.TrimSuffix(p, "/")+"/") {
			return true
		}
	}
	return false
}

func (g *Guard) unauthenticated(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		response.Error(w, response.ErrUnauthorized)
		return
	}
	loc := g.loginPath + "?redirect=" + url.QueryEscape(r.URL.Path)
	http.Redirect(w, r, loc, http.StatusTemporaryRedirect)
}

func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

func forbidden(w http.ResponseWriter, _ *http.Request) {
	response.Error(w, response.ErrForbidden.WithMessage("insufficient permissions"))
}

type denialCtxKey struct{}

func withDenial(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, denialCtxKey{}, err)
}

// DenialFromContext returns the reason a request was denied, inside a
// denied handler.
func DenialFromContext(ctx context.Context) error {
	err, _ := ctx.Value(denialCtxKey{}).(error)
	return err
}
