package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/intelgrid/dashguard/pkg/audit"
	"github.com/intelgrid/dashguard/pkg/authzapi"
	"github.com/intelgrid/dashguard/pkg/clientip"
	"github.com/intelgrid/dashguard/pkg/guard"
	"github.com/intelgrid/dashguard/pkg/httpserver"
	"github.com/intelgrid/dashguard/pkg/principal"
	"github.com/intelgrid/dashguard/pkg/rbac"
	"github.com/intelgrid/dashguard/pkg/requestid"
)

type app struct {
	store   *rbac.Store
	trail   *audit.MemoryStorage
	writer  *audit.AsyncWriter
	handler http.Handler
}

func newApp(ctx context.Context, cfg Config, log *slog.Logger) (*app, error) {
	source := rbac.DefaultSource()
	if cfg.PolicyFile != "" {
		source = rbac.NewFileSource(cfg.PolicyFile)
	}
	store, err := rbac.NewStore(ctx, source, rbac.WithStoreLogger(log))
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}

	resolver, err := principal.NewResolver([]byte(cfg.TokenSecret),
		principal.WithCookieName(cfg.CookieName),
		principal.WithIssuer(cfg.TokenIssuer),
	)
	if err != nil {
		return nil, fmt.Errorf("token resolver: %w", err)
	}

	capacity := cfg.AuditCapacity
	if capacity <= 0 {
		capacity = 10_000
	}
	trail := audit.NewMemoryStorage(capacity)
	writer := audit.NewAsyncWriter(trail, audit.AsyncOptions{Logger: log})
	recorder := audit.NewRecorder(writer,
		audit.WithSubjectExtractor(func(ctx context.Context) string { return principal.FromContext(ctx).Subject }),
		audit.WithRequestIDExtractor(requestid.FromContext),
		audit.WithIPExtractor(clientip.FromContext),
		audit.WithRecorderLogger(log),
	)

	g := guard.New(store,
		guard.WithLoginPath(cfg.LoginPath),
		guard.WithPublicPaths(append(guard.DefaultPublicPaths(), "/healthz", "/readyz")...),
		guard.WithAuditor(recorder),
		guard.WithLogger(log),
	)

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		clientip.Middleware(cfg.TrustedProxyHeaders...),
		principal.Middleware(resolver, log),
	)
	r.Get("/healthz", httpserver.Liveness())
	r.Get("/readyz", httpserver.Readiness(log, store.Check))
	r.Mount("/api/authz", authzapi.Router(store,
		authzapi.WithGuard(g),
		authzapi.WithAuditReader(trail),
		authzapi.WithLogger(log),
	))

	return &app{store: store, trail: trail, writer: writer, handler: r}, nil
}
