// Package httpserver runs the authorization service's HTTP listener.
//
// Server wraps net/http with graceful shutdown on context cancellation,
// SIGINT or SIGTERM, and runs reload hooks on SIGHUP so the policy store
// can be refreshed without a restart:
//
//	srv := httpserver.NewFromConfig(cfg.HTTP,
//		httpserver.WithLogger(log),
//		httpserver.WithReloadHook(store.Reload),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Liveness and Readiness return probe handlers. Readiness runs each Check
// against the request context and answers 503 on the first failure.
//
// Run wraps listen errors with ErrStart and Shutdown wraps close errors with
// ErrShutdown. Stop hooks run once on every exit path of Run, including a
// failed listen.
package httpserver
