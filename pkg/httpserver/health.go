package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/intelgrid/dashguard/pkg/logger"
)

// Check reports whether a dependency is ready to serve traffic.
type Check func(context.Context) error

// Liveness answers 200 "ALIVE" unconditionally.
func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ALIVE"))
	}
}

// Readiness answers 200 "READY" when every check passes and 503
// "NOT_READY" on the first failure.
func Readiness(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.WarnContext(r.Context(), "readiness check failed",
					logger.Component("httpserver"),
					logger.Error(errors.Join(ErrNotReady, err)),
				)
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
