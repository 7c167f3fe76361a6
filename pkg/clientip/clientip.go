// Package clientip resolves the caller's address for decision logs and the
// audit trail.
//
// Proxy headers are only consulted when listed as trusted, in order; the
// connection's remote address is the fallback. X-Forwarded-For yields its
// first valid entry.
package clientip

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/intelgrid/dashguard/pkg/logger"
)

// DefaultTrustedHeaders are read when no headers are configured.
var DefaultTrustedHeaders = []string{"X-Forwarded-For", "X-Real-IP"}

// Resolve returns the normalized client address of r, consulting headers in
// order before RemoteAddr. It returns "" when nothing parses.
func Resolve(r *http.Request, headers ...string) string {
	for _, h := range headers {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		for _, part := range strings.Split(v, ",") {
			if ip := parse(part); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parse(r.RemoteAddr)
	}
	return parse(host)
}

func parse(s string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return addr.Unmap().String()
}

type ipCtxKey struct{}

// WithContext stores ip in ctx.
func WithContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ipCtxKey{}, ip)
}

// FromContext returns the stored client address or "".
func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(ipCtxKey{}).(string)
	return ip
}

// Middleware stores the client address of every request. With no headers
// DefaultTrustedHeaders are used.
func Middleware(headers ...string) func(http.Handler) http.Handler {
	if len(headers) == 0 {
		headers = DefaultTrustedHeaders
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), Resolve(r, headers...))))
		})
	}
}

// LoggerExtractor adds the client address to log records under "client_ip".
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if ip := FromContext(ctx); ip != "" {
			return slog.String("client_ip", ip), true
		}
		return slog.Attr{}, false
	}
}
