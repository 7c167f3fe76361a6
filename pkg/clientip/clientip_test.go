package clientip_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intelgrid/dashguard/pkg/clientip"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		remote  string
		headers map[string]string
		trusted []string
		want    string
	}{
		{"remote addr", "10.0.0.5:4242", nil, nil, "10.0.0.5"},
		{"remote addr without port", "10.0.0.5", nil, nil, "10.0.0.5"},
		{"ipv6 remote", "[2001:db8::1]:443", nil, nil, "2001:db8::1"},
		{"untrusted header ignored", "10.0.0.5:1", map[string]string{"X-Forwarded-For": "203.0.113.7"}, nil, "10.0.0.5"},
		{"first forwarded entry", "10.0.0.5:1", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, clientip.DefaultTrustedHeaders, "203.0.113.7"},
		{"skips garbage entries", "10.0.0.5:1", map[string]string{"X-Forwarded-For": "unknown, 198.51.100.2"}, clientip.DefaultTrustedHeaders, "198.51.100.2"},
		{"header order", "10.0.0.5:1", map[string]string{"X-Real-IP": "198.51.100.9", "X-Forwarded-For": "203.0.113.7"}, []string{"X-Real-IP", "X-Forwarded-For"}, "198.51.100.9"},
		{"mapped ipv4", "[::ffff:192.0.2.1]:80", nil, nil, "192.0.2.1"},
		{"nothing parses", "pipe", nil, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientip.Resolve(req, tt.trusted...))
		})
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()
	var got string
	h := clientip.Middleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = clientip.FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "203.0.113.7", got)
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()
	extract := clientip.LoggerExtractor()

	_, ok := extract(context.Background())
	assert.False(t, ok)

	attr, ok := extract(clientip.WithContext(context.Background(), "192.0.2.1"))
	require.True(t, ok)
	assert.Equal(t, "client_ip", attr.Key)
	assert.Equal(t, "192.0.2.1", attr.Value.String())
}
