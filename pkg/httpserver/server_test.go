package httpserver_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intelgrid/dashguard/pkg/httpserver"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err, "unable to get free port")
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func waitDone(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err, "run")
	case <-time.After(2 * time.Second):
		require.Fail(t, "run did not finish")
	}
}

func TestRunAndCancel(t *testing.T) {
	t.Parallel()
	addr := freeAddr(t)
	started := make(chan struct{})
	var stopped atomic.Bool
	srv := httpserver.New(
		httpserver.WithAddr(addr),
		httpserver.WithShutdownTimeout(100*time.Millisecond),
		httpserver.WithStartHook(func(got string) {
			assert.Equal(t, addr, got)
			close(started)
		}),
		httpserver.WithStopHook(func() { stopped.Store(true) }),
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))
	}()
	<-started

	var resp *http.Response
	var err error
	for range 50 {
		resp, err = http.Get("http://" + addr)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	cancel()
	waitDone(t, done)
	assert.True(t, stopped.Load(), "stop hook not executed")
	require.NoError(t, srv.Shutdown(context.Background()), "second shutdown is a no-op")
}

func TestStartError(t *testing.T) {
	t.Parallel()
	var stopped atomic.Int32
	srv := httpserver.New(
		httpserver.WithAddr(":invalid"),
		httpserver.WithStopHook(func() { stopped.Add(1) }),
	)
	err := srv.Run(context.Background(), nil)
	assert.ErrorIs(t, err, httpserver.ErrStart)
	assert.Equal(t, int32(1), stopped.Load(), "stop hooks run when listening fails")

	require.NoError(t, srv.Shutdown(context.Background()))
	assert.Equal(t, int32(1), stopped.Load())
}

func TestAlreadyRunning(t *testing.T) {
	t.Parallel()
	started := make(chan struct{})
	srv := httpserver.New(
		httpserver.WithAddr(freeAddr(t)),
		httpserver.WithShutdownTimeout(50*time.Millisecond),
		httpserver.WithStartHook(func(string) { close(started) }),
	)
	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background(), http.NewServeMux()) }()
	<-started

	err := srv.Run(context.Background(), http.NewServeMux())
	assert.ErrorIs(t, err, httpserver.ErrStart)

	require.NoError(t, srv.Shutdown(context.Background()))
	waitDone(t, done)
}

func TestWithServer(t *testing.T) {
	t.Parallel()
	addr := freeAddr(t)
	hs := &http.Server{ReadTimeout: time.Second}
	started := make(chan struct{})
	srv := httpserver.New(
		httpserver.WithServer(hs),
		httpserver.WithAddr(addr),
		httpserver.WithReadTimeout(5*time.Second),
		httpserver.WithWriteTimeout(2*time.Second),
		httpserver.WithIdleTimeout(3*time.Second),
		httpserver.WithStartHook(func(string) { close(started) }),
	)
	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background(), nil) }()
	<-started

	assert.Equal(t, addr, hs.Addr)
	assert.Equal(t, time.Second, hs.ReadTimeout, "preset field wins")
	assert.Equal(t, 2*time.Second, hs.WriteTimeout)
	assert.Equal(t, 3*time.Second, hs.IdleTimeout)
	assert.NotNil(t, hs.Handler)

	require.NoError(t, srv.Shutdown(context.Background()))
	waitDone(t, done)
}

func TestReload(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	failing := errors.New("policy source unavailable")
	srv := httpserver.New(
		httpserver.WithReloadHook(func(context.Context) error {
			calls.Add(1)
			return nil
		}),
		httpserver.WithReloadHook(func(context.Context) error { return failing }),
	)

	err := srv.Reload(context.Background())
	assert.ErrorIs(t, err, httpserver.ErrReload)
	assert.ErrorIs(t, err, failing)
	assert.Equal(t, int32(1), calls.Load())

	require.NoError(t, httpserver.New().Reload(context.Background()))
}

// Not parallel: the signal is delivered to the whole test process.
func TestSignalHUPReloads(t *testing.T) {
	reloaded := make(chan struct{}, 1)
	started := make(chan struct{})
	srv := httpserver.New(
		httpserver.WithAddr(freeAddr(t)),
		httpserver.WithShutdownTimeout(50*time.Millisecond),
		httpserver.WithStartHook(func(string) { close(started) }),
		httpserver.WithReloadHook(func(context.Context) error {
			reloaded <- struct{}{}
			return nil
		}),
	)
	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background(), http.NewServeMux()) }()
	<-started

	p, err := os.FindProcess(os.Getpid())
	require.NoError(t, err)
	require.NoError(t, p.Signal(syscall.SIGHUP))

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		require.Fail(t, "reload hook not executed")
	}

	require.NoError(t, srv.Shutdown(context.Background()))
	waitDone(t, done)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()
	addr := freeAddr(t)
	hs := &http.Server{}
	started := make(chan struct{})
	srv := httpserver.NewFromConfig(httpserver.Config{
		Addr:        addr,
		ReadTimeout: 7 * time.Second,
	}, httpserver.WithServer(hs), httpserver.WithStartHook(func(string) { close(started) }))

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background(), nil) }()
	<-started
	assert.Equal(t, addr, hs.Addr)
	assert.Equal(t, 7*time.Second, hs.ReadTimeout)
	assert.Zero(t, hs.WriteTimeout)

	require.NoError(t, srv.Shutdown(context.Background()))
	waitDone(t, done)
}

func TestOptionPanics(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		fn   func()
	}{
		{"addr", func() { httpserver.WithAddr("") }},
		{"read", func() { httpserver.WithReadTimeout(-time.Second) }},
		{"write", func() { httpserver.WithWriteTimeout(0) }},
		{"idle", func() { httpserver.WithIdleTimeout(-time.Second) }},
		{"shutdown", func() { httpserver.WithShutdownTimeout(0) }},
		{"server", func() { httpserver.WithServer(nil) }},
		{"start hook", func() { httpserver.WithStartHook(nil) }},
		{"stop hook", func() { httpserver.WithStopHook(nil) }},
		{"reload hook", func() { httpserver.WithReloadHook(nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Panics(t, tt.fn)
		})
	}
	assert.NotPanics(t, func() { httpserver.New(httpserver.WithLogger(nil)) })
}

func TestHealthHandlers(t *testing.T) {
	t.Parallel()

	probe := func(h http.Handler) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		return rec
	}

	rec := probe(httpserver.Liveness())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ALIVE", rec.Body.String())

	ok := func(context.Context) error { return nil }
	rec = probe(httpserver.Readiness(nil, ok, ok))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "READY", rec.Body.String())

	var after atomic.Bool
	rec = probe(httpserver.Readiness(nil,
		func(context.Context) error { return errors.New("no policy") },
		func(context.Context) error { after.Store(true); return nil },
	))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "NOT_READY", rec.Body.String())
	assert.False(t, after.Load(), "checks stop at first failure")
}
