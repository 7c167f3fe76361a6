package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/intelgrid/dashguard/pkg/logger"
)

type config struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	server          *http.Server
	logger          *slog.Logger
	startHooks      []func(string)
	stopHooks       []func()
	reloadHooks     []func(context.Context) error
}

func defaultConfig() *config {
	return &config{
		addr:            ":8080",
		shutdownTimeout: 10 * time.Second,
		logger:          logger.Discard(),
	}
}

// Server is an http.Server with signal-driven shutdown and reload.
type Server struct {
	cfg  *config
	once sync.Once
	mu   sync.Mutex
	srv  *http.Server
}

// New returns a configured Server.
func New(opts ...Option) *Server {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Server{cfg: cfg}
}

// Run serves handler and blocks until ctx is done, SIGINT or SIGTERM is
// received, or Shutdown is called. SIGHUP triggers Reload and keeps serving.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	srv, err := s.prepare(handler)
	if err != nil {
		return err
	}
	log := s.cfg.logger.With(logger.Component("httpserver"))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	log.InfoContext(ctx, "http server listening", slog.String("addr", srv.Addr))
	for _, h := range s.cfg.startHooks {
		h(srv.Addr)
	}

loop:
	for {
		select {
		case <-hup:
			if err := s.Reload(ctx); err != nil {
				log.ErrorContext(ctx, "reload failed", logger.Error(err))
			}
		case <-ctx.Done():
			log.InfoContext(ctx, "context done, shutting down")
			_ = s.Shutdown(context.WithoutCancel(ctx))
			err = <-errCh
			break loop
		case sig := <-stop:
			log.InfoContext(ctx, "signal received, shutting down", slog.String("signal", sig.String()))
			_ = s.Shutdown(context.WithoutCancel(ctx))
			err = <-errCh
			break loop
		case err = <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				log.ErrorContext(ctx, "http server failed", logger.Error(err))
			}
			_ = s.Shutdown(context.WithoutCancel(ctx))
			break loop
		}
	}

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrStart, err)
	}
	return nil
}

func (s *Server) prepare(handler http.Handler) (*http.Server, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return nil, errors.Join(ErrStart, errors.New("server already running"))
	}

	srv := s.cfg.server
	if srv == nil {
		srv = &http.Server{}
	}
	if srv.Addr == "" {
		srv.Addr = s.cfg.addr
	}
	if srv.ReadTimeout == 0 {
		srv.ReadTimeout = s.cfg.readTimeout
	}
	if srv.WriteTimeout == 0 {
		srv.WriteTimeout = s.cfg.writeTimeout
	}
	if srv.IdleTimeout == 0 {
		srv.IdleTimeout = s.cfg.idleTimeout
	}
	srv.Handler = handler
	s.srv = srv
	return srv, nil
}

// Reload runs every reload hook and joins their errors with ErrReload.
func (s *Server) Reload(ctx context.Context) error {
	var errs []error
	for _, h := range s.cfg.reloadHooks {
		if err := h(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrReload}, errs...)...)
	}
	return nil
}

// Shutdown gracefully stops a running server. Repeated calls are no-ops.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		srv := s.srv
		s.mu.Unlock()
		if srv == nil {
			return
		}

		ctx, cancel := context.WithTimeout(ctx, s.cfg.shutdownTimeout)
		defer cancel()
		err = srv.Shutdown(ctx)
		for _, h := range s.cfg.stopHooks {
			h()
		}
	})

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrShutdown, err)
	}
	return nil
}
