package rbac

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/intelgrid/dashguard/pkg/logger"
)

// Store serves the current Authorizer and replaces it atomically on reload.
// Readers never block; a failed reload keeps the previous policy.
type Store struct {
	source  Source
	catalog Catalog
	log     *slog.Logger

	current atomic.Pointer[Authorizer]
	version atomic.Uint64
	reload  sync.Mutex
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCatalog sets the vocabulary loaded grants are validated against.
func WithCatalog(c Catalog) StoreOption {
	return func(s *Store) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithStoreLogger sets the logger for reload events and undefined-resource warnings.
func WithStoreLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// NewStore loads the initial policy from source.
func NewStore(ctx context.Context, source Source, opts ...StoreOption) (*Store, error) {
	if source == nil {
		return nil, ErrNilSource
	}
	s := &Store{
		source:  source,
		catalog: DefaultCatalog(),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Authorizer returns the authorizer for the current policy.
func (s *Store) Authorizer() *Authorizer {
	return s.current.Load()
}

// Version returns how many policies have been installed, starting at 1.
func (s *Store) Version() uint64 {
	return s.version.Load()
}

// Reload reads the source, validates the result and swaps it in.
// Concurrent reloads are serialized; readers keep using the old policy until the swap.
func (s *Store) Reload(ctx context.Context) error {
	s.reload.Lock()
	defer s.reload.Unlock()

	policy, err := s.load(ctx)
	if err != nil {
		return err
	}

	s.current.Store(NewAuthorizer(policy, WithLogger(s.log)))
	v := s.version.Add(1)
	s.log.InfoContext(ctx, "policy installed", logger.Component("rbac"), slog.Uint64("policy_version", v))
	return nil
}

// Check reads and validates the source like Reload without installing it.
func (s *Store) Check(ctx context.Context) error {
	grants, err := s.source.Load(ctx)
	if err != nil {
		return err
	}
	_, err = NewPolicy(s.catalog, grants)
	return err
}

func (s *Store) load(ctx context.Context) (*Policy, error) {
	grants, err := s.source.Load(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to load policy", logger.Component("rbac"), logger.Error(err))
		return nil, err
	}
	policy, err := NewPolicy(s.catalog, grants)
	if err != nil {
		s.log.ErrorContext(ctx, "rejected invalid policy", logger.Component("rbac"), logger.Error(err))
		return nil, err
	}
	return policy, nil
}
