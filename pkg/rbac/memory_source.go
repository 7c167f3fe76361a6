package rbac

import "context"

// Source provides the role-permission table.
type Source interface {
	// Load returns the grants table. The caller validates it.
	Load(ctx context.Context) (Grants, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (Grants, error)

// Load calls f.
func (f SourceFunc) Load(ctx context.Context) (Grants, error) {
	return f(ctx)
}

// inMemSource serves a fixed table held in memory.
type inMemSource struct {
	grants Grants
}

// NewInMemSource creates a source from grants.
// The input is deep-copied so later changes to it are not observed.
func NewInMemSource(grants Grants) Source {
	return &inMemSource{grants: grants.clone()}
}

// DefaultSource serves DefaultGrants.
func DefaultSource() Source {
	return NewInMemSource(DefaultGrants())
}

// Load returns a copy of the table.
func (s *inMemSource) Load(ctx context.Context) (Grants, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.grants.clone(), nil
}
