package rbac_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intelgrid/dashguard/pkg/rbac"
)

func TestNewStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("nil source", func(t *testing.T) {
		_, err := rbac.NewStore(ctx, nil)
		assert.ErrorIs(t, err, rbac.ErrNilSource)
	})

	t.Run("invalid initial policy", func(t *testing.T) {
		_, err := rbac.NewStore(ctx, rbac.NewInMemSource(rbac.Grants{
			rbac.RoleField: {{Resource: rbac.ResourceDashboard, Action: rbac.ActionDelete}},
		}))
		assert.ErrorIs(t, err, rbac.ErrUndefinedPermission)
	})

	t.Run("default source", func(t *testing.T) {
		store, err := rbac.NewStore(ctx, rbac.DefaultSource())
		require.NoError(t, err)
		assert.Equal(t, uint64(1), store.Version())
		assert.True(t, store.Authorizer().Can(rbac.RoleAnalyst, perm("data:edit")))
	})

	t.Run("in-memory source is copied", func(t *testing.T) {
		grants := rbac.Grants{rbac.RoleField: {perm("map:view")}}
		store, err := rbac.NewStore(ctx, rbac.NewInMemSource(grants))
		require.NoError(t, err)

		grants[rbac.RoleField][0] = perm("users:manage")
		require.NoError(t, store.Reload(ctx))
		assert.True(t, store.Authorizer().Can(rbac.RoleField, perm("map:view")))
		assert.False(t, store.Authorizer().Can(rbac.RoleField, perm("users:manage")))
	})
}

func TestStore_Reload(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var current atomic.Value
	current.Store(rbac.Grants{rbac.RoleField: {perm("map:view")}})
	var fail atomic.Bool

	source := rbac.SourceFunc(func(context.Context) (rbac.Grants, error) {
		if fail.Load() {
			return nil, errors.New("source unavailable")
		}
		return current.Load().(rbac.Grants), nil
	})

	store, err := rbac.NewStore(ctx, source)
	require.NoError(t, err)
	before := store.Authorizer()

	current.Store(rbac.Grants{rbac.RoleField: {perm("map:view"), perm("map:edit")}})
	require.NoError(t, store.Reload(ctx))
	assert.Equal(t, uint64(2), store.Version())
	assert.True(t, store.Authorizer().Can(rbac.RoleField, perm("map:edit")))
	assert.False(t, before.Can(rbac.RoleField, perm("map:edit")), "old authorizer must stay immutable")

	t.Run("failed load keeps previous policy", func(t *testing.T) {
		fail.Store(true)
		defer fail.Store(false)

		require.Error(t, store.Reload(ctx))
		assert.Equal(t, uint64(2), store.Version())
		assert.True(t, store.Authorizer().Can(rbac.RoleField, perm("map:edit")))
	})

	t.Run("invalid policy keeps previous policy", func(t *testing.T) {
		current.Store(rbac.Grants{rbac.Role("intern"): {perm("map:view")}})
		err := store.Reload(ctx)
		assert.ErrorIs(t, err, rbac.ErrUnknownRole)
		assert.True(t, store.Authorizer().Can(rbac.RoleField, perm("map:edit")))
	})
}

func TestStore_Check(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var current atomic.Value
	current.Store(rbac.Grants{rbac.RoleField: {perm("map:view")}})
	var fail atomic.Bool
	source := rbac.SourceFunc(func(context.Context) (rbac.Grants, error) {
		if fail.Load() {
			return nil, errors.New("source unavailable")
		}
		return current.Load().(rbac.Grants), nil
	})

	store, err := rbac.NewStore(ctx, source)
	require.NoError(t, err)
	require.NoError(t, store.Check(ctx))

	current.Store(rbac.Grants{rbac.RoleField: {perm("users:approve")}})
	assert.ErrorIs(t, store.Check(ctx), rbac.ErrUndefinedPermission)
	assert.ErrorIs(t, store.Reload(ctx), rbac.ErrUndefinedPermission)

	fail.Store(true)
	assert.Error(t, store.Check(ctx))

	assert.Equal(t, uint64(1), store.Version(), "check never installs a policy")
	assert.True(t, store.Authorizer().Can(rbac.RoleField, perm("map:view")))
}

func TestStore_ConcurrentReadsDuringReload(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	narrow := rbac.Grants{rbac.RoleField: {perm("map:view")}}
	wide := rbac.Grants{rbac.RoleField: {perm("map:view"), perm("map:edit"), perm("map:create")}}

	var flip atomic.Bool
	source := rbac.SourceFunc(func(context.Context) (rbac.Grants, error) {
		if flip.Load() {
			return wide, nil
		}
		return narrow, nil
	})

	store, err := rbac.NewStore(ctx, source)
	require.NoError(t, err)

	const readers = 50
	const reads = 2000

	var wg sync.WaitGroup
	wg.Add(readers + 1)

	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			flip.Store(i%2 == 0)
			assert.NoError(t, store.Reload(ctx))
		}
	}()

	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < reads; j++ {
				auth := store.Authorizer()
				// A single snapshot must be internally consistent: edit and create
				// are always granted together.
				edit := auth.Can(rbac.RoleField, perm("map:edit"))
				create := auth.Can(rbac.RoleField, perm("map:create"))
				assert.Equal(t, edit, create)
				assert.True(t, auth.Can(rbac.RoleField, perm("map:view")))
				assert.False(t, auth.Can(rbac.RoleField, perm("users:view")))
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, uint64(101), store.Version())
}

func TestAuthorizer_ConcurrentQueries(t *testing.T) {
	t.Parallel()
	auth := newDefaultAuthorizer(t)

	const numGoroutines = 100
	const numOperations = 1000

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < numOperations; j++ {
				switch j % 4 {
				case 0:
					assert.True(t, auth.Can(rbac.RoleAnalyst, perm("data:edit")))
				case 1:
					assert.False(t, auth.CanAccess(rbac.RoleField, rbac.ResourceUsers))
				case 2:
					assert.True(t, auth.CanAny(rbac.RoleCommander, perm("users:manage"), perm("users:view")))
				case 3:
					assert.False(t, auth.CanAll(rbac.RoleCommander, perm("users:manage"), perm("users:view")))
				}
			}
		}()
	}

	wg.Wait()
}
