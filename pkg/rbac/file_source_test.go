package rbac_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intelgrid/dashguard/pkg/rbac"
)

func writePolicyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileSource_Load(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("valid file", func(t *testing.T) {
		path := writePolicyFile(t, `
roles:
  admin: ["dashboard:view", "users:manage"]
  field:
    - dashboard:view
    - data:create
`)
		grants, err := rbac.NewFileSource(path).Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []rbac.Permission{perm("dashboard:view"), perm("users:manage")}, grants[rbac.RoleAdmin])
		assert.Equal(t, []rbac.Permission{perm("dashboard:view"), perm("data:create")}, grants[rbac.RoleField])
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := rbac.NewFileSource(filepath.Join(t.TempDir(), "nope.yaml")).Load(ctx)
		assert.ErrorIs(t, err, rbac.ErrInvalidPolicyFile)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed permission", func(t *testing.T) {
		path := writePolicyFile(t, "roles:\n  admin: [\"dashboard-view\"]\n")
		_, err := rbac.NewFileSource(path).Load(ctx)
		assert.ErrorIs(t, err, rbac.ErrInvalidPolicyFile)
		assert.ErrorIs(t, err, rbac.ErrInvalidPermissionFormat)
	})

	t.Run("unknown role", func(t *testing.T) {
		path := writePolicyFile(t, "roles:\n  auditor: [\"audit:view\"]\n")
		_, err := rbac.NewFileSource(path).Load(ctx)
		assert.ErrorIs(t, err, rbac.ErrUnknownRole)
	})

	t.Run("missing roles section", func(t *testing.T) {
		path := writePolicyFile(t, "admins: []\n")
		_, err := rbac.NewFileSource(path).Load(ctx)
		assert.ErrorIs(t, err, rbac.ErrInvalidPolicyFile)
	})

	t.Run("not yaml", func(t *testing.T) {
		path := writePolicyFile(t, "roles: [unterminated\n")
		_, err := rbac.NewFileSource(path).Load(ctx)
		assert.ErrorIs(t, err, rbac.ErrInvalidPolicyFile)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := rbac.NewFileSource(writePolicyFile(t, "roles: {}\n")).Load(cctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPolicyYAML_RoundTrip(t *testing.T) {
	t.Parallel()

	raw, err := rbac.MarshalPolicyYAML(rbac.DefaultGrants())
	require.NoError(t, err)

	grants, err := rbac.ParsePolicyYAML(raw)
	require.NoError(t, err)

	want := rbac.DefaultPolicy()
	got, err := rbac.NewPolicy(nil, grants)
	require.NoError(t, err)
	for _, role := range rbac.AllRoles() {
		assert.Equal(t, want.Grants(role).Strings(), got.Grants(role).Strings(), "role %s", role)
	}
}
