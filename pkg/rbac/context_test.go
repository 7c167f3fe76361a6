package rbac_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/intelgrid/dashguard/pkg/rbac"
)

func TestRoleContext(t *testing.T) {
	t.Run("set and get role", func(t *testing.T) {
		ctx := rbac.SetRoleToContext(context.Background(), rbac.RoleAdmin)
		role, ok := rbac.RoleFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, rbac.RoleAdmin, role)
	})

	t.Run("get role from empty context", func(t *testing.T) {
		role, ok := rbac.RoleFromContext(context.Background())
		assert.False(t, ok)
		assert.Equal(t, rbac.RoleAnonymous, role)
	})

	t.Run("anonymous role is not a role", func(t *testing.T) {
		ctx := rbac.SetRoleToContext(context.Background(), rbac.RoleAnonymous)
		_, ok := rbac.RoleFromContext(ctx)
		assert.False(t, ok)
	})

	t.Run("override role in context", func(t *testing.T) {
		ctx := rbac.SetRoleToContext(context.Background(), rbac.RoleField)
		ctx = rbac.SetRoleToContext(ctx, rbac.RoleCommander)
		role, ok := rbac.RoleFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, rbac.RoleCommander, role)
	})

	t.Run("plain string is ignored", func(t *testing.T) {
		type wrongKey struct{}
		ctx := context.WithValue(context.Background(), wrongKey{}, "admin")
		_, ok := rbac.RoleFromContext(ctx)
		assert.False(t, ok)
	})

	t.Run("logger extractor", func(t *testing.T) {
		extract := rbac.LoggerExtractor()

		_, ok := extract(context.Background())
		assert.False(t, ok)

		attr, ok := extract(rbac.SetRoleToContext(context.Background(), rbac.RoleAnalyst))
		assert.True(t, ok)
		assert.Equal(t, "role", attr.Key)
		assert.Equal(t, "analyst", attr.Value.String())
	})
}
