package tenant

import (
	"testing"

	"github.com/google/uuid"
	"github.com/startupops/backend/internal/models"
	"github.com/stretchr/testify/require"
)

func TestScopeFor(t *testing.T) {
	t.Parallel()

	company := uuid.New()

	scoped := []models.Role{
		models.RoleAdmin,
		models.RoleCEO,
		models.RoleHR,
		models.RoleManager,
		models.RoleServer,
		models.RoleEmployee,
	}
	for _, role := range scoped {
		t.Run(string(role), func(t *testing.T) {
			sc := ScopeFor(role, company)
			require.False(t, sc.Empty())
			require.Equal(t, company, *sc.TenantID)
		})
	}

	global := []models.Role{models.RoleSuperAdmin, models.RoleMainHandler}
	for _, role := range global {
		t.Run(string(role), func(t *testing.T) {
			sc := ScopeFor(role, company)
			require.True(t, sc.Empty())
			require.Nil(t, sc.TenantID)
		})
	}
}

func TestScopeSQL(t *testing.T) {
	t.Parallel()

	company := uuid.New()

	t.Run("scoped renders a pinned predicate", func(t *testing.T) {
		sc := ScopeFor(models.RoleEmployee, company)
		clause, args := sc.SQL("tenant_id", 3)
		require.Equal(t, "tenant_id = $3", clause)
		require.Equal(t, []interface{}{company}, args)
	})

	t.Run("global renders TRUE with no args", func(t *testing.T) {
		sc := ScopeFor(models.RoleSuperAdmin, company)
		clause, args := sc.SQL("tenant_id", 1)
		require.Equal(t, "TRUE", clause)
		require.Empty(t, args)
	})
}
