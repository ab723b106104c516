package identity

import (
	"testing"

	"github.com/campusclear/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOperator(t *testing.T) {
	t.Run("creates enabled operator with hashed password", func(t *testing.T) {
		op, err := NewOperator("Lib.Operator", "secret123", []RoleKind{RoleDepartmentOperator}, "library", "")
		require.NoError(t, err)

		assert.Equal(t, "lib.operator", op.Username)
		assert.Equal(t, "LIBRARY", op.Department)
		assert.True(t, op.Enabled)
		assert.NotEqual(t, "secret123", op.PasswordHash)
		assert.True(t, op.VerifyPassword("secret123"))
		assert.False(t, op.VerifyPassword("wrong"))
	})

	t.Run("deduplicates roles", func(t *testing.T) {
		op, err := NewOperator("admin2", "secret123", []RoleKind{RoleSuperAdmin, RoleSuperAdmin}, "", "")
		require.NoError(t, err)
		assert.Equal(t, []RoleKind{RoleSuperAdmin}, op.Roles)
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name     string
			username string
			password string
			roles    []RoleKind
			dept     string
			hodDept  string
		}{
			{"empty username", "", "secret123", []RoleKind{RoleSuperAdmin}, "", ""},
			{"short username", "ab", "secret123", []RoleKind{RoleSuperAdmin}, "", ""},
			{"password without number", "admin", "secretsecret", []RoleKind{RoleSuperAdmin}, "", ""},
			{"short password", "admin", "a1", []RoleKind{RoleSuperAdmin}, "", ""},
			{"no roles", "admin", "secret123", nil, "", ""},
			{"unknown role", "admin", "secret123", []RoleKind{"janitor"}, "", ""},
			{"operator without department", "admin", "secret123", []RoleKind{RoleDepartmentOperator}, "", ""},
			{"hod without department", "admin", "secret123", []RoleKind{RoleHod}, "", ""},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewOperator(tt.username, tt.password, tt.roles, tt.dept, tt.hodDept)
				require.Error(t, err)
			})
		}
	})
}

func TestOperator_SetRoles(t *testing.T) {
	op, err := NewOperator("operator", "secret123", []RoleKind{RoleDepartmentOperator}, "LIBRARY", "")
	require.NoError(t, err)

	err = op.SetRoles([]RoleKind{RoleDepartmentOperator, RoleHod}, "LIBRARY", "cse")
	require.NoError(t, err)
	assert.Equal(t, "CSE", op.HodDepartment)
	assert.True(t, op.HasRole(RoleHod))

	err = op.SetRoles([]RoleKind{RoleHod}, "", "")
	require.Error(t, err)
	assert.True(t, shared.HasCode(err, shared.ErrCodeValidation))
}

func TestOperator_Actor(t *testing.T) {
	op, err := NewOperator("operator", "secret123", []RoleKind{RoleDepartmentOperator, RoleHod}, "ACCOUNTS", "CSE")
	require.NoError(t, err)

	actor := op.Actor()
	assert.Equal(t, op.ID.String(), actor.OperatorID)
	assert.Equal(t, "operator", actor.Username)
	assert.Equal(t, "ACCOUNTS", actor.Department)
	assert.Equal(t, "CSE", actor.HodDepartment)
	assert.True(t, CanMarkPayment(actor))
}

func TestOperator_DisableEnable(t *testing.T) {
	op, err := NewOperator("operator", "secret123", []RoleKind{RoleSuperAdmin}, "", "")
	require.NoError(t, err)

	version := op.Version
	op.Disable()
	assert.False(t, op.Enabled)
	assert.Equal(t, version+1, op.Version)

	op.Enable()
	assert.True(t, op.Enabled)
}
