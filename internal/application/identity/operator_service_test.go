package identity

import (
	"context"
	"testing"
	"time"

	"github.com/campusclear/backend/internal/domain/identity"
	"github.com/campusclear/backend/internal/domain/shared"
	"github.com/campusclear/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newOperatorService(repo *MockOperatorRepository, blacklist auth.TokenBlacklist) *OperatorService {
	return NewOperatorService(repo, newTestJWTService(), blacklist, zap.NewNop())
}

func TestOperatorService_Create(t *testing.T) {
	repo := new(MockOperatorRepository)
	repo.On("FindByUsername", mock.Anything, "library.clerk").Return(nil, shared.ErrNotFound)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*identity.Operator")).Return(nil)

	svc := newOperatorService(repo, nil)

	info, err := svc.Create(context.Background(), CreateOperatorInput{
		Username:    "library.clerk",
		Password:    "Libr4ry!pass",
		DisplayName: "Library Clerk",
		Roles:       []identity.RoleKind{identity.RoleDepartmentOperator},
		Department:  "library",
	})

	require.NoError(t, err)
	assert.Equal(t, "library.clerk", info.Username)
	assert.Equal(t, "Library Clerk", info.DisplayName)
	assert.Equal(t, "LIBRARY", info.Department)
	assert.True(t, info.Enabled)
	repo.AssertExpectations(t)
}

func TestOperatorService_Create_DuplicateUsername(t *testing.T) {
	repo := new(MockOperatorRepository)
	existing := newTestOperator(t, "Sup3rSecret!pass")
	repo.On("FindByUsername", mock.Anything, "accounts.clerk").Return(existing, nil)

	svc := newOperatorService(repo, nil)

	info, err := svc.Create(context.Background(), CreateOperatorInput{
		Username:   "accounts.clerk",
		Password:   "Sup3rSecret!pass",
		Roles:      []identity.RoleKind{identity.RoleDepartmentOperator},
		Department: identity.DepartmentAccounts,
	})

	assert.Nil(t, info)
	assert.True(t, shared.HasCode(err, "USERNAME_EXISTS"))
}

func TestOperatorService_Create_InvalidRoleSet(t *testing.T) {
	repo := new(MockOperatorRepository)
	repo.On("FindByUsername", mock.Anything, "no.department").Return(nil, shared.ErrNotFound)

	svc := newOperatorService(repo, nil)

	// A department operator without a home department is rejected
	info, err := svc.Create(context.Background(), CreateOperatorInput{
		Username: "no.department",
		Password: "Sup3rSecret!pass",
		Roles:    []identity.RoleKind{identity.RoleDepartmentOperator},
	})

	assert.Nil(t, info)
	assert.Error(t, err)
}

func TestOperatorService_List(t *testing.T) {
	repo := new(MockOperatorRepository)
	op := newTestOperator(t, "Sup3rSecret!pass")
	repo.On("FindAll", mock.Anything).Return([]identity.Operator{*op}, nil)

	svc := newOperatorService(repo, nil)

	infos, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, op.Username, infos[0].Username)
}

func TestOperatorService_UpdateRoles(t *testing.T) {
	repo := new(MockOperatorRepository)
	blacklist := auth.NewInMemoryTokenBlacklist()
	op := newTestOperator(t, "Sup3rSecret!pass")
	repo.On("FindByID", mock.Anything, op.ID).Return(op, nil)
	repo.On("Save", mock.Anything, op).Return(nil)

	svc := newOperatorService(repo, blacklist)

	info, err := svc.UpdateRoles(context.Background(), UpdateOperatorRolesInput{
		OperatorID:    op.ID,
		Roles:         []identity.RoleKind{identity.RoleHod},
		HodDepartment: "CSE",
	})

	require.NoError(t, err)
	assert.Equal(t, []identity.RoleKind{identity.RoleHod}, info.Roles)
	assert.Equal(t, "CSE", info.HodDepartment)

	// Old tokens no longer pass the blacklist check
	invalidated, err := blacklist.IsOperatorTokenInvalidated(context.Background(), op.ID.String(), time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, invalidated)
}

func TestOperatorService_ResetPassword(t *testing.T) {
	repo := new(MockOperatorRepository)
	op := newTestOperator(t, "Sup3rSecret!pass")
	repo.On("FindByID", mock.Anything, op.ID).Return(op, nil)
	repo.On("Save", mock.Anything, op).Return(nil)

	svc := newOperatorService(repo, nil)

	err := svc.ResetPassword(context.Background(), ResetPasswordInput{
		OperatorID:  op.ID,
		NewPassword: "Fr3sh!password",
	})

	require.NoError(t, err)
	assert.True(t, op.VerifyPassword("Fr3sh!password"))
}

func TestOperatorService_SetEnabled(t *testing.T) {
	repo := new(MockOperatorRepository)
	blacklist := auth.NewInMemoryTokenBlacklist()
	op := newTestOperator(t, "Sup3rSecret!pass")
	repo.On("FindByID", mock.Anything, op.ID).Return(op, nil)
	repo.On("Save", mock.Anything, op).Return(nil)

	svc := newOperatorService(repo, blacklist)

	info, err := svc.SetEnabled(context.Background(), op.ID, false)

	require.NoError(t, err)
	assert.False(t, info.Enabled)

	invalidated, err := blacklist.IsOperatorTokenInvalidated(context.Background(), op.ID.String(), time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, invalidated)
}

func TestOperatorService_SetEnabled_NotFound(t *testing.T) {
	repo := new(MockOperatorRepository)
	missing := uuid.New()
	repo.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)

	svc := newOperatorService(repo, nil)

	info, err := svc.SetEnabled(context.Background(), missing, true)

	assert.Nil(t, info)
	assert.True(t, shared.HasCode(err, shared.ErrCodeNotFound))
}
