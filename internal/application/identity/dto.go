package identity

import (
	"time"

	"github.com/campusclear/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// LoginInput contains the input for operator login
type LoginInput struct {
	Username string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	TokenType   string
	Operator    OperatorInfo
}

// OperatorInfo contains basic operator information returned by the API
type OperatorInfo struct {
	ID            uuid.UUID
	Username      string
	DisplayName   string
	Roles         []identity.RoleKind
	Department    string
	HodDepartment string
	Enabled       bool
}

// LogoutInput contains the input for operator logout
type LogoutInput struct {
	OperatorID uuid.UUID
	TokenJTI   string        // JWT ID for blacklisting
	TokenTTL   time.Duration // Remaining lifetime of the token
	Everywhere bool          // Invalidate all of the operator's tokens
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	OperatorID  uuid.UUID
	OldPassword string
	NewPassword string
}

// CreateOperatorInput contains the input for creating an operator
type CreateOperatorInput struct {
	Username      string
	Password      string
	DisplayName   string
	Roles         []identity.RoleKind
	Department    string
	HodDepartment string
}

// UpdateOperatorRolesInput contains the input for changing an operator's role set
type UpdateOperatorRolesInput struct {
	OperatorID    uuid.UUID
	Roles         []identity.RoleKind
	Department    string
	HodDepartment string
}

// ResetPasswordInput contains the input for an administrative password reset
type ResetPasswordInput struct {
	OperatorID  uuid.UUID
	NewPassword string
}
