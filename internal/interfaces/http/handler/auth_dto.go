package handler

import (
	"time"

	"github.com/campusclear/backend/internal/application/identity"
	"github.com/google/uuid"
)

// =====================
// Auth Request DTOs
// =====================

// LoginRequest represents the request body for operator login
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LogoutRequest represents the optional request body for logout
type LogoutRequest struct {
	Everywhere bool `json:"everywhere"`
}

// ChangePasswordRequest represents the request body for password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// =====================
// Auth Response DTOs
// =====================

// TokenResponse represents the token data in auth responses
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenType   string    `json:"token_type"`
}

// OperatorResponse represents operator data in auth and admin responses
type OperatorResponse struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	DisplayName   string    `json:"display_name,omitempty"`
	Roles         []string  `json:"roles"`
	Department    string    `json:"department,omitempty"`
	HodDepartment string    `json:"hod_department,omitempty"`
	Enabled       bool      `json:"enabled"`
}

// LoginResponse represents the response body for successful login
type LoginResponse struct {
	Token    TokenResponse    `json:"token"`
	Operator OperatorResponse `json:"operator"`
}

// LogoutResponse represents the response body for logout
type LogoutResponse struct {
	Message string `json:"message"`
}

func toOperatorResponse(info identity.OperatorInfo) OperatorResponse {
	roles := make([]string, len(info.Roles))
	for i, r := range info.Roles {
		roles[i] = string(r)
	}
	return OperatorResponse{
		ID:            info.ID,
		Username:      info.Username,
		DisplayName:   info.DisplayName,
		Roles:         roles,
		Department:    info.Department,
		HodDepartment: info.HodDepartment,
		Enabled:       info.Enabled,
	}
}
