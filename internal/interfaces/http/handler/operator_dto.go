package handler

// =====================
// Operator Admin Request DTOs
// =====================

// CreateOperatorRequest represents the request body for creating an operator
type CreateOperatorRequest struct {
	Username      string   `json:"username" binding:"required,min=3,max=100"`
	Password      string   `json:"password" binding:"required,min=8,max=128"`
	DisplayName   string   `json:"display_name" binding:"max=200"`
	Roles         []string `json:"roles" binding:"required,min=1"`
	Department    string   `json:"department"`
	HodDepartment string   `json:"hod_department"`
}

// UpdateOperatorRolesRequest represents the request body for replacing an operator's roles
type UpdateOperatorRolesRequest struct {
	Roles         []string `json:"roles" binding:"required,min=1"`
	Department    string   `json:"department"`
	HodDepartment string   `json:"hod_department"`
}

// ResetOperatorPasswordRequest represents the request body for an administrative password reset
type ResetOperatorPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// SetOperatorEnabledRequest represents the request body for enabling or disabling an operator
type SetOperatorEnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}
