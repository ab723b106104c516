// Package identity contains the operator aggregate and the role/department
// authorization model.
package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/campusclear/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// RoleKind represents one role an operator may hold. Roles are composite: an
// operator can hold several at once.
type RoleKind string

const (
	RoleSuperAdmin         RoleKind = "super_admin"
	RoleDepartmentOperator RoleKind = "department_operator"
	RoleHod                RoleKind = "hod"
	RoleFaculty            RoleKind = "faculty"
	RoleHr                 RoleKind = "hr"
)

// IsValid checks if the role kind is a recognized value
func (r RoleKind) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleDepartmentOperator, RoleHod, RoleFaculty, RoleHr:
		return true
	}
	return false
}

// Special departments whose operators get modified rules
const (
	DepartmentHR          = "HR"
	DepartmentAccounts    = "ACCOUNTS"
	DepartmentScholarship = "SCHOLARSHIP"
	DepartmentAcademics   = "ACADEMICS"
)

// Password cost for bcrypt
const bcryptCost = 12

// Operator represents a provisioned staff account. Operators are created and
// updated by the administrator only, never implicitly.
type Operator struct {
	shared.BaseAggregateRoot
	Username     string
	DisplayName  string
	PasswordHash string
	Roles        []RoleKind
	// Home department, required when Roles includes department_operator
	Department string
	// Department overseen as HOD, required when Roles includes hod
	HodDepartment string
	Enabled       bool
}

// NewOperator creates a new enabled operator with the given role set
func NewOperator(username, password string, roles []RoleKind, department, hodDepartment string) (*Operator, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if err := validateRoles(roles, department, hodDepartment); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	op := &Operator{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          strings.ToLower(strings.TrimSpace(username)),
		PasswordHash:      passwordHash,
		Roles:             dedupeRoles(roles),
		Department:        strings.ToUpper(strings.TrimSpace(department)),
		HodDepartment:     strings.ToUpper(strings.TrimSpace(hodDepartment)),
		Enabled:           true,
	}

	op.AddDomainEvent(NewOperatorCreatedEvent(op))

	return op, nil
}

// SetDisplayName sets the operator's display name
func (o *Operator) SetDisplayName(displayName string) error {
	if len(displayName) > 200 {
		return shared.NewDomainError(shared.ErrCodeValidation, "Display name cannot exceed 200 characters")
	}

	o.DisplayName = strings.TrimSpace(displayName)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// SetPassword sets a new password (administrator reset)
func (o *Operator) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	o.PasswordHash = passwordHash
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// VerifyPassword verifies if the provided password matches
func (o *Operator) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(password))
	return err == nil
}

// SetRoles replaces the operator's role set
func (o *Operator) SetRoles(roles []RoleKind, department, hodDepartment string) error {
	if err := validateRoles(roles, department, hodDepartment); err != nil {
		return err
	}

	o.Roles = dedupeRoles(roles)
	o.Department = strings.ToUpper(strings.TrimSpace(department))
	o.HodDepartment = strings.ToUpper(strings.TrimSpace(hodDepartment))
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Disable disables the operator account
func (o *Operator) Disable() {
	o.Enabled = false
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// Enable re-enables the operator account
func (o *Operator) Enable() {
	o.Enabled = true
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// HasRole checks if the operator holds a specific role
func (o *Operator) HasRole(role RoleKind) bool {
	for _, r := range o.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Actor builds the authorization view of this operator
func (o *Operator) Actor() ActorContext {
	return ActorContext{
		OperatorID:    o.ID.String(),
		Username:      o.Username,
		Roles:         o.Roles,
		Department:    o.Department,
		HodDepartment: o.HodDepartment,
	}
}

func dedupeRoles(roles []RoleKind) []RoleKind {
	seen := make(map[RoleKind]bool, len(roles))
	out := make([]RoleKind, 0, len(roles))
	for _, r := range roles {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

func validateRoles(roles []RoleKind, department, hodDepartment string) error {
	if len(roles) == 0 {
		return shared.NewDomainError(shared.ErrCodeValidation, "Operator must hold at least one role")
	}
	for _, r := range roles {
		if !r.IsValid() {
			return shared.NewDomainError(shared.ErrCodeValidation, "Unknown role: "+string(r))
		}
	}

	hasOperator := false
	hasHod := false
	for _, r := range roles {
		switch r {
		case RoleDepartmentOperator:
			hasOperator = true
		case RoleHod:
			hasHod = true
		}
	}
	if hasOperator && strings.TrimSpace(department) == "" {
		return shared.NewDomainError(shared.ErrCodeValidation, "Department is required for department operators")
	}
	if hasHod && strings.TrimSpace(hodDepartment) == "" {
		return shared.NewDomainError(shared.ErrCodeValidation, "HOD department is required for HOD role")
	}

	return nil
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return shared.NewDomainError(shared.ErrCodeValidation, "Username cannot be empty")
	}
	if len(username) < 3 {
		return shared.NewDomainError(shared.ErrCodeValidation, "Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewDomainError(shared.ErrCodeValidation, "Username cannot exceed 100 characters")
	}

	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	if !usernameRegex.MatchString(username) {
		return shared.NewDomainError(shared.ErrCodeValidation, "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}

	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError(shared.ErrCodeValidation, "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError(shared.ErrCodeValidation, "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError(shared.ErrCodeValidation, "Password cannot exceed 128 characters")
	}

	hasLetter := regexp.MustCompile(`[a-zA-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)
	if !hasLetter || !hasNumber {
		return shared.NewDomainError(shared.ErrCodeValidation, "Password must contain at least one letter and one number")
	}

	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
