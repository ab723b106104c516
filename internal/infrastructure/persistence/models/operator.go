package models

import (
	"strings"

	"github.com/campusclear/backend/internal/domain/identity"
	"github.com/campusclear/backend/internal/domain/shared"
)

// OperatorModel is the persistence model for the Operator aggregate root.
// Roles are stored as a comma-separated list; role names never contain commas.
type OperatorModel struct {
	AggregateModel
	Username      string `gorm:"type:varchar(100);not null;uniqueIndex"`
	DisplayName   string `gorm:"type:varchar(200)"`
	PasswordHash  string `gorm:"type:varchar(100);not null"`
	Roles         string `gorm:"type:varchar(200);not null"`
	Department    string `gorm:"type:varchar(100);index"`
	HodDepartment string `gorm:"type:varchar(100)"`
	Enabled       bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (OperatorModel) TableName() string {
	return "operators"
}

// ToDomain converts the persistence model to a domain Operator entity.
func (m *OperatorModel) ToDomain() *identity.Operator {
	return &identity.Operator{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Username:      m.Username,
		DisplayName:   m.DisplayName,
		PasswordHash:  m.PasswordHash,
		Roles:         splitRoles(m.Roles),
		Department:    m.Department,
		HodDepartment: m.HodDepartment,
		Enabled:       m.Enabled,
	}
}

// FromDomain populates the persistence model from a domain Operator entity.
func (m *OperatorModel) FromDomain(op *identity.Operator) {
	m.FromDomainAggregateRoot(op.BaseAggregateRoot)
	m.Username = op.Username
	m.DisplayName = op.DisplayName
	m.PasswordHash = op.PasswordHash
	m.Roles = joinRoles(op.Roles)
	m.Department = op.Department
	m.HodDepartment = op.HodDepartment
	m.Enabled = op.Enabled
}

// OperatorModelFromDomain creates a persistence model from a domain Operator entity.
func OperatorModelFromDomain(op *identity.Operator) *OperatorModel {
	m := &OperatorModel{}
	m.FromDomain(op)
	return m
}

func joinRoles(roles []identity.RoleKind) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

func splitRoles(s string) []identity.RoleKind {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	roles := make([]identity.RoleKind, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			roles = append(roles, identity.RoleKind(p))
		}
	}
	return roles
}
