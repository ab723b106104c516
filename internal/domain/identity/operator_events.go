package identity

import (
	"github.com/campusclear/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OperatorCreatedEvent is raised when an administrator provisions an operator
type OperatorCreatedEvent struct {
	shared.BaseDomainEvent
	OperatorID    uuid.UUID  `json:"operator_id"`
	Username      string     `json:"username"`
	Roles         []RoleKind `json:"roles"`
	Department    string     `json:"department,omitempty"`
	HodDepartment string     `json:"hod_department,omitempty"`
}

// EventType returns the event type name
func (e *OperatorCreatedEvent) EventType() string {
	return "OperatorCreated"
}

// NewOperatorCreatedEvent creates a new OperatorCreatedEvent
func NewOperatorCreatedEvent(op *Operator) *OperatorCreatedEvent {
	return &OperatorCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("OperatorCreated", "Operator", op.ID),
		OperatorID:      op.ID,
		Username:        op.Username,
		Roles:           op.Roles,
		Department:      op.Department,
		HodDepartment:   op.HodDepartment,
	}
}
