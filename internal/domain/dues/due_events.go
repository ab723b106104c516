package dues

import (
	"time"

	"github.com/campusclear/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DueCreatedEvent is raised when a new due is recorded
type DueCreatedEvent struct {
	shared.BaseDomainEvent
	DueID      uuid.UUID       `json:"due_id"`
	PersonID   string          `json:"person_id"`
	PersonType PersonType      `json:"person_type"`
	Department string          `json:"department"`
	DueType    DueType         `json:"due_type"`
	Category   Category        `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *DueCreatedEvent) EventType() string {
	return "DueCreated"
}

// NewDueCreatedEvent creates a new DueCreatedEvent
func NewDueCreatedEvent(d *Due) *DueCreatedEvent {
	return &DueCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("DueCreated", "Due", d.ID),
		DueID:           d.ID,
		PersonID:        d.PersonID,
		PersonType:      d.PersonType,
		Department:      d.Department,
		DueType:         d.DueType,
		Category:        d.Category,
		Amount:          d.Amount,
	}
}

// DuePaymentMarkedEvent is raised when the payment status of a due changes
type DuePaymentMarkedEvent struct {
	shared.BaseDomainEvent
	DueID             uuid.UUID       `json:"due_id"`
	Department        string          `json:"department"`
	Amount            decimal.Decimal `json:"amount"`
	PaymentStatus     PaymentStatus   `json:"payment_status"`
	SpecialPermission bool            `json:"special_permission"`
}

// EventType returns the event type name
func (e *DuePaymentMarkedEvent) EventType() string {
	return "DuePaymentMarked"
}

// NewDuePaymentMarkedEvent creates a new DuePaymentMarkedEvent
func NewDuePaymentMarkedEvent(d *Due) *DuePaymentMarkedEvent {
	return &DuePaymentMarkedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("DuePaymentMarked", "Due", d.ID),
		DueID:             d.ID,
		Department:        d.Department,
		Amount:            d.Amount,
		PaymentStatus:     d.PaymentStatus,
		SpecialPermission: d.ScholarshipSpecialPermission,
	}
}

// DueClearedEvent is raised when a due is resolved through the regular path
type DueClearedEvent struct {
	shared.BaseDomainEvent
	DueID      uuid.UUID       `json:"due_id"`
	Department string          `json:"department"`
	Category   Category        `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	ClearDate  time.Time       `json:"clear_date"`
}

// EventType returns the event type name
func (e *DueClearedEvent) EventType() string {
	return "DueCleared"
}

// NewDueClearedEvent creates a new DueClearedEvent
func NewDueClearedEvent(d *Due) *DueClearedEvent {
	clearDate := time.Now()
	if d.ClearDate != nil {
		clearDate = *d.ClearDate
	}
	return &DueClearedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("DueCleared", "Due", d.ID),
		DueID:           d.ID,
		Department:      d.Department,
		Category:        d.Category,
		Amount:          d.Amount,
		ClearDate:       clearDate,
	}
}

// DueClearedByPermissionEvent is raised when a due is resolved on documentary
// evidence instead of payment
type DueClearedByPermissionEvent struct {
	shared.BaseDomainEvent
	DueID       uuid.UUID `json:"due_id"`
	Department  string    `json:"department"`
	DocumentURL string    `json:"document_url"`
	GrantedBy   string    `json:"granted_by"`
	GrantedDate time.Time `json:"granted_date"`
}

// EventType returns the event type name
func (e *DueClearedByPermissionEvent) EventType() string {
	return "DueClearedByPermission"
}

// NewDueClearedByPermissionEvent creates a new DueClearedByPermissionEvent
func NewDueClearedByPermissionEvent(d *Due) *DueClearedByPermissionEvent {
	grantedDate := time.Now()
	if d.PermissionGrantedDate != nil {
		grantedDate = *d.PermissionGrantedDate
	}
	return &DueClearedByPermissionEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("DueClearedByPermission", "Due", d.ID),
		DueID:           d.ID,
		Department:      d.Department,
		DocumentURL:     d.ClearanceDocumentURL,
		GrantedBy:       d.PermissionGrantedBy,
		GrantedDate:     grantedDate,
	}
}
