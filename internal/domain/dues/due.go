// Package dues contains the due aggregate and its lifecycle state machine.
package dues

import (
	"strings"
	"time"

	"github.com/campusclear/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DueStatus represents the resolution state of a due
type DueStatus string

const (
	DueStatusPending             DueStatus = "pending"
	DueStatusCleared             DueStatus = "cleared"
	DueStatusClearedByPermission DueStatus = "cleared-by-permission"
)

// IsValid checks if the status is a recognized value
func (s DueStatus) IsValid() bool {
	switch s {
	case DueStatusPending, DueStatusCleared, DueStatusClearedByPermission:
		return true
	}
	return false
}

// IsTerminal returns true once a due is resolved; terminal states accept no
// further status transitions
func (s DueStatus) IsTerminal() bool {
	return s == DueStatusCleared || s == DueStatusClearedByPermission
}

// PaymentStatus tracks whether money was actually collected. It is an
// independent axis from DueStatus and is monotonic: done never reverts to due.
type PaymentStatus string

const (
	PaymentStatusDue  PaymentStatus = "due"
	PaymentStatusDone PaymentStatus = "done"
)

// IsValid checks if the payment status is a recognized value
func (s PaymentStatus) IsValid() bool {
	return s == PaymentStatusDue || s == PaymentStatusDone
}

// Category represents whether settlement of a due requires money to change hands
type Category string

const (
	CategoryPayable    Category = "payable"
	CategoryNonPayable Category = "non-payable"
)

// IsValid checks if the category is a recognized value
func (c Category) IsValid() bool {
	return c == CategoryPayable || c == CategoryNonPayable
}

// DueType classifies the origin of a due. The enumeration is closed; unknown
// values are rejected at the boundary.
type DueType string

const (
	DueTypeDamageToProperty DueType = "damage-to-property"
	DueTypeFeeDelay         DueType = "fee-delay"
	DueTypeScholarship      DueType = "scholarship"
	DueTypeScholarshipIssue DueType = "scholarship-issue"
	DueTypeLibraryFine      DueType = "library-fine"
	DueTypeHostelDues       DueType = "hostel-dues"
	DueTypeLabEquipment     DueType = "lab-equipment"
	DueTypeSportsEquipment  DueType = "sports-equipment"
	DueTypeExamMalpractice  DueType = "exam-malpractice"
	DueTypeOther            DueType = "other"
)

// IsValid checks if the due type is a recognized value
func (t DueType) IsValid() bool {
	switch t {
	case DueTypeDamageToProperty, DueTypeFeeDelay, DueTypeScholarship,
		DueTypeScholarshipIssue, DueTypeLibraryFine, DueTypeHostelDues,
		DueTypeLabEquipment, DueTypeSportsEquipment, DueTypeExamMalpractice,
		DueTypeOther:
		return true
	}
	return false
}

// IsScholarship reports whether the due type belongs to the scholarship family
func (t DueType) IsScholarship() bool {
	return t == DueTypeScholarship || t == DueTypeScholarshipIssue
}

// PersonType identifies which external directory the owing party lives in
type PersonType string

const (
	PersonTypeStudent PersonType = "Student"
	PersonTypeFaculty PersonType = "Faculty"
)

// IsValid checks if the person type is a recognized value
func (t PersonType) IsValid() bool {
	return t == PersonTypeStudent || t == PersonTypeFaculty
}

// Due is the aggregate root for a single tracked obligation owed by a student
// or faculty member to a department.
//
// Two axes evolve independently: Status (resolution state machine) and
// PaymentStatus (financial collection). Decoupling them keeps "total revenue
// collected" distinguishable from "total dues resolved" in reporting, even for
// dues resolved by documentary evidence instead of money.
type Due struct {
	shared.BaseAggregateRoot
	PersonID    string
	PersonType  PersonType
	PersonName  string
	Department  string
	Description string
	DueType     DueType
	Category    Category
	Amount      decimal.Decimal

	Status        DueStatus
	PaymentStatus PaymentStatus

	DueDate   *time.Time
	DateAdded time.Time
	ClearDate *time.Time

	// Permission-based clearance metadata, set only on that path
	ClearedByPermission   bool
	ClearanceDocumentURL  string
	PermissionGrantedBy   string
	PermissionGrantedDate *time.Time

	// Scholarship workflow flags
	ScholarshipCertificateCleared    bool
	ScholarshipSpecialPermission     bool
	ScholarshipDocumentationRequired bool

	CreatedBy string
}

// NewDueParams carries the caller-supplied fields for due creation.
// Status, payment status and clearance metadata are never caller-supplied.
type NewDueParams struct {
	PersonID    string
	PersonType  PersonType
	PersonName  string
	Department  string
	Description string
	DueType     DueType
	Category    Category
	Amount      decimal.Decimal
	DueDate     *time.Time
	CreatedBy   string
}

// NewDue creates a new pending due. Duplicates are allowed by design: each
// record is a distinct obligation.
func NewDue(p NewDueParams) (*Due, error) {
	if strings.TrimSpace(p.PersonID) == "" {
		return nil, shared.NewDomainError(shared.ErrCodeValidation, "Person ID is required")
	}
	if !p.PersonType.IsValid() {
		return nil, shared.NewDomainError(shared.ErrCodeValidation, "Person type must be Student or Faculty")
	}
	if strings.TrimSpace(p.Department) == "" {
		return nil, shared.NewDomainError(shared.ErrCodeValidation, "Department is required")
	}
	if !p.DueType.IsValid() {
		return nil, shared.NewDomainError(shared.ErrCodeValidation, "Due type is required and must be a recognized value")
	}
	if !p.Category.IsValid() {
		return nil, shared.NewDomainError(shared.ErrCodeValidation, "Category must be payable or non-payable")
	}
	if p.Amount.IsNegative() {
		return nil, shared.NewDomainError(shared.ErrCodeValidation, "Amount cannot be negative")
	}

	due := &Due{
		BaseAggregateRoot:                shared.NewBaseAggregateRoot(),
		PersonID:                         strings.TrimSpace(p.PersonID),
		PersonType:                       p.PersonType,
		PersonName:                       strings.TrimSpace(p.PersonName),
		Department:                       NormalizeDepartment(p.Department),
		Description:                      strings.TrimSpace(p.Description),
		DueType:                          p.DueType,
		Category:                         p.Category,
		Amount:                           p.Amount,
		Status:                           DueStatusPending,
		PaymentStatus:                    PaymentStatusDue,
		DueDate:                          p.DueDate,
		DateAdded:                        time.Now(),
		ScholarshipDocumentationRequired: p.DueType == DueTypeScholarship,
		CreatedBy:                        p.CreatedBy,
	}

	due.AddDomainEvent(NewDueCreatedEvent(due))

	return due, nil
}

// NormalizeDepartment returns the canonical uppercase form of a department name
func NormalizeDepartment(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// MarkPayment applies a payment status change. The done state is sticky:
// reverting done to due is an illegal transition.
//
// After a due reaches a terminal status only the scholarship follow-up flow is
// still allowed to record a payment: a payable scholarship due cleared by
// permission may later be marked done by accounts, which records the special
// permission flag.
func (d *Due) MarkPayment(target PaymentStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError(shared.ErrCodeValidation, "Payment status must be due or done")
	}
	if d.PaymentStatus == PaymentStatusDone && target == PaymentStatusDue {
		return shared.NewDomainError(shared.ErrCodeInvalidTransition, "Payment already marked done; it cannot revert to due")
	}

	changed := false

	if d.Status.IsTerminal() {
		if !d.allowsPostClearancePayment(target) {
			return shared.NewDomainError(shared.ErrCodeAlreadyResolved, "Due is already resolved")
		}
		if !d.ScholarshipSpecialPermission {
			d.ScholarshipSpecialPermission = true
			changed = true
		}
		// Settling the payment completes the permission-cleared scholarship
		// due, so the certificate is released now.
		if !d.ScholarshipCertificateCleared {
			d.ScholarshipCertificateCleared = true
			changed = true
		}
	}

	if d.PaymentStatus != target {
		d.PaymentStatus = target
		changed = true
		d.AddDomainEvent(NewDuePaymentMarkedEvent(d))
	}

	// Re-marking the current status is a no-op: the version must not move,
	// or the optimistic lock would reject a write that changed nothing.
	if !changed {
		return nil
	}

	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// allowsPostClearancePayment gates the one tolerated post-terminal mutation:
// settling a payable scholarship due that was cleared by permission.
func (d *Due) allowsPostClearancePayment(target PaymentStatus) bool {
	return d.Status == DueStatusClearedByPermission &&
		d.DueType.IsScholarship() &&
		d.Category == CategoryPayable &&
		target == PaymentStatusDone
}

// Clear resolves a due through the regular, payment-based path. Payable dues
// require the payment to be done first; a zero amount is not a bypass.
// Clearing a scholarship due releases its certificate.
func (d *Due) Clear(now time.Time) error {
	if d.Status.IsTerminal() {
		return shared.NewDomainError(shared.ErrCodeAlreadyResolved, "Due is already resolved")
	}
	if d.Category == CategoryPayable && d.PaymentStatus != PaymentStatusDone {
		return shared.NewDomainError(shared.ErrCodePaymentRequired, "Payment must be done before clearing a payable due")
	}

	d.Status = DueStatusCleared
	d.ClearDate = &now
	if d.DueType.IsScholarship() {
		d.ScholarshipCertificateCleared = true
	}
	d.UpdatedAt = now
	d.IncrementVersion()

	d.AddDomainEvent(NewDueClearedEvent(d))

	return nil
}

// ClearByPermission resolves a due on documentary evidence instead of payment.
// It never touches PaymentStatus.
func (d *Due) ClearByPermission(documentURL, grantedBy string, now time.Time) error {
	if d.Status.IsTerminal() {
		return shared.NewDomainError(shared.ErrCodeAlreadyResolved, "Due is already resolved")
	}
	if strings.TrimSpace(documentURL) == "" {
		return shared.NewDomainError(shared.ErrCodeDocumentRequired, "A clearance document is required for permission-based clearance")
	}

	d.Status = DueStatusClearedByPermission
	d.ClearedByPermission = true
	d.ClearanceDocumentURL = strings.TrimSpace(documentURL)
	d.PermissionGrantedBy = grantedBy
	d.PermissionGrantedDate = &now
	d.ClearDate = &now
	d.UpdatedAt = now
	d.IncrementVersion()

	d.AddDomainEvent(NewDueClearedByPermissionEvent(d))

	return nil
}

// IsPending returns true while the due accepts lifecycle transitions
func (d *Due) IsPending() bool {
	return d.Status == DueStatusPending
}

// IsResolved returns true once the due reached a terminal status
func (d *Due) IsResolved() bool {
	return d.Status.IsTerminal()
}
