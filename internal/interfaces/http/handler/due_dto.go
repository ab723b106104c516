package handler

import (
	"time"

	duedomain "github.com/campusclear/backend/internal/domain/dues"
)

// =====================
// Due Request DTOs
// =====================

// CreateDueRequest represents the request body for recording a new due
// @Description Request body for recording a new due
type CreateDueRequest struct {
	PersonID    string     `json:"person_id" binding:"required,min=1,max=50" example:"2021BCS0042"`
	PersonType  string     `json:"person_type" example:"Student"`
	Department  string     `json:"department" binding:"required,min=1,max=100" example:"LIBRARY"`
	Description string     `json:"description" binding:"max=500" example:"Lost reference book"`
	DueType     string     `json:"due_type" example:"library-fine"`
	Category    string     `json:"category" binding:"required" example:"payable"`
	Amount      float64    `json:"amount" binding:"gte=0" example:"450.00"`
	DueDate     *time.Time `json:"due_date"`
}

// MarkPaymentRequest represents the request body for a payment status change
// @Description Request body for marking payment on a due
type MarkPaymentRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required" example:"done"`
}

// ClearDueRequest represents the request body for resolving a due. An empty
// clearance type means the regular, payment-based path.
// @Description Request body for clearing a due
type ClearDueRequest struct {
	ClearanceType string `json:"clearance_type" example:"regular"`
	DocumentURL   string `json:"document_url" example:"https://storage.example.com/dues/..."`
}

// GrantPermissionRequest represents the request body for permission-based clearance
// @Description Request body for granting permission-based clearance
type GrantPermissionRequest struct {
	DocumentURL string `json:"document_url" binding:"required" example:"https://storage.example.com/dues/..."`
}

// =====================
// Due Response DTOs
// =====================

// DueResponse represents a due in API responses
// @Description Due response
type DueResponse struct {
	ID          string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440010"`
	PersonID    string  `json:"person_id" example:"2021BCS0042"`
	PersonType  string  `json:"person_type" example:"Student"`
	PersonName  string  `json:"person_name" example:"Asha Verma"`
	Department  string  `json:"department" example:"LIBRARY"`
	Description string  `json:"description,omitempty" example:"Lost reference book"`
	DueType     string  `json:"due_type" example:"library-fine"`
	Category    string  `json:"category" example:"payable"`
	Amount      float64 `json:"amount" example:"450.00"`

	Status        string `json:"status" example:"pending"`
	PaymentStatus string `json:"payment_status" example:"due"`

	DueDate   *time.Time `json:"due_date,omitempty"`
	DateAdded time.Time  `json:"date_added"`
	ClearDate *time.Time `json:"clear_date,omitempty"`

	ClearedByPermission   bool       `json:"cleared_by_permission"`
	ClearanceDocumentURL  string     `json:"clearance_document_url,omitempty"`
	PermissionGrantedBy   string     `json:"permission_granted_by,omitempty"`
	PermissionGrantedDate *time.Time `json:"permission_granted_date,omitempty"`

	ScholarshipCertificateCleared    bool `json:"scholarship_certificate_cleared,omitempty"`
	ScholarshipSpecialPermission     bool `json:"scholarship_special_permission,omitempty"`
	ScholarshipDocumentationRequired bool `json:"scholarship_documentation_required,omitempty"`

	CreatedBy string    `json:"created_by,omitempty" example:"library.clerk"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version" example:"1"`
}

func toDueResponse(due *duedomain.Due) DueResponse {
	return DueResponse{
		ID:          due.ID.String(),
		PersonID:    due.PersonID,
		PersonType:  string(due.PersonType),
		PersonName:  due.PersonName,
		Department:  due.Department,
		Description: due.Description,
		DueType:     string(due.DueType),
		Category:    string(due.Category),
		Amount:      due.Amount.InexactFloat64(),

		Status:        string(due.Status),
		PaymentStatus: string(due.PaymentStatus),

		DueDate:   due.DueDate,
		DateAdded: due.DateAdded,
		ClearDate: due.ClearDate,

		ClearedByPermission:   due.ClearedByPermission,
		ClearanceDocumentURL:  due.ClearanceDocumentURL,
		PermissionGrantedBy:   due.PermissionGrantedBy,
		PermissionGrantedDate: due.PermissionGrantedDate,

		ScholarshipCertificateCleared:    due.ScholarshipCertificateCleared,
		ScholarshipSpecialPermission:     due.ScholarshipSpecialPermission,
		ScholarshipDocumentationRequired: due.ScholarshipDocumentationRequired,

		CreatedBy: due.CreatedBy,
		CreatedAt: due.CreatedAt,
		UpdatedAt: due.UpdatedAt,
		Version:   due.Version,
	}
}
