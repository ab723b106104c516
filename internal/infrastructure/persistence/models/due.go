package models

import (
	"time"

	"github.com/campusclear/backend/internal/domain/dues"
	"github.com/campusclear/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DueModel is the persistence model for the Due aggregate root.
type DueModel struct {
	AggregateModel
	PersonID    string           `gorm:"type:varchar(50);not null;index:idx_dues_person,priority:2"`
	PersonType  dues.PersonType  `gorm:"type:varchar(20);not null;index:idx_dues_person,priority:1"`
	PersonName  string           `gorm:"type:varchar(200);not null"`
	Department  string           `gorm:"type:varchar(100);not null;index"`
	Description string           `gorm:"type:text"`
	DueType     dues.DueType     `gorm:"type:varchar(30);not null;index"`
	Category    dues.Category    `gorm:"type:varchar(20);not null"`
	Amount      decimal.Decimal  `gorm:"type:decimal(18,4);not null"`

	Status        dues.DueStatus     `gorm:"type:varchar(30);not null;default:'pending';index"`
	PaymentStatus dues.PaymentStatus `gorm:"type:varchar(10);not null;default:'due'"`

	DueDate   *time.Time
	DateAdded time.Time `gorm:"not null;index"`
	ClearDate *time.Time

	ClearedByPermission   bool       `gorm:"not null;default:false"`
	ClearanceDocumentURL  string     `gorm:"type:varchar(500)"`
	PermissionGrantedBy   string     `gorm:"type:varchar(100)"`
	PermissionGrantedDate *time.Time

	ScholarshipCertificateCleared    bool `gorm:"not null;default:false"`
	ScholarshipSpecialPermission     bool `gorm:"not null;default:false"`
	ScholarshipDocumentationRequired bool `gorm:"not null;default:false"`

	CreatedBy string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (DueModel) TableName() string {
	return "dues"
}

// ToDomain converts the persistence model to a domain Due entity.
func (m *DueModel) ToDomain() *dues.Due {
	return &dues.Due{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		PersonID:    m.PersonID,
		PersonType:  m.PersonType,
		PersonName:  m.PersonName,
		Department:  m.Department,
		Description: m.Description,
		DueType:     m.DueType,
		Category:    m.Category,
		Amount:      m.Amount,

		Status:        m.Status,
		PaymentStatus: m.PaymentStatus,

		DueDate:   m.DueDate,
		DateAdded: m.DateAdded,
		ClearDate: m.ClearDate,

		ClearedByPermission:   m.ClearedByPermission,
		ClearanceDocumentURL:  m.ClearanceDocumentURL,
		PermissionGrantedBy:   m.PermissionGrantedBy,
		PermissionGrantedDate: m.PermissionGrantedDate,

		ScholarshipCertificateCleared:    m.ScholarshipCertificateCleared,
		ScholarshipSpecialPermission:     m.ScholarshipSpecialPermission,
		ScholarshipDocumentationRequired: m.ScholarshipDocumentationRequired,

		CreatedBy: m.CreatedBy,
	}
}

// FromDomain populates the persistence model from a domain Due entity.
func (m *DueModel) FromDomain(d *dues.Due) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.PersonID = d.PersonID
	m.PersonType = d.PersonType
	m.PersonName = d.PersonName
	m.Department = d.Department
	m.Description = d.Description
	m.DueType = d.DueType
	m.Category = d.Category
	m.Amount = d.Amount

	m.Status = d.Status
	m.PaymentStatus = d.PaymentStatus

	m.DueDate = d.DueDate
	m.DateAdded = d.DateAdded
	m.ClearDate = d.ClearDate

	m.ClearedByPermission = d.ClearedByPermission
	m.ClearanceDocumentURL = d.ClearanceDocumentURL
	m.PermissionGrantedBy = d.PermissionGrantedBy
	m.PermissionGrantedDate = d.PermissionGrantedDate

	m.ScholarshipCertificateCleared = d.ScholarshipCertificateCleared
	m.ScholarshipSpecialPermission = d.ScholarshipSpecialPermission
	m.ScholarshipDocumentationRequired = d.ScholarshipDocumentationRequired

	m.CreatedBy = d.CreatedBy
}

// DueModelFromDomain creates a persistence model from a domain Due entity.
func DueModelFromDomain(d *dues.Due) *DueModel {
	m := &DueModel{}
	m.FromDomain(d)
	return m
}
