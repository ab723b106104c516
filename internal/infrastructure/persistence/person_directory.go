package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/campusclear/backend/internal/domain/dues"
	"github.com/campusclear/backend/internal/domain/shared"
	"github.com/campusclear/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPersonDirectory resolves students and faculty from the campus directory
// tables by their natural identifiers (roll number, employee ID).
type GormPersonDirectory struct {
	db *gorm.DB
}

// NewGormPersonDirectory creates a new GormPersonDirectory
func NewGormPersonDirectory(db *gorm.DB) *GormPersonDirectory {
	return &GormPersonDirectory{db: db}
}

// FindPerson returns the person record, or a NOT_FOUND domain error
func (r *GormPersonDirectory) FindPerson(ctx context.Context, personType dues.PersonType, personID string) (*dues.Person, error) {
	personID = strings.TrimSpace(personID)
	if personID == "" {
		return nil, shared.NewDomainError(shared.ErrCodeValidation, "Person ID is required")
	}

	switch personType {
	case dues.PersonTypeStudent:
		var model models.StudentModel
		if err := r.db.WithContext(ctx).First(&model, "roll_number = ?", personID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, shared.NewDomainError(shared.ErrCodeNotFound, "Student not found: "+personID)
			}
			return nil, err
		}
		return &dues.Person{
			ID:         model.RollNumber,
			Type:       dues.PersonTypeStudent,
			Name:       model.Name,
			Department: model.Department,
		}, nil

	case dues.PersonTypeFaculty:
		var model models.FacultyModel
		if err := r.db.WithContext(ctx).First(&model, "employee_id = ?", personID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, shared.NewDomainError(shared.ErrCodeNotFound, "Faculty member not found: "+personID)
			}
			return nil, err
		}
		return &dues.Person{
			ID:         model.EmployeeID,
			Type:       dues.PersonTypeFaculty,
			Name:       model.Name,
			Department: model.Department,
		}, nil

	default:
		return nil, shared.NewDomainError(shared.ErrCodeValidation, "Person type must be Student or Faculty")
	}
}

// Ensure GormPersonDirectory implements PersonDirectory
var _ dues.PersonDirectory = (*GormPersonDirectory)(nil)
