package persistence

import (
	"context"
	"errors"

	"github.com/campusclear/backend/internal/domain/dues"
	"github.com/campusclear/backend/internal/domain/shared"
	"github.com/campusclear/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDepartmentCatalog validates department names against the departments
// table and returns them in canonical form.
type GormDepartmentCatalog struct {
	db *gorm.DB
}

// NewGormDepartmentCatalog creates a new GormDepartmentCatalog
func NewGormDepartmentCatalog(db *gorm.DB) *GormDepartmentCatalog {
	return &GormDepartmentCatalog{db: db}
}

// Normalize returns the canonical uppercase department name, or a
// VALIDATION_ERROR domain error for unknown departments
func (r *GormDepartmentCatalog) Normalize(ctx context.Context, name string) (string, error) {
	canonical := dues.NormalizeDepartment(name)
	if canonical == "" {
		return "", shared.NewDomainError(shared.ErrCodeValidation, "Department is required")
	}

	var model models.DepartmentModel
	if err := r.db.WithContext(ctx).First(&model, "name = ?", canonical).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", shared.NewDomainError(shared.ErrCodeValidation, "Unknown department: "+canonical)
		}
		return "", err
	}

	return model.Name, nil
}

// ListDepartments returns all known departments in name order
func (r *GormDepartmentCatalog) ListDepartments(ctx context.Context) ([]string, error) {
	var departmentModels []models.DepartmentModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&departmentModels).Error; err != nil {
		return nil, err
	}

	names := make([]string, len(departmentModels))
	for i, model := range departmentModels {
		names[i] = model.Name
	}
	return names, nil
}

// Ensure GormDepartmentCatalog implements DepartmentCatalog
var _ dues.DepartmentCatalog = (*GormDepartmentCatalog)(nil)
