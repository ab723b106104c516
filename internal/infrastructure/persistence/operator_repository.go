package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/campusclear/backend/internal/domain/identity"
	"github.com/campusclear/backend/internal/domain/shared"
	"github.com/campusclear/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOperatorRepository implements OperatorRepository using GORM
type GormOperatorRepository struct {
	db *gorm.DB
}

// NewGormOperatorRepository creates a new GormOperatorRepository
func NewGormOperatorRepository(db *gorm.DB) *GormOperatorRepository {
	return &GormOperatorRepository{db: db}
}

// FindByID finds an operator by its ID
func (r *GormOperatorRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Operator, error) {
	var model models.OperatorModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUsername finds an operator by username
func (r *GormOperatorRepository) FindByUsername(ctx context.Context, username string) (*identity.Operator, error) {
	var model models.OperatorModel
	if err := r.db.WithContext(ctx).
		Where("username = ?", strings.ToLower(strings.TrimSpace(username))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all operators ordered by username
func (r *GormOperatorRepository) FindAll(ctx context.Context) ([]identity.Operator, error) {
	var operatorModels []models.OperatorModel
	if err := r.db.WithContext(ctx).Order("username ASC").Find(&operatorModels).Error; err != nil {
		return nil, err
	}

	operators := make([]identity.Operator, len(operatorModels))
	for i, model := range operatorModels {
		operators[i] = *model.ToDomain()
	}
	return operators, nil
}

// Save creates or updates an operator
func (r *GormOperatorRepository) Save(ctx context.Context, operator *identity.Operator) error {
	model := models.OperatorModelFromDomain(operator)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormOperatorRepository implements OperatorRepository
var _ identity.OperatorRepository = (*GormOperatorRepository)(nil)
