package persistence

import (
	"context"
	"errors"

	"github.com/campusclear/backend/internal/domain/dues"
	"github.com/campusclear/backend/internal/domain/shared"
	"github.com/campusclear/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDueRepository implements DueRepository using GORM
type GormDueRepository struct {
	db *gorm.DB
}

// NewGormDueRepository creates a new GormDueRepository
func NewGormDueRepository(db *gorm.DB) *GormDueRepository {
	return &GormDueRepository{db: db}
}

// FindByID finds a due by its ID
func (r *GormDueRepository) FindByID(ctx context.Context, id uuid.UUID) (*dues.Due, error) {
	var model models.DueModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds dues matching the filter
func (r *GormDueRepository) FindAll(ctx context.Context, filter dues.DueFilter) ([]dues.Due, error) {
	var dueModels []models.DueModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.DueModel{}), filter)

	if err := query.Find(&dueModels).Error; err != nil {
		return nil, err
	}

	result := make([]dues.Due, len(dueModels))
	for i, model := range dueModels {
		result[i] = *model.ToDomain()
	}
	return result, nil
}

// Count counts dues matching the filter
func (r *GormDueRepository) Count(ctx context.Context, filter dues.DueFilter) (int64, error) {
	var count int64
	query := r.applyConditions(r.db.WithContext(ctx).Model(&models.DueModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a due
func (r *GormDueRepository) Save(ctx context.Context, due *dues.Due) error {
	model := models.DueModelFromDomain(due)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a due with optimistic locking (version check).
// Returns a CONCURRENCY_CONFLICT domain error if the stored version moved on.
func (r *GormDueRepository) SaveWithLock(ctx context.Context, due *dues.Due) error {
	model := models.DueModelFromDomain(due)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Where("id = ? AND version = ?", due.ID, due.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.ErrCodeConcurrencyConflict, "The due record has been modified by another transaction")
	}
	return nil
}

// applyFilter applies conditions, sorting and pagination
func (r *GormDueRepository) applyFilter(query *gorm.DB, filter dues.DueFilter) *gorm.DB {
	query = r.applyConditions(query, filter)

	sortField := ValidateSortField(filter.OrderBy, DueSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// applyConditions applies filter conditions without sorting or pagination
func (r *GormDueRepository) applyConditions(query *gorm.DB, filter dues.DueFilter) *gorm.DB {
	if len(filter.Departments) > 0 {
		query = query.Where("department IN ?", filter.Departments)
	}
	if filter.Department != nil {
		query = query.Where("department = ?", *filter.Department)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.DueType != nil {
		query = query.Where("due_type = ?", *filter.DueType)
	}
	if filter.PersonID != nil {
		query = query.Where("person_id = ?", *filter.PersonID)
	}
	if filter.PersonType != nil {
		query = query.Where("person_type = ?", *filter.PersonType)
	}
	if filter.Payment != nil {
		query = query.Where("payment_status = ?", *filter.Payment)
	}
	if filter.FromDate != nil {
		query = query.Where("date_added >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("date_added <= ?", *filter.ToDate)
	}
	return query
}

// Ensure GormDueRepository implements DueRepository
var _ dues.DueRepository = (*GormDueRepository)(nil)
