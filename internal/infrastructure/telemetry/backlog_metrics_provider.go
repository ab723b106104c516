// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormBacklogMetricsProvider implements BacklogMetricsProvider using GORM.
// It queries the dues table directly for the per-department pending backlog.
type GormBacklogMetricsProvider struct {
	db *gorm.DB
}

// NewGormBacklogMetricsProvider creates a new GormBacklogMetricsProvider.
func NewGormBacklogMetricsProvider(db *gorm.DB) *GormBacklogMetricsProvider {
	return &GormBacklogMetricsProvider{db: db}
}

// PendingBacklog returns the pending due count and amount per department.
func (p *GormBacklogMetricsProvider) PendingBacklog(ctx context.Context) ([]BacklogRow, error) {
	var rows []BacklogRow
	err := p.db.WithContext(ctx).
		Table("dues").
		Select("department, COUNT(*) as count, COALESCE(SUM(amount), 0) as amount").
		Where("status = ?", "pending").
		Group("department").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// Ensure GormBacklogMetricsProvider implements BacklogMetricsProvider
var _ BacklogMetricsProvider = (*GormBacklogMetricsProvider)(nil)
