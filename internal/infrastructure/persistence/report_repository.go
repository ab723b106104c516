package persistence

import (
	"context"

	"github.com/campusclear/backend/internal/domain/dues"
	"github.com/campusclear/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository implements the reporting aggregation queries using GORM.
// All queries group in SQL and return rows in department name order so a fixed
// snapshot always produces identical results.
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// departmentRow is the scan target for the grouped aggregates
type departmentRow struct {
	Department       string
	PayableDues      int64
	PayableAmount    decimal.Decimal
	NonPayableDues   int64
	NonPayableAmount decimal.Decimal
}

// AggregatePendingByDepartment groups pending dues by owning department.
// An empty departments slice means all departments.
func (r *GormReportRepository) AggregatePendingByDepartment(ctx context.Context, rng report.Range, departments []string) ([]report.DepartmentDuesRow, error) {
	query := r.db.WithContext(ctx).
		Table("dues").
		Select(`department,
			COALESCE(SUM(CASE WHEN category = ? THEN 1 ELSE 0 END), 0) AS payable_dues,
			COALESCE(SUM(CASE WHEN category = ? THEN amount ELSE 0 END), 0) AS payable_amount,
			COALESCE(SUM(CASE WHEN category = ? THEN 1 ELSE 0 END), 0) AS non_payable_dues,
			COALESCE(SUM(CASE WHEN category = ? THEN amount ELSE 0 END), 0) AS non_payable_amount`,
			dues.CategoryPayable, dues.CategoryPayable,
			dues.CategoryNonPayable, dues.CategoryNonPayable).
		Where("status = ?", dues.DueStatusPending)

	if len(departments) > 0 {
		query = query.Where("department IN ?", departments)
	}
	query = applyDateRange(query, rng)

	var rows []departmentRow
	if err := query.
		Group("department").
		Order("department ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	return toDomainRows(rows), nil
}

// AggregateOwedByMembers groups pending dues owed by the given department's
// members (students and faculty whose home department it is) to OTHER
// departments, keyed by the owed-to department.
func (r *GormReportRepository) AggregateOwedByMembers(ctx context.Context, department string, rng report.Range) ([]report.DepartmentDuesRow, error) {
	query := r.db.WithContext(ctx).
		Table("dues d").
		Select(`d.department,
			COALESCE(SUM(CASE WHEN d.category = ? THEN 1 ELSE 0 END), 0) AS payable_dues,
			COALESCE(SUM(CASE WHEN d.category = ? THEN d.amount ELSE 0 END), 0) AS payable_amount,
			COALESCE(SUM(CASE WHEN d.category = ? THEN 1 ELSE 0 END), 0) AS non_payable_dues,
			COALESCE(SUM(CASE WHEN d.category = ? THEN d.amount ELSE 0 END), 0) AS non_payable_amount`,
			dues.CategoryPayable, dues.CategoryPayable,
			dues.CategoryNonPayable, dues.CategoryNonPayable).
		Joins(`LEFT JOIN students s ON d.person_type = ? AND d.person_id = s.roll_number`, dues.PersonTypeStudent).
		Joins(`LEFT JOIN faculty f ON d.person_type = ? AND d.person_id = f.employee_id`, dues.PersonTypeFaculty).
		Where("d.status = ?", dues.DueStatusPending).
		Where("d.department <> ?", department).
		Where("s.department = ? OR f.department = ?", department, department)

	query = applyDateRangePrefixed(query, rng)

	var rows []departmentRow
	if err := query.
		Group("d.department").
		Order("d.department ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	return toDomainRows(rows), nil
}

func applyDateRange(query *gorm.DB, rng report.Range) *gorm.DB {
	if rng.From != nil {
		query = query.Where("date_added >= ?", *rng.From)
	}
	if rng.To != nil {
		query = query.Where("date_added <= ?", *rng.To)
	}
	return query
}

func applyDateRangePrefixed(query *gorm.DB, rng report.Range) *gorm.DB {
	if rng.From != nil {
		query = query.Where("d.date_added >= ?", *rng.From)
	}
	if rng.To != nil {
		query = query.Where("d.date_added <= ?", *rng.To)
	}
	return query
}

func toDomainRows(rows []departmentRow) []report.DepartmentDuesRow {
	out := make([]report.DepartmentDuesRow, len(rows))
	for i, row := range rows {
		out[i] = report.DepartmentDuesRow{
			Department:       row.Department,
			PayableDues:      row.PayableDues,
			PayableAmount:    row.PayableAmount,
			NonPayableDues:   row.NonPayableDues,
			NonPayableAmount: row.NonPayableAmount,
		}
	}
	return out
}

// Ensure GormReportRepository implements the reporting repository
var _ report.Repository = (*GormReportRepository)(nil)
