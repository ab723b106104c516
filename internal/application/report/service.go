// Package report computes department due aggregates for dashboards.
package report

import (
	"context"
	"time"

	"github.com/campusclear/backend/internal/domain/dues"
	"github.com/campusclear/backend/internal/domain/identity"
	"github.com/campusclear/backend/internal/domain/report"
	"github.com/campusclear/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DepartmentDuesReport is the aggregate report returned to dashboards.
// Totals are a pure fold over the rows, so a fixed snapshot always produces
// identical numbers.
type DepartmentDuesReport struct {
	From        *time.Time                 `json:"from,omitempty"`
	To          *time.Time                 `json:"to,omitempty"`
	Departments []report.DepartmentDuesRow `json:"departments"`
	Rollup      report.DepartmentDuesRow   `json:"rollup"`

	// OwedElsewhere is populated only for single-department reports requested
	// by a caller with cross-department visibility: dues owed by this
	// department's members to other departments.
	OwedElsewhere []report.DepartmentDuesRow `json:"owed_elsewhere,omitempty"`
}

// Service is the read-side reporting engine
type Service struct {
	repo   report.Repository
	logger *zap.Logger
}

// NewService creates a new reporting service
func NewService(repo report.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Query carries the report parameters
type Query struct {
	From       *time.Time
	To         *time.Time
	Department string
}

// DepartmentDues aggregates pending dues per department for the actor's
// visible scope. Without a department filter, callers restricted to their own
// departments get exactly those; cross-department roles get the whole
// institute.
func (s *Service) DepartmentDues(ctx context.Context, actor identity.ActorContext, query Query) (*DepartmentDuesReport, error) {
	rng := report.Range{From: query.From, To: query.To}

	var scope []string
	if query.Department != "" {
		department := dues.NormalizeDepartment(query.Department)
		if !identity.CanViewDepartment(actor, department) {
			return nil, shared.NewDomainError(shared.ErrCodeForbidden, "Not permitted to view reports for department "+department)
		}
		scope = []string{department}
	} else {
		departments, all := identity.VisibleDepartments(actor)
		if !all {
			if len(departments) == 0 {
				return nil, shared.NewDomainError(shared.ErrCodeForbidden, "No department visibility")
			}
			scope = departments
		}
	}

	rows, err := s.repo.AggregatePendingByDepartment(ctx, rng, scope)
	if err != nil {
		s.logger.Error("Department aggregation failed", zap.Error(err))
		return nil, err
	}

	rep := &DepartmentDuesReport{
		From:        query.From,
		To:          query.To,
		Departments: rows,
		Rollup:      rollup(rows),
	}

	// Single-department dashboard: add the owed-elsewhere breakdown for
	// callers allowed to look across departments.
	if query.Department != "" && identity.HasCrossDepartmentVisibility(actor) {
		owed, err := s.repo.AggregateOwedByMembers(ctx, dues.NormalizeDepartment(query.Department), rng)
		if err != nil {
			s.logger.Error("Owed-elsewhere aggregation failed", zap.Error(err))
			return nil, err
		}
		rep.OwedElsewhere = owed
	}

	return rep, nil
}

// rollup folds department rows into the institute-wide total
func rollup(rows []report.DepartmentDuesRow) report.DepartmentDuesRow {
	total := report.DepartmentDuesRow{
		Department:       "ALL",
		PayableAmount:    decimal.Zero,
		NonPayableAmount: decimal.Zero,
	}
	for _, row := range rows {
		total.PayableDues += row.PayableDues
		total.PayableAmount = total.PayableAmount.Add(row.PayableAmount)
		total.NonPayableDues += row.NonPayableDues
		total.NonPayableAmount = total.NonPayableAmount.Add(row.NonPayableAmount)
	}
	return total
}
