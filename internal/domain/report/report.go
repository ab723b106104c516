// Package report defines the read-side aggregation model over dues.
package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DepartmentDuesRow is one department's pending-due aggregate, split by category
type DepartmentDuesRow struct {
	Department       string          `json:"department"`
	PayableDues      int64           `json:"payable_dues"`
	PayableAmount    decimal.Decimal `json:"payable_amount"`
	NonPayableDues   int64           `json:"non_payable_dues"`
	NonPayableAmount decimal.Decimal `json:"non_payable_amount"`
}

// TotalDues returns the combined pending count
func (r DepartmentDuesRow) TotalDues() int64 {
	return r.PayableDues + r.NonPayableDues
}

// TotalAmount returns the combined pending amount
func (r DepartmentDuesRow) TotalAmount() decimal.Decimal {
	return r.PayableAmount.Add(r.NonPayableAmount)
}

// Range is an optional date-added window for aggregation queries
type Range struct {
	From *time.Time
	To   *time.Time
}

// Repository defines the aggregation queries the reporting engine needs.
// Implementations must be deterministic over a fixed snapshot: stable ordering,
// no sampling, no cached partial sums.
type Repository interface {
	// AggregatePendingByDepartment groups pending dues by owning department.
	// An empty departments slice means all departments. Rows come back ordered
	// by department name.
	AggregatePendingByDepartment(ctx context.Context, r Range, departments []string) ([]DepartmentDuesRow, error)

	// AggregateOwedByMembers groups pending dues owed by the given department's
	// members (students and faculty whose home department it is) to OTHER
	// departments, keyed by the owed-to department.
	AggregateOwedByMembers(ctx context.Context, department string, r Range) ([]DepartmentDuesRow, error)
}
