package dues

import (
	"context"
	"time"

	"github.com/campusclear/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DueFilter defines filtering options for due queries
type DueFilter struct {
	shared.Filter
	Departments []string       // Restrict to these departments (visibility scope)
	Department  *string        // Filter by a single department
	Status      *DueStatus     // Filter by resolution status
	Category    *Category      // Filter by category
	DueType     *DueType       // Filter by due type
	PersonID    *string        // Filter by owing party
	PersonType  *PersonType    // Filter by person type
	Payment     *PaymentStatus // Filter by payment status
	FromDate    *time.Time     // Filter by date-added range start
	ToDate      *time.Time     // Filter by date-added range end
}

// DueRepository defines the interface for due persistence
type DueRepository interface {
	// FindByID finds a due by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Due, error)

	// FindAll finds dues matching the filter
	FindAll(ctx context.Context, filter DueFilter) ([]Due, error)

	// Count counts dues matching the filter
	Count(ctx context.Context, filter DueFilter) (int64, error)

	// Save creates or updates a due
	Save(ctx context.Context, due *Due) error

	// SaveWithLock saves with optimistic locking (version check). Returns a
	// CONCURRENCY_CONFLICT domain error when the stored version moved on.
	SaveWithLock(ctx context.Context, due *Due) error
}
