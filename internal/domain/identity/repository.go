package identity

import (
	"context"

	"github.com/google/uuid"
)

// OperatorRepository defines the interface for operator persistence
type OperatorRepository interface {
	// FindByID finds an operator by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Operator, error)

	// FindByUsername finds an operator by username
	FindByUsername(ctx context.Context, username string) (*Operator, error)

	// FindAll returns all operators
	FindAll(ctx context.Context) ([]Operator, error)

	// Save creates or updates an operator
	Save(ctx context.Context, operator *Operator) error
}
