package dues

import "context"

// Person is the minimal projection of an externally owned student or faculty
// record: the lifecycle engine only needs existence and a display name at
// due-creation time.
type Person struct {
	ID         string
	Type       PersonType
	Name       string
	Department string
}

// PersonDirectory looks up students and faculty by their external identifier
// (roll number or employee code, not an internal foreign key).
type PersonDirectory interface {
	// FindPerson returns the person record, or a NOT_FOUND domain error
	FindPerson(ctx context.Context, personType PersonType, personID string) (*Person, error)
}

// DepartmentCatalog validates and canonicalizes department names
type DepartmentCatalog interface {
	// Normalize returns the canonical uppercase department name, or a
	// VALIDATION_ERROR domain error for unknown departments
	Normalize(ctx context.Context, name string) (string, error)
}
