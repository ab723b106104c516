package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
)

// Stable error codes of the due lifecycle. The domain raises these,
// the HTTP layer maps them onto status codes.
const (
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodePaymentRequired     = "PAYMENT_REQUIRED"
	ErrCodeDocumentRequired    = "DOCUMENT_REQUIRED"
	ErrCodeInvalidTransition   = "INVALID_TRANSITION"
	ErrCodeAlreadyResolved     = "ALREADY_RESOLVED"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
)

// HasCode reports whether err is a *DomainError carrying the given code
func HasCode(err error, code string) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == code
}
