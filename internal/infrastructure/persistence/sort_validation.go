package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// DueSortFields contains allowed sort fields for dues
var DueSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"date_added":     true,
	"due_date":       true,
	"clear_date":     true,
	"department":     true,
	"person_id":      true,
	"person_name":    true,
	"due_type":       true,
	"status":         true,
	"payment_status": true,
	"amount":         true,
}

// OperatorSortFields contains allowed sort fields for operators
var OperatorSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"username":   true,
	"department": true,
}
