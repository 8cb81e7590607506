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

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"date":          true,
	"display_id":    true,
	"status":        true,
	"customer_name": true,
}

// ReturnRequestSortFields contains allowed sort fields for post-sale requests
var ReturnRequestSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"date":           true,
	"request_number": true,
	"status":         true,
	"type":           true,
}

// orderClause builds a whitelisted ORDER BY clause with a stable id tiebreak
func orderClause(requested, dir string, allowed map[string]bool, defaultField string) string {
	direction := ValidateSortOrder(dir)
	return ValidateSortField(requested, allowed, defaultField) + " " + direction + ", id " + direction
}
