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

// TankSortFields contains allowed sort fields for tanks
var TankSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"type":       true,
	"capacity":   true,
}

// LotSortFields contains allowed sort fields for lots
var LotSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"species":          true,
	"entry_date":       true,
	"exit_date":        true,
	"current_quantity": true,
	"status":           true,
}

// ActivityLogSortFields contains allowed sort fields for activity logs
var ActivityLogSortFields = map[string]bool{
	"created_at": true,
	"user_name":  true,
}
