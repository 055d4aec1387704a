package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the direction to ASC or DESC; anything else is DESC
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "ASC") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField if whitelisted, otherwise defaultField
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// orderClause builds a safe ORDER BY expression for a table-qualified column
func orderClause(table, sortField, orderDir string, allowed map[string]bool, defaultField, defaultDir string) string {
	field := ValidateSortField(sortField, allowed, defaultField)
	dir := defaultDir
	if strings.TrimSpace(orderDir) != "" {
		dir = ValidateSortOrder(orderDir)
	}
	return table + "." + field + " " + dir
}

// ShopSortFields lists sortable shop columns
var ShopSortFields = map[string]bool{
	"name":       true,
	"created_at": true,
	"updated_at": true,
}

// CategorySortFields lists sortable category columns
var CategorySortFields = map[string]bool{
	"name":       true,
	"created_at": true,
}

// ProductSortFields lists sortable product columns
var ProductSortFields = map[string]bool{
	"name":        true,
	"model":       true,
	"price":       true,
	"price_rrc":   true,
	"quantity":    true,
	"external_id": true,
	"created_at":  true,
	"updated_at":  true,
}

// OrderSortFields lists sortable order columns
var OrderSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"status":     true,
}
