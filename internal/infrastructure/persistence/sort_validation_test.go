package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"invalid value returns DESC", "sideways", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE orders;--", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"whitelisted field", "price", "price"},
		{"empty uses default", "", "name"},
		{"unknown uses default", "password_hash", "name"},
		{"case sensitive", "PRICE", "name"},
		{"injection uses default", "price; DROP TABLE products", "name"},
		{"trimmed", " quantity ", "quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, ProductSortFields, "name"))
		})
	}
}

func TestOrderClause(t *testing.T) {
	t.Run("uses defaults when nothing requested", func(t *testing.T) {
		assert.Equal(t, "orders.created_at DESC", orderClause("orders", "", "", OrderSortFields, "created_at", "DESC"))
	})

	t.Run("explicit direction overrides default", func(t *testing.T) {
		assert.Equal(t, "shops.name DESC", orderClause("shops", "name", "desc", ShopSortFields, "name", "ASC"))
	})

	t.Run("rejects columns outside the whitelist", func(t *testing.T) {
		assert.Equal(t, "categories.name ASC", orderClause("categories", "id", "asc", CategorySortFields, "name", "ASC"))
	})
}
