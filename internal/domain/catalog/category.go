package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shoporders/backend/internal/domain/shared"
)

const maxCategoryNameLength = 40

// Category groups products across shops
type Category struct {
	shared.BaseEntity
	Name    string
	ShopIDs []uuid.UUID
}

// NewCategory creates a category
func NewCategory(name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name cannot be empty")
	}
	if len([]rune(name)) > maxCategoryNameLength {
		return nil, shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name cannot exceed 40 characters")
	}
	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		ShopIDs:    make([]uuid.UUID, 0),
	}, nil
}

// AddShop links a shop to the category once
func (c *Category) AddShop(shopID uuid.UUID) {
	for _, id := range c.ShopIDs {
		if id == shopID {
			return
		}
	}
	c.ShopIDs = append(c.ShopIDs, shopID)
}
