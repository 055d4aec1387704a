package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shoporders/backend/internal/domain/shared"
)

// ShopRepository persists shops
type ShopRepository interface {
	Save(ctx context.Context, shop *Shop) error
	FindByID(ctx context.Context, id uuid.UUID) (*Shop, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Shop, error)
	FindByName(ctx context.Context, name string) (*Shop, error)
	// FindActive returns shops that accept orders
	FindActive(ctx context.Context, filter shared.Filter) ([]*Shop, int64, error)
}

// CategoryRepository persists categories
type CategoryRepository interface {
	Save(ctx context.Context, category *Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Category, int64, error)
}

// ProductFilter narrows catalog listings
type ProductFilter struct {
	shared.Filter
	ShopID     *uuid.UUID
	CategoryID *uuid.UUID
	// ActiveShopsOnly hides products of shops that do not accept orders
	ActiveShopsOnly bool
}

// Assortment is the full replacement data for one shop
type Assortment struct {
	Categories []*Category
	Products   []*Product
}

// ProductRepository persists products and their parameters
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error)
	// FindByExternalID returns products with the feed id, optionally restricted to one shop
	FindByExternalID(ctx context.Context, externalID int64, shopID *uuid.UUID) ([]*Product, error)
	FindAll(ctx context.Context, filter ProductFilter) ([]*Product, int64, error)
	// ReplaceShopAssortment upserts the shop's categories and products, drops products
	// missing from the assortment and rewrites parameters, in one transaction
	ReplaceShopAssortment(ctx context.Context, shopID uuid.UUID, assortment Assortment) (ImportResult, error)
}
