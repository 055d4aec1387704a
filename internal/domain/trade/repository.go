package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shoporders/backend/internal/domain/shared"
)

// StockChange adjusts one product's stock by Delta units (negative takes stock out)
type StockChange struct {
	ProductID uuid.UUID
	Delta     int
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForUser finds an order that belongs to the user
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Order, error)

	// FindCart returns the user's cart or shared.ErrNotFound
	FindCart(ctx context.Context, userID uuid.UUID) (*Order, error)

	// ListByUser lists the user's placed orders (carts excluded), newest first
	ListByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*Order, int64, error)

	// ListForShop lists placed orders containing at least one line from the shop
	ListForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]*Order, int64, error)

	// Save persists the order and replaces its items, checking the version for concurrent edits
	Save(ctx context.Context, order *Order) error

	// SaveWithStock saves the order and applies the stock changes in one transaction.
	// It fails with shared.ErrInsufficientStock if any product would go negative.
	SaveWithStock(ctx context.Context, order *Order, changes []StockChange) error
}
