package catalog

import (
	"github.com/shoporders/backend/internal/domain/shared"
)

// Aggregate type constant for Shop
const AggregateTypeShop = "Shop"

// Shop domain event types
const (
	EventTypeShopStateChanged  = "ShopStateChanged"
	EventTypePriceListImported = "PriceListImported"
)

// ShopStateChangedEvent is published when a shop starts or stops accepting orders
type ShopStateChangedEvent struct {
	shared.BaseDomainEvent
	Name  string `json:"name"`
	State bool   `json:"state"`
}

// NewShopStateChangedEvent creates a new ShopStateChangedEvent
func NewShopStateChangedEvent(shop *Shop) *ShopStateChangedEvent {
	return &ShopStateChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShopStateChanged, AggregateTypeShop, shop.ID),
		Name:            shop.Name,
		State:           shop.State,
	}
}

// PriceListImportedEvent is published after a shop's assortment was replaced
type PriceListImportedEvent struct {
	shared.BaseDomainEvent
	URL    string       `json:"url"`
	Result ImportResult `json:"result"`
}

// NewPriceListImportedEvent creates a new PriceListImportedEvent
func NewPriceListImportedEvent(shop *Shop, result ImportResult) *PriceListImportedEvent {
	return &PriceListImportedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePriceListImported, AggregateTypeShop, shop.ID),
		URL:             shop.URL,
		Result:          result,
	}
}
