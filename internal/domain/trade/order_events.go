package trade

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shoporders/backend/internal/domain/shared"
)

// Aggregate type constant for Order
const AggregateTypeOrder = "Order"

// Order domain event types
const (
	EventTypeOrderPlaced        = "OrderPlaced"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// OrderStatusEvent is implemented by events that announce an order's current status
type OrderStatusEvent interface {
	shared.DomainEvent
	OrderUserID() uuid.UUID
	CurrentStatus() OrderStatus
}

// OrderPlacedEvent is published when a cart becomes a new order
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	UserID        uuid.UUID       `json:"user_id"`
	ContactID     uuid.UUID       `json:"contact_id"`
	ShopIDs       []uuid.UUID     `json:"shop_ids"`
	TotalSum      decimal.Decimal `json:"total_sum"`
	TotalQuantity int             `json:"total_quantity"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	var contactID uuid.UUID
	if o.ContactID != nil {
		contactID = *o.ContactID
	}
	seen := make(map[uuid.UUID]struct{})
	shopIDs := make([]uuid.UUID, 0)
	for _, item := range o.Items {
		if _, ok := seen[item.ShopID]; !ok {
			seen[item.ShopID] = struct{}{}
			shopIDs = append(shopIDs, item.ShopID)
		}
	}
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		UserID:          o.UserID,
		ContactID:       contactID,
		ShopIDs:         shopIDs,
		TotalSum:        o.TotalSum(),
		TotalQuantity:   o.TotalQuantity(),
	}
}

// OrderUserID returns the buyer
func (e *OrderPlacedEvent) OrderUserID() uuid.UUID { return e.UserID }

// CurrentStatus returns the status the order was placed in
func (e *OrderPlacedEvent) CurrentStatus() OrderStatus { return OrderStatusNew }

// OrderStatusChangedEvent is published on every workflow transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	UserID    uuid.UUID   `json:"user_id"`
	OldStatus OrderStatus `json:"old_status"`
	NewStatus OrderStatus `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, oldStatus, newStatus OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		UserID:          o.UserID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// OrderUserID returns the buyer
func (e *OrderStatusChangedEvent) OrderUserID() uuid.UUID { return e.UserID }

// CurrentStatus returns the status after the transition
func (e *OrderStatusChangedEvent) CurrentStatus() OrderStatus { return e.NewStatus }
