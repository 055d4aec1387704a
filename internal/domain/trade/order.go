package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shoporders/backend/internal/domain/shared"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusCart      OrderStatus = "cart"
	OrderStatusNew       OrderStatus = "new"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusAssembled OrderStatus = "assembled"
	OrderStatusSent      OrderStatus = "sent"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusCart, OrderStatusNew, OrderStatusConfirmed, OrderStatusAssembled,
		OrderStatusSent, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusCart:
		return target == OrderStatusNew
	case OrderStatusNew:
		return target == OrderStatusConfirmed || target == OrderStatusCanceled
	case OrderStatusConfirmed:
		return target == OrderStatusAssembled || target == OrderStatusCanceled
	case OrderStatusAssembled:
		return target == OrderStatusSent || target == OrderStatusCanceled
	case OrderStatusSent:
		return target == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCanceled:
		return false // Terminal states
	}
	return false
}

// IsTerminal reports whether no further transitions exist
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCanceled
}

// ProductSnapshot is the product data copied into an order line when it is added
type ProductSnapshot struct {
	ProductID  uuid.UUID
	ShopID     uuid.UUID
	CategoryID uuid.UUID
	ExternalID int64
	Name       string
	Price      decimal.Decimal
}

// OrderItem is one line of an order
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   *uuid.UUID
	ShopID      uuid.UUID
	CategoryID  uuid.UUID
	ProductName string
	ExternalID  int64
	Quantity    int
	Price       decimal.Decimal
	TotalAmount decimal.Decimal // Price * Quantity
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewOrderItem creates an order line from a product snapshot
func NewOrderItem(orderID uuid.UUID, snap ProductSnapshot, quantity int) (*OrderItem, error) {
	if snap.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if snap.Name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if snap.Price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	now := time.Now()
	productID := snap.ProductID
	return &OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   &productID,
		ShopID:      snap.ShopID,
		CategoryID:  snap.CategoryID,
		ProductName: snap.Name,
		ExternalID:  snap.ExternalID,
		Quantity:    quantity,
		Price:       snap.Price,
		TotalAmount: snap.Price.Mul(decimal.NewFromInt(int64(quantity))),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateQuantity updates the item quantity and recalculates the total
func (i *OrderItem) UpdateQuantity(quantity int) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	i.Quantity = quantity
	i.TotalAmount = i.Price.Mul(decimal.NewFromInt(int64(quantity)))
	i.UpdatedAt = time.Now()
	return nil
}

// sameLine reports whether the snapshot refers to this line's product
func (i *OrderItem) sameLine(snap ProductSnapshot) bool {
	return i.ShopID == snap.ShopID && i.ExternalID == snap.ExternalID
}

// Order is the aggregate root for a buyer's cart and placed orders.
// A user has at most one order in status cart; placing it turns it into a new order.
type Order struct {
	shared.BaseAggregateRoot
	UserID    uuid.UUID
	Status    OrderStatus
	ContactID *uuid.UUID
	Items     []OrderItem
}

// NewCart creates an empty cart for the user
func NewCart(userID uuid.UUID) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Status:            OrderStatusCart,
		Items:             make([]OrderItem, 0),
	}, nil
}

// AddItem adds a product to the cart. A product already in the cart has its quantity increased.
// Returns the affected line.
func (o *Order) AddItem(snap ProductSnapshot, quantity int) (*OrderItem, error) {
	if !o.IsCart() {
		return nil, shared.NewDomainError("INVALID_STATE", "Can only modify items of a cart")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	for idx := range o.Items {
		if o.Items[idx].sameLine(snap) {
			item := &o.Items[idx]
			if err := item.UpdateQuantity(item.Quantity + quantity); err != nil {
				return nil, err
			}
			o.touch()
			return item, nil
		}
	}

	item, err := NewOrderItem(o.ID, snap, quantity)
	if err != nil {
		return nil, err
	}
	o.Items = append(o.Items, *item)
	o.touch()
	return &o.Items[len(o.Items)-1], nil
}

// UpdateItemQuantity sets the quantity of a cart line; false when the line does not exist
func (o *Order) UpdateItemQuantity(itemID uuid.UUID, quantity int) (bool, error) {
	if !o.IsCart() {
		return false, shared.NewDomainError("INVALID_STATE", "Can only modify items of a cart")
	}
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			if err := o.Items[idx].UpdateQuantity(quantity); err != nil {
				return false, err
			}
			o.touch()
			return true, nil
		}
	}
	return false, nil
}

// RemoveItems deletes the listed cart lines and returns how many were removed
func (o *Order) RemoveItems(itemIDs []uuid.UUID) (int, error) {
	if !o.IsCart() {
		return 0, shared.NewDomainError("INVALID_STATE", "Can only modify items of a cart")
	}
	drop := make(map[uuid.UUID]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		drop[id] = struct{}{}
	}
	kept := make([]OrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := drop[item.ID]; !ok {
			kept = append(kept, item)
		}
	}
	removed := len(o.Items) - len(kept)
	if removed > 0 {
		o.Items = kept
		o.touch()
	}
	return removed, nil
}

// GetItem returns the line with the given ID
func (o *Order) GetItem(itemID uuid.UUID) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// Place turns the cart into a new order delivered to the given contact
func (o *Order) Place(contactID uuid.UUID) error {
	if !o.IsCart() {
		return shared.NewDomainError("INVALID_STATE", "Only a cart can be placed")
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("EMPTY_CART", "Cannot place an empty cart")
	}
	if contactID == uuid.Nil {
		return shared.NewDomainError("INVALID_CONTACT", "Contact is required to place an order")
	}

	o.ContactID = &contactID
	o.Status = OrderStatusNew
	o.touch()

	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return nil
}

// ChangeStatus moves a placed order along the delivery workflow
func (o *Order) ChangeStatus(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+string(target))
	}
	if o.IsCart() {
		return shared.NewDomainError("INVALID_STATE", "Cart status changes only by placing the order")
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			"Cannot change order status from "+o.Status.String()+" to "+target.String())
	}

	old := o.Status
	o.Status = target
	o.touch()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, old, target))
	return nil
}

// Cancel cancels a placed order
func (o *Order) Cancel() error {
	return o.ChangeStatus(OrderStatusCanceled)
}

// CanBeCanceledByBuyer reports whether the buyer may still cancel the order
func (o *Order) CanBeCanceledByBuyer() bool {
	return o.Status == OrderStatusNew || o.Status == OrderStatusConfirmed
}

// TotalSum is the sum of line totals
func (o *Order) TotalSum() decimal.Decimal {
	return sumItems(o.Items)
}

// TotalQuantity is the sum of line quantities
func (o *Order) TotalQuantity() int {
	return countItems(o.Items)
}

// ItemsForShop returns the lines supplied by one shop
func (o *Order) ItemsForShop(shopID uuid.UUID) []OrderItem {
	items := make([]OrderItem, 0)
	for _, item := range o.Items {
		if item.ShopID == shopID {
			items = append(items, item)
		}
	}
	return items
}

// HasItemsFromShop reports whether any line comes from the shop
func (o *Order) HasItemsFromShop(shopID uuid.UUID) bool {
	for _, item := range o.Items {
		if item.ShopID == shopID {
			return true
		}
	}
	return false
}

// BelongsTo reports whether the order was made by the user
func (o *Order) BelongsTo(userID uuid.UUID) bool {
	return o.UserID == userID
}

// IsCart returns true while the order is still a shopping cart
func (o *Order) IsCart() bool {
	return o.Status == OrderStatusCart
}

// touch stamps the change; the version is advanced by the repository once per save
func (o *Order) touch() {
	o.Touch()
}

// SumItems totals a set of lines, e.g. one shop's share of an order
func SumItems(items []OrderItem) (decimal.Decimal, int) {
	return sumItems(items), countItems(items)
}

func sumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalAmount)
	}
	return total
}

func countItems(items []OrderItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// StockToReserve lists the stock taken out when the order is placed
func (o *Order) StockToReserve() []StockChange {
	return o.stockChanges(-1)
}

// StockToRelease lists the stock returned when the order is canceled.
// Lines whose product was deleted are skipped.
func (o *Order) StockToRelease() []StockChange {
	return o.stockChanges(1)
}

func (o *Order) stockChanges(sign int) []StockChange {
	byProduct := make(map[uuid.UUID]int, len(o.Items))
	order := make([]uuid.UUID, 0, len(o.Items))
	for _, item := range o.Items {
		if item.ProductID == nil {
			continue
		}
		if _, seen := byProduct[*item.ProductID]; !seen {
			order = append(order, *item.ProductID)
		}
		byProduct[*item.ProductID] += item.Quantity
	}
	changes := make([]StockChange, 0, len(order))
	for _, id := range order {
		changes = append(changes, StockChange{ProductID: id, Delta: sign * byProduct[id]})
	}
	return changes
}
