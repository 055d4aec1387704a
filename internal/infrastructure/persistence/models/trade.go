package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shoporders/backend/internal/domain/trade"
)

// OrderModel maps orders. A partial unique index keeps one cart per user.
type OrderModel struct {
	AggregateModel
	UserID    uuid.UUID         `gorm:"type:uuid;not null;index:idx_orders_user;uniqueIndex:uq_orders_user_cart,where:status = 'cart'"`
	Status    trade.OrderStatus `gorm:"type:varchar(15);not null;index:idx_orders_status"`
	ContactID *uuid.UUID        `gorm:"type:uuid"`
	Items     []OrderItemModel  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts to a domain Order including its items
func (m *OrderModel) ToDomain() *trade.Order {
	items := make([]trade.OrderItem, len(m.Items))
	for i := range m.Items {
		items[i] = m.Items[i].ToDomain()
	}
	return &trade.Order{
		BaseAggregateRoot: m.ToDomainAggregate(),
		UserID:            m.UserID,
		Status:            m.Status,
		ContactID:         m.ContactID,
		Items:             items,
	}
}

// OrderModelFromDomain builds a model from a domain Order. Items are mapped too.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{
		UserID:    o.UserID,
		Status:    o.Status,
		ContactID: o.ContactID,
		Items:     make([]OrderItemModel, len(o.Items)),
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	for i := range o.Items {
		m.Items[i] = OrderItemModelFromDomain(o.ID, &o.Items[i])
	}
	return m
}

// OrderItemModel maps order_items. product_id survives product deletion as NULL.
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_order_items_line,priority:1"`
	ProductID   *uuid.UUID      `gorm:"type:uuid;index:idx_order_items_product"`
	ShopID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_order_items_shop;uniqueIndex:uq_order_items_line,priority:2"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(80);not null"`
	ExternalID  int64           `gorm:"not null;uniqueIndex:uq_order_items_line,priority:3"`
	Quantity    int             `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts to a domain OrderItem
func (m *OrderItemModel) ToDomain() trade.OrderItem {
	return trade.OrderItem{
		ID:          m.ID,
		OrderID:     m.OrderID,
		ProductID:   m.ProductID,
		ShopID:      m.ShopID,
		CategoryID:  m.CategoryID,
		ProductName: m.ProductName,
		ExternalID:  m.ExternalID,
		Quantity:    m.Quantity,
		Price:       m.Price,
		TotalAmount: m.TotalAmount,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// OrderItemModelFromDomain builds a model from a domain OrderItem
func OrderItemModelFromDomain(orderID uuid.UUID, i *trade.OrderItem) OrderItemModel {
	return OrderItemModel{
		ID:          i.ID,
		OrderID:     orderID,
		ProductID:   i.ProductID,
		ShopID:      i.ShopID,
		CategoryID:  i.CategoryID,
		ProductName: i.ProductName,
		ExternalID:  i.ExternalID,
		Quantity:    i.Quantity,
		Price:       i.Price,
		TotalAmount: i.TotalAmount,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

// All lists every model, in dependency order, for AutoMigrate in tests
func All() []any {
	return []any{
		&UserModel{},
		&ConfirmEmailTokenModel{},
		&ContactModel{},
		&ShopModel{},
		&CategoryModel{},
		&ShopCategoryModel{},
		&ProductModel{},
		&ParameterModel{},
		&ProductParameterModel{},
		&OrderModel{},
		&OrderItemModel{},
	}
}
