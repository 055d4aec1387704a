package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shoporders/backend/internal/domain/catalog"
)

// ShopModel maps shops
type ShopModel struct {
	AggregateModel
	Name   string     `gorm:"type:varchar(50);not null;uniqueIndex:uq_shops_name"`
	URL    string     `gorm:"type:varchar(2048)"`
	UserID *uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_shops_user"`
	State  bool       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ShopModel) TableName() string {
	return "shops"
}

// ToDomain converts to a domain Shop
func (m *ShopModel) ToDomain() *catalog.Shop {
	return &catalog.Shop{
		BaseAggregateRoot: m.ToDomainAggregate(),
		Name:              m.Name,
		URL:               m.URL,
		UserID:            m.UserID,
		State:             m.State,
	}
}

// ShopModelFromDomain builds a model from a domain Shop
func ShopModelFromDomain(s *catalog.Shop) *ShopModel {
	m := &ShopModel{
		Name:   s.Name,
		URL:    s.URL,
		UserID: s.UserID,
		State:  s.State,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}

// CategoryModel maps categories
type CategoryModel struct {
	BaseModel
	Name string `gorm:"type:varchar(40);not null;uniqueIndex:uq_categories_name"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts to a domain Category; shop links are loaded by the repository
func (m *CategoryModel) ToDomain(shopIDs []uuid.UUID) *catalog.Category {
	if shopIDs == nil {
		shopIDs = make([]uuid.UUID, 0)
	}
	return &catalog.Category{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		ShopIDs:    shopIDs,
	}
}

// CategoryModelFromDomain builds a model from a domain Category
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{Name: c.Name}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// ShopCategoryModel maps the shop_categories join table
type ShopCategoryModel struct {
	ShopID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	CategoryID uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_shop_categories_category"`
}

// TableName returns the table name for GORM
func (ShopCategoryModel) TableName() string {
	return "shop_categories"
}

// ProductModel maps products
type ProductModel struct {
	BaseModel
	ShopID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_products_shop_external,priority:1"`
	CategoryID uuid.UUID       `gorm:"type:uuid;not null;index:idx_products_category"`
	ExternalID int64           `gorm:"not null;uniqueIndex:uq_products_shop_external,priority:2"`
	Name       string          `gorm:"type:varchar(80);not null"`
	Model      string          `gorm:"type:varchar(80)"`
	Quantity   int             `gorm:"not null;default:0"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PriceRRC   decimal.Decimal `gorm:"column:price_rrc;type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts to a domain Product; parameters are loaded by the repository
func (m *ProductModel) ToDomain(params []catalog.ProductParameter) *catalog.Product {
	if params == nil {
		params = make([]catalog.ProductParameter, 0)
	}
	return &catalog.Product{
		BaseEntity: m.BaseModel.ToDomain(),
		ShopID:     m.ShopID,
		CategoryID: m.CategoryID,
		ExternalID: m.ExternalID,
		Name:       m.Name,
		Model:      m.Model,
		Quantity:   m.Quantity,
		Price:      m.Price,
		PriceRRC:   m.PriceRRC,
		Parameters: params,
	}
}

// ProductModelFromDomain builds a model from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		ShopID:     p.ShopID,
		CategoryID: p.CategoryID,
		ExternalID: p.ExternalID,
		Name:       p.Name,
		Model:      p.Model,
		Quantity:   p.Quantity,
		Price:      p.Price,
		PriceRRC:   p.PriceRRC,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// ParameterModel maps parameters
type ParameterModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(40);not null;uniqueIndex:uq_parameters_name"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ParameterModel) TableName() string {
	return "parameters"
}

// ProductParameterModel maps product_parameters
type ProductParameterModel struct {
	ProductID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	ParameterID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Value       string    `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (ProductParameterModel) TableName() string {
	return "product_parameters"
}
