package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shoporders/backend/internal/domain/shared"
)

const (
	maxProductNameLength    = 80
	maxProductModelLength   = 80
	maxParameterValueLength = 100
)

// ProductParameter is a named characteristic of a product, e.g. "Color: black"
type ProductParameter struct {
	Name  string
	Value string
}

// Product is an item a shop offers, identified within the shop by its feed id
type Product struct {
	shared.BaseEntity
	ShopID     uuid.UUID
	CategoryID uuid.UUID
	ExternalID int64
	Name       string
	Model      string
	Quantity   int
	Price      decimal.Decimal
	PriceRRC   decimal.Decimal
	Parameters []ProductParameter
}

// NewProduct creates a product with validated price and stock
func NewProduct(
	shopID, categoryID uuid.UUID,
	externalID int64,
	name, model string,
	quantity int,
	price, priceRRC decimal.Decimal,
) (*Product, error) {
	p := &Product{
		BaseEntity: shared.NewBaseEntity(),
		ShopID:     shopID,
		CategoryID: categoryID,
		ExternalID: externalID,
		Name:       strings.TrimSpace(name),
		Model:      strings.TrimSpace(model),
		Quantity:   quantity,
		Price:      price,
		PriceRRC:   priceRRC,
		Parameters: make([]ProductParameter, 0),
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// SetParameter adds or replaces a parameter value
func (p *Product) SetParameter(name, value string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_PARAMETER", "Parameter name cannot be empty")
	}
	if len([]rune(value)) > maxParameterValueLength {
		return shared.NewDomainError("INVALID_PARAMETER", "Parameter value cannot exceed 100 characters")
	}
	for i := range p.Parameters {
		if p.Parameters[i].Name == name {
			p.Parameters[i].Value = value
			return nil
		}
	}
	p.Parameters = append(p.Parameters, ProductParameter{Name: name, Value: value})
	return nil
}

// InStock reports whether qty units can be sold
func (p *Product) InStock(qty int) bool {
	return qty > 0 && qty <= p.Quantity
}

// DecreaseStock takes qty units out of stock
func (p *Product) DecreaseStock(qty int) error {
	if !p.InStock(qty) {
		return shared.ErrInsufficientStock
	}
	p.Quantity -= qty
	return nil
}

// IncreaseStock returns qty units to stock
func (p *Product) IncreaseStock(qty int) {
	if qty > 0 {
		p.Quantity += qty
	}
}

func (p *Product) validate() error {
	if p.ShopID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product must belong to a shop")
	}
	if p.CategoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product must belong to a category")
	}
	if p.Name == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if len([]rune(p.Name)) > maxProductNameLength {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 80 characters")
	}
	if len([]rune(p.Model)) > maxProductModelLength {
		return shared.NewDomainError("INVALID_PRODUCT", "Product model cannot exceed 80 characters")
	}
	if p.Quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if p.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if p.PriceRRC.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Recommended retail price cannot be negative")
	}
	return nil
}
