package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shoporders/backend/internal/domain/catalog"
	"github.com/shoporders/backend/internal/domain/trade"
)

// Product listing limits
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ShopResponse is the public view of a shop
type ShopResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	URL   string    `json:"url,omitempty"`
	State bool      `json:"state"`
}

// ToShopResponse converts a domain shop
func ToShopResponse(s *catalog.Shop) ShopResponse {
	return ShopResponse{ID: s.ID, Name: s.Name, URL: s.URL, State: s.State}
}

// CategoryResponse is the public view of a category
type CategoryResponse struct {
	ID    uuid.UUID   `json:"id"`
	Name  string      `json:"name"`
	Shops []uuid.UUID `json:"shops"`
}

// ToCategoryResponse converts a domain category
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	shops := c.ShopIDs
	if shops == nil {
		shops = []uuid.UUID{}
	}
	return CategoryResponse{ID: c.ID, Name: c.Name, Shops: shops}
}

// CreateCategoryRequest adds a category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=40"`
}

// ParameterResponse is one product characteristic
type ParameterResponse struct {
	Name  string `json:"parameter"`
	Value string `json:"value"`
}

// ProductResponse is the catalog view of a product
type ProductResponse struct {
	ID         uuid.UUID           `json:"id"`
	ShopID     uuid.UUID           `json:"shop_id"`
	CategoryID uuid.UUID           `json:"category_id"`
	ExternalID int64               `json:"external_id"`
	Name       string              `json:"name"`
	Model      string              `json:"model"`
	Quantity   int                 `json:"quantity"`
	Price      decimal.Decimal     `json:"price"`
	PriceRRC   decimal.Decimal     `json:"price_rrc"`
	Parameters []ParameterResponse `json:"parameters"`
}

// ToProductResponse converts a domain product
func ToProductResponse(p *catalog.Product) ProductResponse {
	params := make([]ParameterResponse, len(p.Parameters))
	for i, param := range p.Parameters {
		params[i] = ParameterResponse{Name: param.Name, Value: param.Value}
	}
	return ProductResponse{
		ID:         p.ID,
		ShopID:     p.ShopID,
		CategoryID: p.CategoryID,
		ExternalID: p.ExternalID,
		Name:       p.Name,
		Model:      p.Model,
		Quantity:   p.Quantity,
		Price:      p.Price,
		PriceRRC:   p.PriceRRC,
		Parameters: params,
	}
}

// ProductListQuery holds the catalog query string
type ProductListQuery struct {
	ShopID     string `form:"shop_id"`
	CategoryID string `form:"category_id"`
	Search     string `form:"search"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir"`
}

// PriceListRequest points at a shop's YAML feed
type PriceListRequest struct {
	URL string `json:"url"`
}

// ImportSummary reports the outcome of a price list import
type ImportSummary struct {
	Shop ShopResponse `json:"shop"`
	catalog.ImportResult
	// ArchiveKey locates the archived feed when object storage is enabled
	ArchiveKey string `json:"archive_key,omitempty"`
}

// ImportQueued is returned when the import runs in the background
type ImportQueued struct {
	TaskID string `json:"task_id"`
}

// StateRequest toggles order acceptance. State is a strtobool string.
type StateRequest struct {
	State string `json:"state"`
}

// ChangeStatusRequest moves a partner order along the delivery workflow
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ShopOrderItemResponse is one of the shop's lines in an order
type ShopOrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   *uuid.UUID      `json:"product_id"`
	ExternalID  int64           `json:"external_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// ShopOrderResponse is an order as a shop sees it: only the shop's lines
type ShopOrderResponse struct {
	ID            uuid.UUID               `json:"id"`
	Status        string                  `json:"status"`
	ContactID     *uuid.UUID              `json:"contact_id"`
	Items         []ShopOrderItemResponse `json:"items"`
	TotalSum      decimal.Decimal         `json:"total_sum"`
	TotalQuantity int                     `json:"total_quantity"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// ToShopOrderResponse builds the shop's view of an order
func ToShopOrderResponse(o *trade.Order, shopID uuid.UUID) ShopOrderResponse {
	lines := o.ItemsForShop(shopID)
	items := make([]ShopOrderItemResponse, len(lines))
	for i, item := range lines {
		items[i] = ShopOrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ExternalID:  item.ExternalID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			TotalAmount: item.TotalAmount,
		}
	}
	sum, qty := trade.SumItems(lines)
	return ShopOrderResponse{
		ID:            o.ID,
		Status:        o.Status.String(),
		ContactID:     o.ContactID,
		Items:         items,
		TotalSum:      sum,
		TotalQuantity: qty,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
