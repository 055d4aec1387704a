package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shoporders/backend/internal/domain/trade"
)

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   *uuid.UUID      `json:"product_id"`
	ShopID      uuid.UUID       `json:"shop_id"`
	CategoryID  uuid.UUID       `json:"category_id"`
	ExternalID  int64           `json:"external_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// OrderResponse represents a cart or an order in API responses
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	UserID        uuid.UUID           `json:"user_id"`
	Status        string              `json:"status"`
	ContactID     *uuid.UUID          `json:"contact_id"`
	Items         []OrderItemResponse `json:"items"`
	TotalSum      decimal.Decimal     `json:"total_sum"`
	TotalQuantity int                 `json:"total_quantity"`
	Version       int                 `json:"version"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// ToOrderResponse converts a domain order to a response DTO
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ShopID:      item.ShopID,
			CategoryID:  item.CategoryID,
			ExternalID:  item.ExternalID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			TotalAmount: item.TotalAmount,
		}
	}
	return OrderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		Status:        o.Status.String(),
		ContactID:     o.ContactID,
		Items:         items,
		TotalSum:      o.TotalSum(),
		TotalQuantity: o.TotalQuantity(),
		Version:       o.Version,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// AddItemInput names a product by its feed id. ShopID is needed only when
// several shops list the same external id.
type AddItemInput struct {
	ExternalID int64  `json:"external_id" binding:"required"`
	ShopID     string `json:"shop_id"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
}

// AddItemsRequest adds products to the cart
type AddItemsRequest struct {
	Items []AddItemInput `json:"items" binding:"required,min=1,dive"`
}

// AddItemsResult reports how many cart lines were created or updated
type AddItemsResult struct {
	NumObjects int `json:"num_objects"`
}

// UpdateItemInput sets the quantity of one cart line
type UpdateItemInput struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// UpdateItemsRequest changes cart line quantities
type UpdateItemsRequest struct {
	Items []UpdateItemInput `json:"items" binding:"required"`
}

// UpdateItemsResult reports how many cart lines were changed
type UpdateItemsResult struct {
	EditObjects int `json:"edit_objects"`
}

// DeleteItemsResult reports how many cart lines were removed
type DeleteItemsResult struct {
	DelObjects int `json:"del_objects"`
}

// PlaceOrderRequest turns the cart into an order
type PlaceOrderRequest struct {
	ID      string `json:"id" binding:"required"`
	Contact string `json:"contact" binding:"required"`
}
