package trade

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shoporders/backend/internal/domain/catalog"
	"github.com/shoporders/backend/internal/domain/shared"
	"github.com/shoporders/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// ErrProductUnavailable is returned for unknown products and products of shops not accepting orders
var ErrProductUnavailable = shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is not available")

// CartService manages the caller's cart. Every method works on the single
// order in status cart, creating it when the user has none.
type CartService struct {
	orderRepo   trade.OrderRepository
	productRepo catalog.ProductRepository
	shopRepo    catalog.ShopRepository
	logger      *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(
	orderRepo trade.OrderRepository,
	productRepo catalog.ProductRepository,
	shopRepo catalog.ShopRepository,
	logger *zap.Logger,
) *CartService {
	return &CartService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		shopRepo:    shopRepo,
		logger:      logger,
	}
}

// Get returns the cart with its totals
func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*OrderResponse, error) {
	cart, created, err := s.cart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if created {
		if err := s.orderRepo.Save(ctx, cart); err != nil {
			return nil, err
		}
	}
	resp := ToOrderResponse(cart)
	return &resp, nil
}

// AddItems puts products into the cart. The whole request fails on the first
// unavailable product or invalid quantity.
func (s *CartService) AddItems(ctx context.Context, userID uuid.UUID, req AddItemsRequest) (*AddItemsResult, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "items are required")
	}
	cart, _, err := s.cart(ctx, userID)
	if err != nil {
		return nil, err
	}

	shops := make(map[uuid.UUID]*catalog.Shop)
	touched := make(map[uuid.UUID]struct{})
	for _, in := range req.Items {
		product, err := s.resolveProduct(ctx, in, shops)
		if err != nil {
			return nil, err
		}

		inCart := 0
		for _, item := range cart.Items {
			if item.ShopID == product.ShopID && item.ExternalID == product.ExternalID {
				inCart = item.Quantity
			}
		}
		if in.Quantity < 1 || !product.InStock(inCart+in.Quantity) {
			return nil, shared.NewDomainError("INVALID_QUANTITY",
				fmt.Sprintf("Quantity of product %d must be between 1 and %d", product.ExternalID, product.Quantity-inCart))
		}

		item, err := cart.AddItem(trade.ProductSnapshot{
			ProductID:  product.ID,
			ShopID:     product.ShopID,
			CategoryID: product.CategoryID,
			ExternalID: product.ExternalID,
			Name:       product.Name,
			Price:      product.Price,
		}, in.Quantity)
		if err != nil {
			return nil, err
		}
		touched[item.ID] = struct{}{}
	}

	if err := s.orderRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	s.logger.Debug("Cart items added", zap.String("user_id", userID.String()), zap.Int("lines", len(touched)))
	return &AddItemsResult{NumObjects: len(touched)}, nil
}

// resolveProduct finds the product named by an add request in a shop that accepts orders
func (s *CartService) resolveProduct(ctx context.Context, in AddItemInput, shops map[uuid.UUID]*catalog.Shop) (*catalog.Product, error) {
	var shopID *uuid.UUID
	if raw := strings.TrimSpace(in.ShopID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "shop_id must be a valid id")
		}
		shopID = &id
	}

	candidates, err := s.productRepo.FindByExternalID(ctx, in.ExternalID, shopID)
	if err != nil {
		return nil, err
	}

	available := make([]*catalog.Product, 0, len(candidates))
	for _, p := range candidates {
		shop, ok := shops[p.ShopID]
		if !ok {
			shop, err = s.shopRepo.FindByID(ctx, p.ShopID)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
			shops[p.ShopID] = shop
		}
		if shop != nil && shop.State {
			available = append(available, p)
		}
	}

	switch len(available) {
	case 0:
		return nil, shared.NewDomainError(ErrProductUnavailable.Code,
			fmt.Sprintf("Product %d is not available", in.ExternalID))
	case 1:
		return available[0], nil
	default:
		return nil, shared.NewDomainError("AMBIGUOUS_PRODUCT",
			fmt.Sprintf("Product %d is sold by several shops, specify shop_id", in.ExternalID))
	}
}

// UpdateItems changes line quantities. Entries with an unknown id or a quantity below one are skipped.
func (s *CartService) UpdateItems(ctx context.Context, userID uuid.UUID, req UpdateItemsRequest) (*UpdateItemsResult, error) {
	cart, created, err := s.cart(ctx, userID)
	if err != nil {
		return nil, err
	}

	edited := 0
	for _, in := range req.Items {
		id, err := uuid.Parse(strings.TrimSpace(in.ID))
		if err != nil || in.Quantity < 1 {
			continue
		}
		ok, err := cart.UpdateItemQuantity(id, in.Quantity)
		if err != nil {
			return nil, err
		}
		if ok {
			edited++
		}
	}

	if edited > 0 || created {
		if err := s.orderRepo.Save(ctx, cart); err != nil {
			return nil, err
		}
	}
	return &UpdateItemsResult{EditObjects: edited}, nil
}

// DeleteItems removes the listed lines. Malformed ids are ignored; at least one valid id is required.
func (s *CartService) DeleteItems(ctx context.Context, userID uuid.UUID, rawIDs string) (*DeleteItemsResult, error) {
	ids, _ := shared.ParseIDList(rawIDs)
	if len(ids) == 0 {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "items must list at least one valid id")
	}

	cart, created, err := s.cart(ctx, userID)
	if err != nil {
		return nil, err
	}
	removed, err := cart.RemoveItems(ids)
	if err != nil {
		return nil, err
	}
	if removed > 0 || created {
		if err := s.orderRepo.Save(ctx, cart); err != nil {
			return nil, err
		}
	}
	return &DeleteItemsResult{DelObjects: removed}, nil
}

// cart loads the user's cart or builds a new unsaved one
func (s *CartService) cart(ctx context.Context, userID uuid.UUID) (*trade.Order, bool, error) {
	cart, err := s.orderRepo.FindCart(ctx, userID)
	if err == nil {
		return cart, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}
	cart, err = trade.NewCart(userID)
	if err != nil {
		return nil, false, err
	}
	return cart, true, nil
}
