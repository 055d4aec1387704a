package trade

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shoporders/backend/internal/domain/catalog"
	"github.com/shoporders/backend/internal/domain/identity"
	"github.com/shoporders/backend/internal/domain/shared"
	"github.com/shoporders/backend/internal/domain/trade"
	"github.com/shoporders/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// OrderService handles the buyer's placed orders
type OrderService struct {
	orderRepo      trade.OrderRepository
	productRepo    catalog.ProductRepository
	contactRepo    identity.ContactRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo trade.OrderRepository,
	productRepo catalog.ProductRepository,
	contactRepo identity.ContactRepository,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		contactRepo: contactRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher for order events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// List returns the user's orders, newest first; the cart is not included
func (s *OrderService) List(ctx context.Context, userID uuid.UUID, filter shared.Filter) (shared.Paginated[OrderResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = shared.DefaultFilter().PageSize
	}
	orders, total, err := s.orderRepo.ListByUser(ctx, userID, filter)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}
	items := make([]OrderResponse, len(orders))
	for i, o := range orders {
		items[i] = ToOrderResponse(o)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Get returns one of the user's orders
func (s *OrderService) Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.findOwn(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.IsCart() {
		return nil, orderNotFound()
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// Place turns the user's cart into a new order. Stock is taken out in the same transaction.
func (s *OrderService) Place(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (resp *OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "OrderService", "Place",
		telemetry.SpanAttrUserID, userID.String(),
		telemetry.SpanAttrOrderID, req.ID,
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	orderID, err := uuid.Parse(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "id must be a valid order id")
	}
	contactID, err := uuid.Parse(strings.TrimSpace(req.Contact))
	if err != nil {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "contact must be a valid contact id")
	}

	order, err := s.findOwn(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsCart() {
		return nil, shared.NewDomainError(shared.ErrInvalidState.Code, "Order has already been placed")
	}

	contact, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if contact == nil || !contact.BelongsTo(userID) {
		return nil, shared.NewDomainError(shared.ErrNotFound.Code, "Contact not found")
	}

	reserve := order.StockToReserve()
	if err := s.checkStock(ctx, order, reserve); err != nil {
		return nil, err
	}

	if err := order.Place(contactID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithStock(ctx, order, reserve); err != nil {
		s.logger.Warn("Failed to place order", zap.String("order_id", order.ID.String()), zap.Error(err))
		return nil, err
	}
	s.publish(ctx, order)

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("total_sum", order.TotalSum().String()))

	placed := ToOrderResponse(order)
	return &placed, nil
}

// checkStock verifies that every line still refers to a product with enough stock
func (s *OrderService) checkStock(ctx context.Context, order *trade.Order, reserve []trade.StockChange) error {
	for _, item := range order.Items {
		if item.ProductID == nil {
			return shared.NewDomainError(ErrProductUnavailable.Code,
				fmt.Sprintf("Product %q is no longer available", item.ProductName))
		}
	}

	ids := make([]uuid.UUID, len(reserve))
	for i, c := range reserve {
		ids[i] = c.ProductID
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, c := range reserve {
		p, ok := byID[c.ProductID]
		if !ok {
			return shared.NewDomainError(ErrProductUnavailable.Code, "A product in the cart is no longer available")
		}
		if !p.InStock(-c.Delta) {
			return shared.NewDomainError(shared.ErrInsufficientStock.Code,
				fmt.Sprintf("Only %d of %q left in stock", p.Quantity, p.Name))
		}
	}
	return nil
}

// Cancel cancels a new or confirmed order and returns its stock
func (s *OrderService) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.findOwn(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.IsCart() {
		return nil, orderNotFound()
	}
	if !order.CanBeCanceledByBuyer() {
		return nil, shared.NewDomainError("INVALID_STATUS_TRANSITION",
			"Only new or confirmed orders can be canceled, this order is "+order.Status.String())
	}

	if err := order.Cancel(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithStock(ctx, order, order.StockToRelease()); err != nil {
		return nil, err
	}
	s.publish(ctx, order)

	s.logger.Info("Order canceled by buyer", zap.String("order_id", order.ID.String()))
	resp := ToOrderResponse(order)
	return &resp, nil
}

func (s *OrderService) findOwn(ctx context.Context, userID, orderID uuid.UUID) (*trade.Order, error) {
	order, err := s.orderRepo.FindByIDForUser(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, orderNotFound()
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, order *trade.Order) {
	events := order.GetDomainEvents()
	order.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish order events", zap.String("order_id", order.ID.String()), zap.Error(err))
	}
}

func orderNotFound() error {
	return shared.NewDomainError(shared.ErrNotFound.Code, "Order not found")
}
