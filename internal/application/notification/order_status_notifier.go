package notification

import (
	"context"
	"fmt"

	"github.com/shoporders/backend/internal/domain/identity"
	"github.com/shoporders/backend/internal/domain/shared"
	"github.com/shoporders/backend/internal/domain/trade"
	"github.com/shoporders/backend/internal/infrastructure/mail"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// OrderStatusSubject is the subject of every order status e-mail
const OrderStatusSubject = "Order status changed"

// OrderStatusNotifier e-mails the buyer whenever an order is placed or changes status
type OrderStatusNotifier struct {
	userRepo   identity.UserRepository
	dispatcher *MailDispatcher
	upper      cases.Caser
	logger     *zap.Logger
}

// NewOrderStatusNotifier creates a new notifier
func NewOrderStatusNotifier(userRepo identity.UserRepository, dispatcher *MailDispatcher, logger *zap.Logger) *OrderStatusNotifier {
	return &OrderStatusNotifier{
		userRepo:   userRepo,
		dispatcher: dispatcher,
		upper:      cases.Upper(language.Und),
		logger:     logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderStatusNotifier) EventTypes() []string {
	return []string{trade.EventTypeOrderPlaced, trade.EventTypeOrderStatusChanged}
}

// Handle sends the status e-mail for an order event
func (h *OrderStatusNotifier) Handle(ctx context.Context, event shared.DomainEvent) error {
	statusEvent, ok := event.(trade.OrderStatusEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}

	user, err := h.userRepo.FindByID(ctx, statusEvent.OrderUserID())
	if err != nil {
		return fmt.Errorf("load buyer of order %s: %w", event.AggregateID(), err)
	}

	msg := h.Message(user.Email, event.AggregateID().String(), statusEvent.CurrentStatus())
	if err := h.dispatcher.Dispatch(ctx, msg); err != nil {
		return fmt.Errorf("dispatch order status e-mail: %w", err)
	}

	h.logger.Info("Order status e-mail dispatched",
		zap.String("order_id", event.AggregateID().String()),
		zap.String("status", statusEvent.CurrentStatus().String()))
	return nil
}

// Message builds the e-mail announcing an order's status
func (h *OrderStatusNotifier) Message(to, orderID string, status trade.OrderStatus) mail.Message {
	return mail.Message{
		To:      []string{to},
		Subject: OrderStatusSubject,
		Text:    fmt.Sprintf("Your order #%s has status %q", orderID, h.upper.String(status.String())),
	}
}
