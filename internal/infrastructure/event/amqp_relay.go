package event

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shoporders/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// amqpChannel is the subset of *amqp.Channel the relay publishes through
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPRelay forwards domain events to a RabbitMQ topic exchange so other
// services can react to orders and price-list imports.
// Routing keys have the form "<aggregate>.<EventType>", e.g. "order.OrderPlaced".
type AMQPRelay struct {
	conn       *amqp.Connection
	ch         amqpChannel
	exchange   string
	eventTypes []string
	logger     *zap.Logger
}

// NewAMQPRelay dials the broker and declares a durable topic exchange
func NewAMQPRelay(url, exchange string, logger *zap.Logger, eventTypes ...string) (*AMQPRelay, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	relay := newAMQPRelay(ch, exchange, logger, eventTypes...)
	relay.conn = conn
	return relay, nil
}

func newAMQPRelay(ch amqpChannel, exchange string, logger *zap.Logger, eventTypes ...string) *AMQPRelay {
	return &AMQPRelay{
		ch:         ch,
		exchange:   exchange,
		eventTypes: eventTypes,
		logger:     logger.Named("amqp-relay"),
	}
}

// EventTypes returns the relayed event types; empty means every event
func (r *AMQPRelay) EventTypes() []string {
	return r.eventTypes
}

// Handle publishes the event as JSON
func (r *AMQPRelay) Handle(ctx context.Context, event shared.DomainEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", event.EventType(), err)
	}

	key := RoutingKey(event)
	err = r.ch.PublishWithContext(ctx, r.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID().String(),
		Type:         event.EventType(),
		Timestamp:    event.OccurredAt(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}

	r.logger.Debug("event relayed",
		zap.String("routing_key", key),
		zap.String("event_id", event.EventID().String()),
	)
	return nil
}

// Close closes the channel and the connection
func (r *AMQPRelay) Close() error {
	if r.ch != nil {
		_ = r.ch.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// RoutingKey builds the topic routing key for an event
func RoutingKey(event shared.DomainEvent) string {
	return strings.ToLower(event.AggregateType()) + "." + event.EventType()
}

var _ shared.EventHandler = (*AMQPRelay)(nil)
