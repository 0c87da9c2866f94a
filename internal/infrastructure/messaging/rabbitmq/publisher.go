// Package rabbitmq publishes order lifecycle events to a topic exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/your-org/rental-backend/internal/config"
	"github.com/your-org/rental-backend/internal/domain/order"
)

const (
	OrderCreatedRoutingKey       = "order.created.v1"
	OrderStatusChangedRoutingKey = "order.status_changed.v1"
)

// OrderEvent is the wire contract of published order events
type OrderEvent struct {
	EventType      string          `json:"event_type"`
	OrderID        uint            `json:"order_id"`
	OrderNumber    string          `json:"order_number"`
	CustomerID     uint            `json:"customer_id"`
	SellerID       uint            `json:"seller_id"`
	ProductID      uint            `json:"product_id"`
	Status         string          `json:"status"`
	PreviousStatus string          `json:"previous_status,omitempty"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Timestamp      time.Time       `json:"timestamp"`
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher implements order.Notifier over AMQP
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	exchange string
}

var _ order.Notifier = (*Publisher)(nil)

// Dial connects to the broker and declares the events exchange
func Dial(cfg *config.Config) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.External.Broker.URL)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.External.Broker.Exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare %s: %w", cfg.External.Broker.Exchange, err)
	}

	return &Publisher{conn: conn, ch: ch, exchange: cfg.External.Broker.Exchange}, nil
}

// Close closes the channel and the connection
func (p *Publisher) Close() error {
	if err := p.ch.Close(); err != nil {
		return err
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Notify publishes the event as persistent JSON
func (p *Publisher) Notify(ctx context.Context, event order.Event) error {
	routingKey, err := routingKeyFor(event.Type)
	if err != nil {
		return err
	}

	o := event.Order
	body, err := json.Marshal(OrderEvent{
		EventType:      string(event.Type),
		OrderID:        o.ID,
		OrderNumber:    o.OrderNumber,
		CustomerID:     o.CustomerID,
		SellerID:       o.SellerID,
		ProductID:      o.ProductID,
		Status:         string(o.Status),
		PreviousStatus: string(event.PreviousStatus),
		TotalAmount:    o.TotalAmount,
		Timestamp:      event.OccurredAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal %s: %w", event.Type, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.PublishWithContext(
		pubCtx,
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    o.OrderNumber,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
}

func routingKeyFor(eventType order.EventType) (string, error) {
	switch eventType {
	case order.EventCreated:
		return OrderCreatedRoutingKey, nil
	case order.EventStatusChanged:
		return OrderStatusChangedRoutingKey, nil
	default:
		return "", fmt.Errorf("no routing key for event %q", eventType)
	}
}
