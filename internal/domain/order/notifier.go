// internal/domain/order/notifier.go
package order

import (
	"context"
	"time"
)

// EventType names an order lifecycle event
type EventType string

const (
	EventCreated       EventType = "order.created"
	EventStatusChanged EventType = "order.status_changed"
)

// Event is handed to the notification collaborator after a committed change
type Event struct {
	Type           EventType `json:"type"`
	Order          *Order    `json:"order"`
	Recipient      string    `json:"recipient,omitempty"`
	PreviousStatus Status    `json:"previous_status,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Notifier delivers order events. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// NopNotifier discards every event
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Event) error { return nil }
