package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/rental-backend/internal/domain/order"
)

type published struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakeChannel struct {
	sent []published
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.sent = append(f.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error { return nil }

func TestNotifyPublishesStatusChange(t *testing.T) {
	ch := &fakeChannel{}
	publisher := &Publisher{ch: ch, exchange: "rental.events"}

	occurred := time.Date(2025, 7, 12, 10, 0, 0, 0, time.UTC)
	err := publisher.Notify(context.Background(), order.Event{
		Type: order.EventStatusChanged,
		Order: &order.Order{
			ID:          3,
			OrderNumber: "ORD-482913",
			CustomerID:  1,
			SellerID:    10,
			Status:      order.StatusCompleted,
			TotalAmount: decimal.RequireFromString("264"),
		},
		PreviousStatus: order.StatusChecking,
		OccurredAt:     occurred,
	})
	require.NoError(t, err)
	require.Len(t, ch.sent, 1)

	sent := ch.sent[0]
	assert.Equal(t, "rental.events", sent.exchange)
	assert.Equal(t, OrderStatusChangedRoutingKey, sent.key)
	assert.Equal(t, amqp.Persistent, sent.msg.DeliveryMode)
	assert.Equal(t, "ORD-482913", sent.msg.MessageId)

	var body OrderEvent
	require.NoError(t, json.Unmarshal(sent.msg.Body, &body))
	assert.Equal(t, "order.status_changed", body.EventType)
	assert.Equal(t, "completed", body.Status)
	assert.Equal(t, "checking", body.PreviousStatus)
	assert.True(t, decimal.NewFromInt(264).Equal(body.TotalAmount))
	assert.True(t, occurred.Equal(body.Timestamp))
}

func TestNotifyRejectsUnknownEvent(t *testing.T) {
	publisher := &Publisher{ch: &fakeChannel{}, exchange: "rental.events"}

	err := publisher.Notify(context.Background(), order.Event{Type: "order.deleted", Order: &order.Order{}})
	assert.Error(t, err)
}
