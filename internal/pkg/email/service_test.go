package email

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/rental-backend/internal/config"
	"github.com/your-org/rental-backend/internal/domain/order"
)

type captureSender struct {
	sent []*Email
	err  error
}

func (c *captureSender) Send(_ context.Context, email *Email) error {
	c.sent = append(c.sent, email)
	return c.err
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{FrontendURL: "https://rent.example.com"},
		External: config.ExternalConfig{
			Email: config.EmailConfig{Provider: "log", FromName: "Rental Marketplace", FromEmail: "noreply@example.com"},
		},
	}
}

func createdEvent(recipient string) order.Event {
	period := "3 days"
	return order.Event{
		Type:      order.EventCreated,
		Recipient: recipient,
		Order: &order.Order{
			OrderNumber:  "ORD-100200",
			ProductName:  "Evening Gown",
			Quantity:     2,
			RentalPeriod: &period,
			Subtotal:     decimal.NewFromInt(90),
			Tax:          decimal.NewFromInt(9),
			TotalAmount:  decimal.NewFromInt(99),
		},
		OccurredAt: time.Date(2025, 7, 8, 10, 0, 0, 0, time.UTC),
	}
}

func TestNotifySendsConfirmationOnCreate(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	sender := &captureSender{}
	svc := NewEmailServiceWithSender(testConfig(), sender, logger)

	require.NoError(t, svc.Notify(context.Background(), createdEvent("renter@example.com")))
	require.Len(t, sender.sent, 1)

	sent := sender.sent[0]
	assert.Equal(t, []string{"renter@example.com"}, sent.To)
	assert.Equal(t, "Rental Confirmation - ORD-100200", sent.Subject)
	assert.Equal(t, EmailTypeOrderConfirmation, sent.Type)
	assert.Contains(t, sent.HTMLContent, "Evening Gown x 2")
	assert.Contains(t, sent.HTMLContent, "3 days")
	assert.Contains(t, sent.HTMLContent, "99.00")
	assert.Contains(t, sent.HTMLContent, "https://rent.example.com/orders/ORD-100200")
	assert.Contains(t, sent.HTMLContent, "July 8, 2025")
}

func TestNotifyIgnoresStatusChangesAndMissingRecipient(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	sender := &captureSender{}
	svc := NewEmailServiceWithSender(testConfig(), sender, logger)

	changed := createdEvent("renter@example.com")
	changed.Type = order.EventStatusChanged
	require.NoError(t, svc.Notify(context.Background(), changed))
	require.NoError(t, svc.Notify(context.Background(), createdEvent("")))

	assert.Empty(t, sender.sent)
}

func TestNotifyReturnsSenderError(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	sender := &captureSender{err: errors.New("relay down")}
	svc := NewEmailServiceWithSender(testConfig(), sender, logger)

	err := svc.Notify(context.Background(), createdEvent("renter@example.com"))
	assert.EqualError(t, err, "relay down")
}

func TestLogProviderWritesEnvelope(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	svc, err := NewEmailService(testConfig(), logger)
	require.NoError(t, err)

	require.NoError(t, svc.Notify(context.Background(), createdEvent("renter@example.com")))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "Email sent (log provider)", entry.Message)
	assert.Equal(t, "Rental Confirmation - ORD-100200", entry.Data["subject"])
}

func TestNewEmailServiceRejectsUnknownProvider(t *testing.T) {
	cfg := testConfig()
	cfg.External.Email.Provider = "carrier-pigeon"

	logger, _ := logtest.NewNullLogger()
	_, err := NewEmailService(cfg, logger)
	assert.Error(t, err)
}

func TestBuildMessageOrdersHeaders(t *testing.T) {
	msg := string(buildMessage(map[string]string{
		"To":      "a@example.com",
		"From":    "b@example.com",
		"Subject": "Hi",
	}, "<p>body</p>"))

	assert.True(t, strings.HasPrefix(msg, "From: b@example.com\r\nSubject: Hi\r\nTo: a@example.com\r\n\r\n"))
	assert.True(t, strings.HasSuffix(msg, "<p>body</p>"))
}
