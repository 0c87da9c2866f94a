// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/sirupsen/logrus"
	"github.com/your-org/rental-backend/internal/config"
	"github.com/your-org/rental-backend/internal/domain/order"
)

// Sender delivers a rendered email
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

// EmailService renders order emails and hands them to the configured provider.
// It is an order.Notifier: only order creation produces an email, status
// changes travel over the event broker.
type EmailService struct {
	config    *config.Config
	sender    Sender
	templates map[EmailType]*template.Template
	logger    logrus.FieldLogger
}

var _ order.Notifier = (*EmailService)(nil)

// NewEmailService creates an email service for the configured provider
func NewEmailService(cfg *config.Config, logger logrus.FieldLogger) (*EmailService, error) {
	var sender Sender
	switch cfg.External.Email.Provider {
	case "smtp":
		sender = &SMTPSender{config: cfg.External.Email}
	case "log", "":
		sender = &LogSender{logger: logger}
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.External.Email.Provider)
	}

	return NewEmailServiceWithSender(cfg, sender, logger), nil
}

// NewEmailServiceWithSender creates an email service around an explicit sender
func NewEmailServiceWithSender(cfg *config.Config, sender Sender, logger logrus.FieldLogger) *EmailService {
	return &EmailService{
		config: cfg,
		sender: sender,
		templates: map[EmailType]*template.Template{
			EmailTypeOrderConfirmation: template.Must(template.New("order_confirmation").Parse(orderConfirmationTemplate)),
		},
		logger: logger,
	}
}

// Notify sends the order confirmation for created orders
func (s *EmailService) Notify(ctx context.Context, event order.Event) error {
	if event.Type != order.EventCreated || event.Order == nil {
		return nil
	}
	if event.Recipient == "" {
		s.logger.WithField("order_number", event.Order.OrderNumber).Debug("No recipient for order confirmation")
		return nil
	}

	return s.SendOrderConfirmationEmail(ctx, s.confirmationData(event))
}

// SendOrderConfirmationEmail sends order confirmation email
func (s *EmailService) SendOrderConfirmationEmail(ctx context.Context, data OrderConfirmationData) error {
	htmlContent, err := s.renderTemplate(EmailTypeOrderConfirmation, data)
	if err != nil {
		return fmt.Errorf("failed to render order confirmation template: %w", err)
	}

	email := &Email{
		To:          []string{data.UserEmail},
		Subject:     fmt.Sprintf("Rental Confirmation - %s", data.OrderNumber),
		HTMLContent: htmlContent,
		Type:        EmailTypeOrderConfirmation,
		Data: map[string]interface{}{
			"order_number": data.OrderNumber,
			"order_total":  data.Total,
		},
	}

	return s.sender.Send(ctx, email)
}

func (s *EmailService) confirmationData(event order.Event) OrderConfirmationData {
	o := event.Order
	siteURL := s.config.App.FrontendURL

	data := OrderConfirmationData{
		EmailTemplateData: GetBaseTemplateData(s.config.External.Email.FromName, siteURL, event.Recipient, event.OccurredAt),
		OrderNumber:       o.OrderNumber,
		OrderDate:         event.OccurredAt.UTC().Format("January 2, 2006"),
		ProductName:       o.ProductName,
		Quantity:          o.Quantity,
		Subtotal:          o.Subtotal.StringFixed(2),
		Tax:               o.Tax.StringFixed(2),
		Total:             o.TotalAmount.StringFixed(2),
		OrderURL:          fmt.Sprintf("%s/orders/%s", siteURL, o.OrderNumber),
	}
	if o.RentalPeriod != nil {
		data.RentalPeriod = *o.RentalPeriod
	}

	return data
}

// renderTemplate renders an email template with data
func (s *EmailService) renderTemplate(emailType EmailType, data interface{}) (string, error) {
	tmpl, exists := s.templates[emailType]
	if !exists {
		return "", fmt.Errorf("template %s not found", emailType)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", emailType, err)
	}

	return buf.String(), nil
}

// LogSender writes emails to the log instead of delivering them
type LogSender struct {
	logger logrus.FieldLogger
}

// Send logs the email envelope
func (l *LogSender) Send(_ context.Context, email *Email) error {
	l.logger.WithFields(logrus.Fields{
		"to":      email.To,
		"subject": email.Subject,
		"type":    email.Type,
	}).Info("Email sent (log provider)")
	return nil
}

const orderConfirmationTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.SiteName}}</title>
</head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
        <h1 style="color: #333;">Your rental is confirmed</h1>
        <p>Order <strong>{{.OrderNumber}}</strong> was placed on {{.OrderDate}}.</p>
        <table style="width: 100%; border-collapse: collapse;">
            <tr><td>Item</td><td>{{.ProductName}} x {{.Quantity}}</td></tr>
            {{if .RentalPeriod}}<tr><td>Rental period</td><td>{{.RentalPeriod}}</td></tr>{{end}}
            <tr><td>Subtotal</td><td>{{.Subtotal}}</td></tr>
            <tr><td>Tax</td><td>{{.Tax}}</td></tr>
            <tr><td><strong>Total</strong></td><td><strong>{{.Total}}</strong></td></tr>
        </table>
        <p><a href="{{.OrderURL}}">Track your rental</a></p>
        <hr>
        <p style="font-size: 12px; color: #666;">
            &copy; {{.Year}} {{.SiteName}}. Questions? Visit {{.SupportURL}}.
        </p>
    </div>
</body>
</html>`
