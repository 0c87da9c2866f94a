// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/rental-backend/internal/config"
	"github.com/your-org/rental-backend/internal/domain/order"
)

// ErrReceiptsDisabled is returned when receipt rendering is switched off
var ErrReceiptsDisabled = errors.New("receipt generation is disabled")

// Service renders rental receipts
type Service struct {
	config *config.Config
	tmpl   *template.Template
	now    func() time.Time
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		tmpl:   template.Must(template.New("receipt").Parse(receiptTemplate)),
		now:    time.Now,
	}
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	ReceiptNumber string       `json:"receipt_number"`
	IssuedOn      string       `json:"issued_on"`
	PlacedOn      string       `json:"placed_on"`
	Order         *order.Order `json:"order"`
	Company       CompanyInfo  `json:"company"`
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
}

// GenerateReceipt renders the order receipt as a PDF document
func (s *Service) GenerateReceipt(o *order.Order) (*bytes.Buffer, error) {
	if !s.config.Receipt.Enabled {
		return nil, ErrReceiptsDisabled
	}

	htmlContent, err := s.RenderHTML(o)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	// Convert HTML to PDF
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// RenderHTML renders the receipt page that is fed to wkhtmltopdf
func (s *Service) RenderHTML(o *order.Order) (string, error) {
	data := ReceiptData{
		ReceiptNumber: fmt.Sprintf("RCPT-%s", o.OrderNumber),
		IssuedOn:      s.now().UTC().Format("January 2, 2006"),
		Order:         o,
		Company: CompanyInfo{
			Name:    s.config.Receipt.CompanyName,
			Address: s.config.Receipt.CompanyAddress,
			Email:   s.config.Receipt.CompanyEmail,
		},
	}
	if o.PlacedAt != nil {
		data.PlacedOn = o.PlacedAt.UTC().Format("January 2, 2006")
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.ReceiptNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { display: flex; justify-content: space-between; margin-bottom: 30px; border-bottom: 2px solid #eee; padding-bottom: 20px; }
        .receipt-title { font-size: 28px; font-weight: bold; color: #2563eb; margin-bottom: 10px; }
        .section-title { font-size: 16px; font-weight: bold; margin: 20px 0 10px; color: #374151; }
        table { width: 100%; border-collapse: collapse; }
        th, td { border: 1px solid #ddd; padding: 10px 8px; text-align: left; }
        th { background-color: #f8f9fa; }
        .amount { text-align: right; }
        .done { color: #166534; }
        .pending { color: #92400e; }
        .footer { margin-top: 50px; padding-top: 20px; border-top: 1px solid #eee; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <div>
            <h1>{{.Company.Name}}</h1>
            {{if .Company.Address}}<p>{{.Company.Address}}</p>{{end}}
            <p>Email: {{.Company.Email}}</p>
        </div>
        <div>
            <div class="receipt-title">RENTAL RECEIPT</div>
            <p><strong>Receipt #:</strong> {{.ReceiptNumber}}</p>
            <p><strong>Issued:</strong> {{.IssuedOn}}</p>
            <p><strong>Order #:</strong> {{.Order.OrderNumber}}</p>
            {{if .PlacedOn}}<p><strong>Placed:</strong> {{.PlacedOn}}</p>{{end}}
            <p><strong>Status:</strong> {{.Order.Status}}</p>
        </div>
    </div>

    {{with .Order.ShippingAddress}}
    <div class="section-title">Ship To:</div>
    {{if .FullName}}<p><strong>{{.FullName}}</strong></p>{{end}}
    <p>{{.Address}}</p>
    <p>{{.City}}{{if .State}}, {{.State}}{{end}} {{.Zip}}</p>
    {{if .Country}}<p>{{.Country}}</p>{{end}}
    {{end}}

    <div class="section-title">Rental</div>
    <table>
        <thead>
            <tr><th>Item</th><th>Period</th><th class="amount">Qty</th><th class="amount">Unit</th><th class="amount">Subtotal</th></tr>
        </thead>
        <tbody>
            <tr>
                <td>
                    <strong>{{if .Order.ProductName}}{{.Order.ProductName}}{{else}}Product #{{.Order.ProductID}}{{end}}</strong>
                    {{with .Order.ProductSize}}<br><small>Size: {{.}}</small>{{end}}
                    {{with .Order.ProductColor}}<br><small>Color: {{.}}</small>{{end}}
                </td>
                <td>{{with .Order.RentalPeriod}}{{.}}{{end}}</td>
                <td class="amount">{{.Order.Quantity}}</td>
                <td class="amount">{{.Order.UnitPrice.StringFixed 2}}</td>
                <td class="amount">{{.Order.Subtotal.StringFixed 2}}</td>
            </tr>
            <tr><td colspan="4" class="amount">Tax</td><td class="amount">{{.Order.Tax.StringFixed 2}}</td></tr>
            <tr><td colspan="4" class="amount"><strong>Total</strong></td><td class="amount"><strong>{{.Order.TotalAmount.StringFixed 2}}</strong></td></tr>
        </tbody>
    </table>

    <div class="section-title">Progress</div>
    <table>
        {{range .Order.Timeline}}
        <tr>
            <td class="{{if .Completed}}done{{else}}pending{{end}}">{{.Title}}</td>
            <td>{{.Date}}</td>
            <td>{{.Description}}</td>
        </tr>
        {{end}}
    </table>

    <div class="footer">
        <p>Thank you for renting with {{.Company.Name}}!</p>
        <p>Questions about this rental? Contact us at {{.Company.Email}}</p>
    </div>
</body>
</html>
`
