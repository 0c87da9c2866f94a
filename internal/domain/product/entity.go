// internal/domain/product/entity.go
package product

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/rental-backend/internal/pkg/apperror"
)

var (
	hundred = decimal.NewFromInt(100)

	// ErrProductNotFound is returned when a product id does not resolve
	ErrProductNotFound = apperror.NotFound("Product not found")
)

// Product is the catalog snapshot the cart and order engines price from.
// The catalog itself is managed elsewhere; these columns are read-only here.
type Product struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	SellerID       uint            `gorm:"not null;index" json:"seller_id"`
	Name           string          `gorm:"not null;size:255" json:"name"`
	Images         []string        `gorm:"type:jsonb;serializer:json" json:"images"`
	Category       string          `gorm:"size:100" json:"category"`
	Location       string          `gorm:"size:255" json:"location"`
	PricePerDay    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price_per_day"`
	SalePercentage decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"sale_percentage"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TableName overrides the table name
func (Product) TableName() string {
	return "products"
}

// Catalog resolves authoritative product data
type Catalog interface {
	GetProductByID(ctx context.Context, id uint) (*Product, error)
}

// UnitPrice is the per-day price after the current sale, captured at insertion time
func (p *Product) UnitPrice() decimal.Decimal {
	sale := p.SalePercentage
	if sale.IsNegative() {
		sale = decimal.Zero
	}
	if sale.GreaterThan(hundred) {
		sale = hundred
	}
	return p.PricePerDay.Mul(decimal.NewFromInt(1).Sub(sale.Div(hundred)))
}

// PrimaryImage returns the first image, if any
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// LineTotal computes unit * quantity * rental duration
func LineTotal(unitPrice decimal.Decimal, quantity, rentalDuration int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Mul(decimal.NewFromInt(int64(rentalDuration)))
}
