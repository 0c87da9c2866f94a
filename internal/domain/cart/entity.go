// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/rental-backend/internal/pkg/apperror"
)

// CartStatus represents the cart lifecycle state
type CartStatus string

const (
	CartStatusOpen   CartStatus = "open"
	CartStatusClosed CartStatus = "closed"
)

var (
	ErrCartNotFound     = apperror.NotFound("Cart not found")
	ErrCartItemNotFound = apperror.NotFound("Cart item not found")
	ErrCartNotOpen      = apperror.BadRequest("Cart is not open")
	ErrInvalidQuantity  = apperror.BadRequest("quantity must be a positive integer")
	ErrInvalidRentTime  = apperror.BadRequest("rent_time must be a positive integer")
)

// Cart is a user's cart with its running aggregates.
// OrderCount is the number of line items currently in the cart.
type Cart struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	Status        CartStatus      `gorm:"not null;size:20;default:'open'" json:"status"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"total_amount"`
	TotalQuantity int             `gorm:"not null;default:0" json:"total_quantity"`
	OrderCount    int             `gorm:"not null;default:0" json:"order_count"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items,omitempty"`
}

// CartItem is a line item with its price snapshot
type CartItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	CartID     uint            `gorm:"not null;index" json:"cart_id"`
	ProductID  uint            `gorm:"not null;index" json:"product_id"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"unit_price"` // after sale, at time of adding
	Quantity   int             `gorm:"not null" json:"quantity"`
	RentTime   int             `gorm:"not null" json:"rent_time"` // rental duration in days
	TotalPrice decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"total_price"`
	Metadata   ItemMetadata    `gorm:"type:jsonb;serializer:json" json:"metadata"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ItemMetadata is the denormalized product snapshot stored with a line item
type ItemMetadata struct {
	ProductName string   `json:"product_name"`
	Images      []string `json:"images,omitempty"`
}

// Totals is a set of cart aggregate values or deltas
type Totals struct {
	Amount   decimal.Decimal
	Quantity int
	Count    int
}

// ItemInput is one requested line in a bulk replace
type ItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
	RentTime  int  `json:"rent_time" binding:"required,min=1"`
}

// ReplaceResult reports the outcome of a bulk replace
type ReplaceResult struct {
	Cart            *Cart      `json:"cart"`
	Items           []CartItem `json:"items"`
	SkippedProducts []uint     `json:"skipped_products,omitempty"`
}

// TableName overrides
func (Cart) TableName() string     { return "carts" }
func (CartItem) TableName() string { return "cart_items" }

// IsOpen reports whether the cart accepts item mutations
func (c *Cart) IsOpen() bool {
	return c.Status == CartStatusOpen
}

// SumItems returns the aggregate of a set of items
func SumItems(items []CartItem) Totals {
	totals := Totals{Amount: decimal.Zero, Count: len(items)}
	for _, item := range items {
		totals.Amount = totals.Amount.Add(item.TotalPrice)
		totals.Quantity += item.Quantity
	}
	return totals
}

// Negate flips a delta for decrements
func (t Totals) Negate() Totals {
	return Totals{Amount: t.Amount.Neg(), Quantity: -t.Quantity, Count: -t.Count}
}
