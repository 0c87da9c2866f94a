// internal/domain/order/entity.go
package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/rental-backend/internal/pkg/apperror"
)

var (
	ErrOrderNotFound          = apperror.NotFound("Order not found")
	ErrProductRequired        = apperror.BadRequest("product_id is required")
	ErrEmptyStatus            = apperror.BadRequest("status cannot be empty")
	ErrInvalidStatus          = apperror.BadRequest("Invalid status value.")
	ErrOrderNumberRequired    = apperror.BadRequest("orderNumber is required")
	ErrInconsistentTimeline   = apperror.BadRequest("timeline does not match order status")
	ErrOrderNumberTaken       = apperror.Conflict("Order number already exists")
	ErrOrderNumberUnavailable = apperror.Internal("could not allocate a unique order number", nil)
)

// Order represents a rental order for a single product
type Order struct {
	ID           uint            `gorm:"column:order_id;primaryKey" json:"order_id"`
	OrderNumber  string          `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	CustomerID   uint            `gorm:"not null;index" json:"customer_id"`
	SellerID     uint            `gorm:"not null;index" json:"seller_id"`
	ProductID    uint            `gorm:"not null;index" json:"product_id"`
	ProductSize  *string         `gorm:"size:50" json:"product_size"`
	ProductColor *string         `gorm:"size:50" json:"product_color"`
	RentalPeriod *string         `gorm:"size:50" json:"rental_period"`
	Quantity     int             `gorm:"not null;default:1" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Status       Status          `gorm:"not null;size:20;default:'ordered'" json:"status"`
	PlacedAt     *time.Time      `gorm:"index" json:"placed_at"`

	// Financial Information
	Subtotal    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	Tax         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"tax"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`

	// Structured JSON columns
	ShippingAddress *Address    `gorm:"type:jsonb;serializer:json" json:"shipping_address"`
	Timeline        []Step      `gorm:"type:jsonb;serializer:json" json:"timeline"`
	ReceivingInfo   *Checkpoint `gorm:"type:jsonb;serializer:json" json:"receiving_info"`
	ReturnInfo      *Checkpoint `gorm:"type:jsonb;serializer:json" json:"return_info"`
	Notes           *string     `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Derived on read
	ProductName  string `gorm:"-" json:"product_name,omitempty"`
	ProductImage string `gorm:"-" json:"product_image,omitempty"`
	CanReview    bool   `gorm:"-" json:"can_review"`
}

// Address is the structured shipping address
type Address struct {
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state,omitempty"`
	Zip      string `json:"zip,omitempty"`
	Country  string `json:"country,omitempty"`
}

// Step is one entry of an order timeline
type Step struct {
	Title       string `json:"title"`
	Date        string `json:"date"` // RFC3339 timestamp or PendingDate
	Completed   bool   `json:"completed"`
	Description string `json:"description"`
}

// Checkpoint records a hand-over event such as delivery or return
type Checkpoint struct {
	Title     string `json:"title"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	Notes     string `json:"notes,omitempty"`
}

// Ref identifies an order by id or number
type Ref struct {
	OrderID     uint   `json:"order_id" form:"order_id"`
	OrderNumber string `json:"order_number" form:"order_number"`
}

// TableName overrides the table name
func (Order) TableName() string {
	return "orders"
}

// IsReviewable reports whether the customer may review this order
func (o *Order) IsReviewable() bool {
	return strings.EqualFold(string(o.Status), string(StatusCompleted))
}

// VisibleTo reports whether the user is the order's customer or seller
func (o *Order) VisibleTo(userID uint) bool {
	return userID != 0 && (o.CustomerID == userID || o.SellerID == userID)
}
