// internal/domain/order/repository.go
package order

import (
	"context"
	"errors"
)

// ErrDuplicateOrderNumber is returned by Create when the order number is taken
var ErrDuplicateOrderNumber = errors.New("duplicate order number")

// Columns accepted by Repository.Update
const (
	ColumnStatus        = "status"
	ColumnTimeline      = "timeline"
	ColumnReceivingInfo = "receiving_info"
	ColumnReturnInfo    = "return_info"
	ColumnNotes         = "notes"
	ColumnUpdatedAt     = "updated_at"
)

// Repository is the storage contract of the order engine. Missing rows are
// reported as ErrOrderNotFound; other storage errors pass through untouched.
type Repository interface {
	Create(ctx context.Context, order *Order) error
	FindByNumber(ctx context.Context, orderNumber string) (*Order, error)
	// LockForSeller reads the seller's order for update; only meaningful inside a transaction
	LockForSeller(ctx context.Context, orderNumber string, sellerID uint) (*Order, error)
	// Update writes only the named columns of order
	Update(ctx context.Context, order *Order, columns ...string) error
	// ListByCustomer and ListBySeller order by placed_at desc (nulls last), then created_at desc
	ListByCustomer(ctx context.Context, customerID uint) ([]Order, error)
	ListBySeller(ctx context.Context, sellerID uint) ([]Order, error)
	FindStatus(ctx context.Context, ref Ref, customerID uint) (Status, error)
}

// Store is a Repository that can run a unit of work atomically
type Store interface {
	Repository
	Transaction(ctx context.Context, fn func(repo Repository) error) error
}
