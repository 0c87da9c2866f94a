// internal/domain/cart/repository.go
package cart

import (
	"context"
	"errors"
)

// ErrOpenCartExists signals that a concurrent request already created the user's open cart
var ErrOpenCartExists = errors.New("open cart already exists for user")

// Repository is the storage contract of the cart engine. Implementations
// return ErrCartNotFound / ErrCartItemNotFound for missing rows and pass
// every other storage error through untouched.
type Repository interface {
	FindOpenCartByUser(ctx context.Context, userID uint) (*Cart, error)
	CreateCart(ctx context.Context, cart *Cart) error
	GetCart(ctx context.Context, cartID uint) (*Cart, error)
	// LockCart reads the cart row for update; only meaningful inside a transaction
	LockCart(ctx context.Context, cartID uint) (*Cart, error)
	ListItems(ctx context.Context, cartID uint) ([]CartItem, error)
	GetItem(ctx context.Context, cartID, itemID uint) (*CartItem, error)
	InsertItem(ctx context.Context, item *CartItem) error
	DeleteItem(ctx context.Context, cartID, itemID uint) error
	DeleteItems(ctx context.Context, cartID uint) error
	AdjustTotals(ctx context.Context, cartID uint, delta Totals) error
	SetTotals(ctx context.Context, cartID uint, totals Totals) error
}

// Store is a Repository that can run a unit of work atomically. The
// Repository handed to fn is bound to the transaction.
type Store interface {
	Repository
	Transaction(ctx context.Context, fn func(repo Repository) error) error
}
