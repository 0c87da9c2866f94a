// internal/infrastructure/database/postgres/cart_store.go
package postgres

import (
	"context"
	"errors"

	"github.com/your-org/rental-backend/internal/domain/cart"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartStore implements cart.Store on gorm
type CartStore struct {
	db *gorm.DB
}

var _ cart.Store = (*CartStore)(nil)

// NewCartStore creates a gorm-backed cart store
func NewCartStore(db *gorm.DB) *CartStore {
	return &CartStore{db: db}
}

// Transaction runs fn inside a database transaction
func (s *CartStore) Transaction(ctx context.Context, fn func(repo cart.Repository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&CartStore{db: tx})
	})
}

func (s *CartStore) FindOpenCartByUser(ctx context.Context, userID uint) (*cart.Cart, error) {
	var c cart.Cart
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, cart.CartStatusOpen).
		Order("id").
		First(&c).Error
	if err != nil {
		return nil, translateCartError(err)
	}
	return &c, nil
}

func (s *CartStore) CreateCart(ctx context.Context, c *cart.Cart) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return cart.ErrOpenCartExists
		}
		return err
	}
	return nil
}

func (s *CartStore) GetCart(ctx context.Context, cartID uint) (*cart.Cart, error) {
	var c cart.Cart
	if err := s.db.WithContext(ctx).First(&c, cartID).Error; err != nil {
		return nil, translateCartError(err)
	}
	return &c, nil
}

// LockCart takes a row lock on the cart so concurrent mutations serialize
func (s *CartStore) LockCart(ctx context.Context, cartID uint) (*cart.Cart, error) {
	var c cart.Cart
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&c, cartID).Error
	if err != nil {
		return nil, translateCartError(err)
	}
	return &c, nil
}

func (s *CartStore) ListItems(ctx context.Context, cartID uint) ([]cart.CartItem, error) {
	items := make([]cart.CartItem, 0)
	err := s.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("id").
		Find(&items).Error
	return items, err
}

func (s *CartStore) GetItem(ctx context.Context, cartID, itemID uint) (*cart.CartItem, error) {
	var item cart.CartItem
	err := s.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrCartItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *CartStore) InsertItem(ctx context.Context, item *cart.CartItem) error {
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *CartStore) DeleteItem(ctx context.Context, cartID, itemID uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&cart.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return cart.ErrCartItemNotFound
	}
	return nil
}

func (s *CartStore) DeleteItems(ctx context.Context, cartID uint) error {
	return s.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&cart.CartItem{}).Error
}

// AdjustTotals applies a delta in a single UPDATE so the increment happens in the database
func (s *CartStore) AdjustTotals(ctx context.Context, cartID uint, delta cart.Totals) error {
	result := s.db.WithContext(ctx).
		Model(&cart.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]interface{}{
			"total_amount":   gorm.Expr("total_amount + ?", delta.Amount),
			"total_quantity": gorm.Expr("total_quantity + ?", delta.Quantity),
			"order_count":    gorm.Expr("order_count + ?", delta.Count),
		})
	return rowsOrNotFound(result)
}

func (s *CartStore) SetTotals(ctx context.Context, cartID uint, totals cart.Totals) error {
	result := s.db.WithContext(ctx).
		Model(&cart.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]interface{}{
			"total_amount":   totals.Amount,
			"total_quantity": totals.Quantity,
			"order_count":    totals.Count,
		})
	return rowsOrNotFound(result)
}

func translateCartError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return cart.ErrCartNotFound
	}
	return err
}

func rowsOrNotFound(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return cart.ErrCartNotFound
	}
	return nil
}
