// internal/infrastructure/database/postgres/order_store.go
package postgres

import (
	"context"
	"errors"

	"github.com/your-org/rental-backend/internal/domain/order"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const orderListOrder = "placed_at DESC NULLS LAST, created_at DESC"

// OrderStore implements order.Store on gorm
type OrderStore struct {
	db *gorm.DB
}

var _ order.Store = (*OrderStore)(nil)

// NewOrderStore creates a gorm-backed order store
func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

// Transaction runs fn inside a database transaction
func (s *OrderStore) Transaction(ctx context.Context, fn func(repo order.Repository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&OrderStore{db: tx})
	})
}

func (s *OrderStore) Create(ctx context.Context, o *order.Order) error {
	if err := s.db.WithContext(ctx).Create(o).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return order.ErrDuplicateOrderNumber
		}
		return err
	}
	return nil
}

func (s *OrderStore) FindByNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	var o order.Order
	err := s.db.WithContext(ctx).
		Where("order_number = ?", orderNumber).
		First(&o).Error
	if err != nil {
		return nil, translateOrderError(err)
	}
	return &o, nil
}

// LockForSeller takes a row lock on the seller's order
func (s *OrderStore) LockForSeller(ctx context.Context, orderNumber string, sellerID uint) (*order.Order, error) {
	var o order.Order
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_number = ? AND seller_id = ?", orderNumber, sellerID).
		First(&o).Error
	if err != nil {
		return nil, translateOrderError(err)
	}
	return &o, nil
}

// Update writes only the selected columns, including nil and zero values
func (s *OrderStore) Update(ctx context.Context, o *order.Order, columns ...string) error {
	if len(columns) == 0 {
		return nil
	}
	result := s.db.WithContext(ctx).
		Model(o).
		Select(columns).
		Updates(o)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

func (s *OrderStore) ListByCustomer(ctx context.Context, customerID uint) ([]order.Order, error) {
	orders := make([]order.Order, 0)
	err := s.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order(orderListOrder).
		Find(&orders).Error
	return orders, err
}

func (s *OrderStore) ListBySeller(ctx context.Context, sellerID uint) ([]order.Order, error) {
	orders := make([]order.Order, 0)
	err := s.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order(orderListOrder).
		Find(&orders).Error
	return orders, err
}

func (s *OrderStore) FindStatus(ctx context.Context, ref order.Ref, customerID uint) (order.Status, error) {
	query := s.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("customer_id = ?", customerID)
	if ref.OrderID != 0 {
		query = query.Where("order_id = ?", ref.OrderID)
	}
	if ref.OrderNumber != "" {
		query = query.Where("order_number = ?", ref.OrderNumber)
	}

	var statuses []order.Status
	if err := query.Limit(1).Pluck("status", &statuses).Error; err != nil {
		return "", err
	}
	if len(statuses) == 0 {
		return "", order.ErrOrderNotFound
	}
	return statuses[0], nil
}

func translateOrderError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return order.ErrOrderNotFound
	}
	return err
}
