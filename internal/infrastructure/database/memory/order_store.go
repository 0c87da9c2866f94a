package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/your-org/rental-backend/internal/domain/order"
)

// OrderStore implements order.Store
type OrderStore struct {
	db *DB
}

var _ order.Store = (*OrderStore)(nil)

// Transaction runs fn on a private copy of the tables and commits on success
func (s *OrderStore) Transaction(ctx context.Context, fn func(repo order.Repository) error) error {
	return s.db.write(func(t *tables) error {
		return fn(&orderTx{db: s.db, t: t})
	})
}

func (s *OrderStore) Create(ctx context.Context, o *order.Order) error {
	return s.Transaction(ctx, func(repo order.Repository) error { return repo.Create(ctx, o) })
}

func (s *OrderStore) FindByNumber(ctx context.Context, orderNumber string) (o *order.Order, err error) {
	err = s.db.read(func(t *tables) error {
		o, err = (&orderTx{db: s.db, t: t}).FindByNumber(ctx, orderNumber)
		return err
	})
	return o, err
}

func (s *OrderStore) LockForSeller(ctx context.Context, orderNumber string, sellerID uint) (o *order.Order, err error) {
	err = s.db.read(func(t *tables) error {
		o, err = (&orderTx{db: s.db, t: t}).LockForSeller(ctx, orderNumber, sellerID)
		return err
	})
	return o, err
}

func (s *OrderStore) Update(ctx context.Context, o *order.Order, columns ...string) error {
	return s.Transaction(ctx, func(repo order.Repository) error { return repo.Update(ctx, o, columns...) })
}

func (s *OrderStore) ListByCustomer(ctx context.Context, customerID uint) (orders []order.Order, err error) {
	err = s.db.read(func(t *tables) error {
		orders, err = (&orderTx{db: s.db, t: t}).ListByCustomer(ctx, customerID)
		return err
	})
	return orders, err
}

func (s *OrderStore) ListBySeller(ctx context.Context, sellerID uint) (orders []order.Order, err error) {
	err = s.db.read(func(t *tables) error {
		orders, err = (&orderTx{db: s.db, t: t}).ListBySeller(ctx, sellerID)
		return err
	})
	return orders, err
}

func (s *OrderStore) FindStatus(ctx context.Context, ref order.Ref, customerID uint) (status order.Status, err error) {
	err = s.db.read(func(t *tables) error {
		status, err = (&orderTx{db: s.db, t: t}).FindStatus(ctx, ref, customerID)
		return err
	})
	return status, err
}

// orderTx is an order.Repository bound to one set of tables. The caller holds the lock.
type orderTx struct {
	db *DB
	t  *tables
}

func (r *orderTx) Create(ctx context.Context, o *order.Order) error {
	if err := r.db.fault("Create"); err != nil {
		return err
	}
	for _, existing := range r.t.orders {
		if existing.OrderNumber == o.OrderNumber {
			return order.ErrDuplicateOrderNumber
		}
	}

	r.t.nextOrderID++
	now := r.db.now()
	o.ID = r.t.nextOrderID
	o.CreatedAt = now
	o.UpdatedAt = now
	r.t.orders[o.ID] = copyOrder(*o)
	return nil
}

func (r *orderTx) FindByNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	if err := r.db.fault("FindByNumber"); err != nil {
		return nil, err
	}
	for _, o := range r.t.orders {
		if o.OrderNumber == orderNumber {
			found := copyOrder(o)
			return &found, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (r *orderTx) LockForSeller(ctx context.Context, orderNumber string, sellerID uint) (*order.Order, error) {
	if err := r.db.fault("LockForSeller"); err != nil {
		return nil, err
	}
	o, err := r.FindByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if o.SellerID != sellerID {
		return nil, order.ErrOrderNotFound
	}
	return o, nil
}

func (r *orderTx) Update(ctx context.Context, o *order.Order, columns ...string) error {
	if err := r.db.fault("Update"); err != nil {
		return err
	}
	stored, ok := r.t.orders[o.ID]
	if !ok {
		return order.ErrOrderNotFound
	}

	for _, column := range columns {
		switch column {
		case order.ColumnStatus:
			stored.Status = o.Status
		case order.ColumnTimeline:
			stored.Timeline = o.Timeline
		case order.ColumnReceivingInfo:
			stored.ReceivingInfo = o.ReceivingInfo
		case order.ColumnReturnInfo:
			stored.ReturnInfo = o.ReturnInfo
		case order.ColumnNotes:
			stored.Notes = o.Notes
		case order.ColumnUpdatedAt:
			stored.UpdatedAt = o.UpdatedAt
		default:
			return fmt.Errorf("memory: unknown order column %q", column)
		}
	}

	r.t.orders[o.ID] = copyOrder(stored)
	return nil
}

func (r *orderTx) ListByCustomer(ctx context.Context, customerID uint) ([]order.Order, error) {
	if err := r.db.fault("ListByCustomer"); err != nil {
		return nil, err
	}
	return r.list(func(o order.Order) bool { return o.CustomerID == customerID }), nil
}

func (r *orderTx) ListBySeller(ctx context.Context, sellerID uint) ([]order.Order, error) {
	if err := r.db.fault("ListBySeller"); err != nil {
		return nil, err
	}
	return r.list(func(o order.Order) bool { return o.SellerID == sellerID }), nil
}

func (r *orderTx) FindStatus(ctx context.Context, ref order.Ref, customerID uint) (order.Status, error) {
	if err := r.db.fault("FindStatus"); err != nil {
		return "", err
	}
	for _, o := range r.t.orders {
		if o.CustomerID != customerID {
			continue
		}
		if ref.OrderID != 0 && o.ID != ref.OrderID {
			continue
		}
		if ref.OrderNumber != "" && o.OrderNumber != ref.OrderNumber {
			continue
		}
		return o.Status, nil
	}
	return "", order.ErrOrderNotFound
}

func (r *orderTx) list(match func(o order.Order) bool) []order.Order {
	orders := make([]order.Order, 0)
	for _, o := range r.t.orders {
		if match(o) {
			orders = append(orders, copyOrder(o))
		}
	}
	sort.SliceStable(orders, func(i, j int) bool { return newerFirst(orders[i], orders[j]) })
	return orders
}

// newerFirst orders by placed_at desc with nulls last, then created_at desc
func newerFirst(a, b order.Order) bool {
	switch {
	case a.PlacedAt == nil && b.PlacedAt != nil:
		return false
	case a.PlacedAt != nil && b.PlacedAt == nil:
		return true
	case a.PlacedAt != nil && b.PlacedAt != nil && !a.PlacedAt.Equal(*b.PlacedAt):
		return a.PlacedAt.After(*b.PlacedAt)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func copyOrder(o order.Order) order.Order {
	if o.Timeline != nil {
		o.Timeline = append([]order.Step(nil), o.Timeline...)
	}
	return o
}
