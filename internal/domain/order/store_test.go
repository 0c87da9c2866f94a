package order

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/your-org/rental-backend/internal/domain/product"
)

// fakeStore is a minimal transactional Store and Catalog for service tests
type fakeStore struct {
	mu       sync.Mutex
	nextID   uint
	orders   map[uint]Order
	products map[uint]product.Product

	createCalls int
	updateCalls int
	lastColumns []string
	updateErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:   make(map[uint]Order),
		products: make(map[uint]product.Product),
	}
}

func (s *fakeStore) GetProductByID(_ context.Context, id uint) (*product.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	return &p, nil
}

func (s *fakeStore) Transaction(_ context.Context, fn func(repo Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[uint]Order, len(s.orders))
	for k, v := range s.orders {
		snapshot[k] = v
	}
	if err := fn(s); err != nil {
		s.orders = snapshot
		return err
	}
	return nil
}

func (s *fakeStore) Create(_ context.Context, o *Order) error {
	s.createCalls++
	for _, existing := range s.orders {
		if existing.OrderNumber == o.OrderNumber {
			return ErrDuplicateOrderNumber
		}
	}
	s.nextID++
	o.ID = s.nextID
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	s.orders[o.ID] = clone(*o)
	return nil
}

func (s *fakeStore) FindByNumber(_ context.Context, orderNumber string) (*Order, error) {
	for _, o := range s.orders {
		if o.OrderNumber == orderNumber {
			found := clone(o)
			return &found, nil
		}
	}
	return nil, ErrOrderNotFound
}

func (s *fakeStore) LockForSeller(ctx context.Context, orderNumber string, sellerID uint) (*Order, error) {
	o, err := s.FindByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if o.SellerID != sellerID {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *fakeStore) Update(_ context.Context, o *Order, columns ...string) error {
	s.updateCalls++
	s.lastColumns = columns
	if s.updateErr != nil {
		return s.updateErr
	}
	s.orders[o.ID] = clone(*o)
	return nil
}

func (s *fakeStore) ListByCustomer(_ context.Context, customerID uint) ([]Order, error) {
	return s.list(func(o Order) bool { return o.CustomerID == customerID }), nil
}

func (s *fakeStore) ListBySeller(_ context.Context, sellerID uint) ([]Order, error) {
	return s.list(func(o Order) bool { return o.SellerID == sellerID }), nil
}

func (s *fakeStore) FindStatus(_ context.Context, ref Ref, customerID uint) (Status, error) {
	for _, o := range s.orders {
		if o.CustomerID == customerID &&
			(ref.OrderID == 0 || o.ID == ref.OrderID) &&
			(ref.OrderNumber == "" || o.OrderNumber == ref.OrderNumber) {
			return o.Status, nil
		}
	}
	return "", ErrOrderNotFound
}

func (s *fakeStore) list(match func(Order) bool) []Order {
	var orders []Order
	for _, o := range s.orders {
		if match(o) {
			orders = append(orders, clone(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		if (a.PlacedAt == nil) != (b.PlacedAt == nil) {
			return a.PlacedAt != nil
		}
		if a.PlacedAt != nil && !a.PlacedAt.Equal(*b.PlacedAt) {
			return a.PlacedAt.After(*b.PlacedAt)
		}
		return a.ID > b.ID
	})
	return orders
}

func clone(o Order) Order {
	o.Timeline = append([]Step(nil), o.Timeline...)
	return o
}
