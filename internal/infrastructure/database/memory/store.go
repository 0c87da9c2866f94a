// Package memory provides an in-process transactional store for the cart and
// order engines. It backs the test suites and DB_DRIVER=memory.
package memory

import (
	"sync"
	"time"

	"github.com/your-org/rental-backend/internal/domain/cart"
	"github.com/your-org/rental-backend/internal/domain/order"
	"github.com/your-org/rental-backend/internal/domain/product"
	"github.com/your-org/rental-backend/internal/infrastructure/database/seed"
)

// DB holds all tables behind one mutex. A transaction works on a copy of the
// tables and swaps it in on commit, so a failed transaction leaves no trace.
type DB struct {
	mu     sync.Mutex
	tables *tables
	faults map[string]error
	now    func() time.Time
}

type tables struct {
	nextCartID  uint
	nextItemID  uint
	nextOrderID uint

	carts    map[uint]cart.Cart
	items    map[uint]cart.CartItem
	orders   map[uint]order.Order
	products map[uint]product.Product
}

// New creates an empty store
func New() *DB {
	return &DB{
		tables: &tables{
			carts:    make(map[uint]cart.Cart),
			items:    make(map[uint]cart.CartItem),
			orders:   make(map[uint]order.Order),
			products: make(map[uint]product.Product),
		},
		faults: make(map[string]error),
		now:    time.Now,
	}
}

// Carts returns the cart engine view of the store
func (db *DB) Carts() *CartStore { return &CartStore{db: db} }

// Orders returns the order engine view of the store
func (db *DB) Orders() *OrderStore { return &OrderStore{db: db} }

// Catalog returns the product lookup view of the store
func (db *DB) Catalog() *Catalog { return &Catalog{db: db} }

// FailOn makes the named repository operation return err until cleared with
// a nil err. Operation names are the repository method names, e.g. "AdjustTotals".
func (db *DB) FailOn(operation string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err == nil {
		delete(db.faults, operation)
		return
	}
	db.faults[operation] = err
}

// PutProduct inserts or replaces a catalog product
func (db *DB) PutProduct(p product.Product) {
	db.mu.Lock()
	defer db.mu.Unlock()

	now := db.now()
	if existing, ok := db.tables.products[p.ID]; ok {
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	p.Images = append([]string(nil), p.Images...)
	db.tables.products[p.ID] = p
}

// read runs fn against the live tables
func (db *DB) read(fn func(t *tables) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return fn(db.tables)
}

// write runs fn against a copy of the tables and commits it when fn succeeds
func (db *DB) write(fn func(t *tables) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	working := db.tables.clone()
	if err := fn(working); err != nil {
		return err
	}
	db.tables = working
	return nil
}

func (db *DB) fault(operation string) error {
	return db.faults[operation]
}

func (t *tables) clone() *tables {
	c := &tables{
		nextCartID:  t.nextCartID,
		nextItemID:  t.nextItemID,
		nextOrderID: t.nextOrderID,
		carts:       make(map[uint]cart.Cart, len(t.carts)),
		items:       make(map[uint]cart.CartItem, len(t.items)),
		orders:      make(map[uint]order.Order, len(t.orders)),
		products:    make(map[uint]product.Product, len(t.products)),
	}
	for k, v := range t.carts {
		c.carts[k] = v
	}
	for k, v := range t.items {
		c.items[k] = v
	}
	for k, v := range t.orders {
		c.orders[k] = v
	}
	for k, v := range t.products {
		c.products[k] = v
	}
	return c
}

// SeedDemo loads the demo listings owned by sellerID
func (db *DB) SeedDemo(sellerID uint) {
	for i, p := range seed.Products(sellerID) {
		p.ID = uint(i + 1)
		db.PutProduct(p)
	}
}
