package memory

import (
	"context"
	"sort"

	"github.com/your-org/rental-backend/internal/domain/cart"
)

// CartStore implements cart.Store
type CartStore struct {
	db *DB
}

var _ cart.Store = (*CartStore)(nil)

// Transaction runs fn on a private copy of the tables and commits on success
func (s *CartStore) Transaction(ctx context.Context, fn func(repo cart.Repository) error) error {
	return s.db.write(func(t *tables) error {
		return fn(&cartTx{db: s.db, t: t})
	})
}

func (s *CartStore) FindOpenCartByUser(ctx context.Context, userID uint) (c *cart.Cart, err error) {
	err = s.db.read(func(t *tables) error {
		c, err = (&cartTx{db: s.db, t: t}).FindOpenCartByUser(ctx, userID)
		return err
	})
	return c, err
}

func (s *CartStore) CreateCart(ctx context.Context, c *cart.Cart) error {
	return s.db.write(func(t *tables) error {
		return (&cartTx{db: s.db, t: t}).CreateCart(ctx, c)
	})
}

func (s *CartStore) GetCart(ctx context.Context, cartID uint) (c *cart.Cart, err error) {
	err = s.db.read(func(t *tables) error {
		c, err = (&cartTx{db: s.db, t: t}).GetCart(ctx, cartID)
		return err
	})
	return c, err
}

func (s *CartStore) LockCart(ctx context.Context, cartID uint) (*cart.Cart, error) {
	return s.GetCart(ctx, cartID)
}

func (s *CartStore) ListItems(ctx context.Context, cartID uint) (items []cart.CartItem, err error) {
	err = s.db.read(func(t *tables) error {
		items, err = (&cartTx{db: s.db, t: t}).ListItems(ctx, cartID)
		return err
	})
	return items, err
}

func (s *CartStore) GetItem(ctx context.Context, cartID, itemID uint) (item *cart.CartItem, err error) {
	err = s.db.read(func(t *tables) error {
		item, err = (&cartTx{db: s.db, t: t}).GetItem(ctx, cartID, itemID)
		return err
	})
	return item, err
}

func (s *CartStore) InsertItem(ctx context.Context, item *cart.CartItem) error {
	return s.Transaction(ctx, func(repo cart.Repository) error { return repo.InsertItem(ctx, item) })
}

func (s *CartStore) DeleteItem(ctx context.Context, cartID, itemID uint) error {
	return s.Transaction(ctx, func(repo cart.Repository) error { return repo.DeleteItem(ctx, cartID, itemID) })
}

func (s *CartStore) DeleteItems(ctx context.Context, cartID uint) error {
	return s.Transaction(ctx, func(repo cart.Repository) error { return repo.DeleteItems(ctx, cartID) })
}

func (s *CartStore) AdjustTotals(ctx context.Context, cartID uint, delta cart.Totals) error {
	return s.Transaction(ctx, func(repo cart.Repository) error { return repo.AdjustTotals(ctx, cartID, delta) })
}

func (s *CartStore) SetTotals(ctx context.Context, cartID uint, totals cart.Totals) error {
	return s.Transaction(ctx, func(repo cart.Repository) error { return repo.SetTotals(ctx, cartID, totals) })
}

// CloseCart moves a cart to the closed state, as checkout would
func (s *CartStore) CloseCart(cartID uint) error {
	return s.db.write(func(t *tables) error {
		c, ok := t.carts[cartID]
		if !ok {
			return cart.ErrCartNotFound
		}
		c.Status = cart.CartStatusClosed
		c.UpdatedAt = s.db.now()
		t.carts[cartID] = c
		return nil
	})
}

// cartTx is a cart.Repository bound to one set of tables. The caller holds the lock.
type cartTx struct {
	db *DB
	t  *tables
}

func (r *cartTx) FindOpenCartByUser(ctx context.Context, userID uint) (*cart.Cart, error) {
	if err := r.db.fault("FindOpenCartByUser"); err != nil {
		return nil, err
	}
	for _, c := range r.t.carts {
		if c.UserID == userID && c.IsOpen() {
			found := c
			return &found, nil
		}
	}
	return nil, cart.ErrCartNotFound
}

func (r *cartTx) CreateCart(ctx context.Context, c *cart.Cart) error {
	if err := r.db.fault("CreateCart"); err != nil {
		return err
	}
	if c.Status == "" {
		c.Status = cart.CartStatusOpen
	}
	if c.IsOpen() {
		for _, existing := range r.t.carts {
			if existing.UserID == c.UserID && existing.IsOpen() {
				return cart.ErrOpenCartExists
			}
		}
	}

	r.t.nextCartID++
	now := r.db.now()
	c.ID = r.t.nextCartID
	c.CreatedAt = now
	c.UpdatedAt = now
	stored := *c
	stored.Items = nil
	r.t.carts[c.ID] = stored
	return nil
}

func (r *cartTx) GetCart(ctx context.Context, cartID uint) (*cart.Cart, error) {
	if err := r.db.fault("GetCart"); err != nil {
		return nil, err
	}
	c, ok := r.t.carts[cartID]
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	return &c, nil
}

func (r *cartTx) LockCart(ctx context.Context, cartID uint) (*cart.Cart, error) {
	if err := r.db.fault("LockCart"); err != nil {
		return nil, err
	}
	return r.GetCart(ctx, cartID)
}

func (r *cartTx) ListItems(ctx context.Context, cartID uint) ([]cart.CartItem, error) {
	if err := r.db.fault("ListItems"); err != nil {
		return nil, err
	}
	items := make([]cart.CartItem, 0)
	for _, item := range r.t.items {
		if item.CartID == cartID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *cartTx) GetItem(ctx context.Context, cartID, itemID uint) (*cart.CartItem, error) {
	if err := r.db.fault("GetItem"); err != nil {
		return nil, err
	}
	item, ok := r.t.items[itemID]
	if !ok || item.CartID != cartID {
		return nil, cart.ErrCartItemNotFound
	}
	return &item, nil
}

func (r *cartTx) InsertItem(ctx context.Context, item *cart.CartItem) error {
	if err := r.db.fault("InsertItem"); err != nil {
		return err
	}
	if _, ok := r.t.carts[item.CartID]; !ok {
		return cart.ErrCartNotFound
	}

	r.t.nextItemID++
	now := r.db.now()
	item.ID = r.t.nextItemID
	item.CreatedAt = now
	item.UpdatedAt = now
	r.t.items[item.ID] = *item
	return nil
}

func (r *cartTx) DeleteItem(ctx context.Context, cartID, itemID uint) error {
	if err := r.db.fault("DeleteItem"); err != nil {
		return err
	}
	item, ok := r.t.items[itemID]
	if !ok || item.CartID != cartID {
		return cart.ErrCartItemNotFound
	}
	delete(r.t.items, itemID)
	return nil
}

func (r *cartTx) DeleteItems(ctx context.Context, cartID uint) error {
	if err := r.db.fault("DeleteItems"); err != nil {
		return err
	}
	for id, item := range r.t.items {
		if item.CartID == cartID {
			delete(r.t.items, id)
		}
	}
	return nil
}

func (r *cartTx) AdjustTotals(ctx context.Context, cartID uint, delta cart.Totals) error {
	if err := r.db.fault("AdjustTotals"); err != nil {
		return err
	}
	c, ok := r.t.carts[cartID]
	if !ok {
		return cart.ErrCartNotFound
	}
	c.TotalAmount = c.TotalAmount.Add(delta.Amount)
	c.TotalQuantity += delta.Quantity
	c.OrderCount += delta.Count
	c.UpdatedAt = r.db.now()
	r.t.carts[cartID] = c
	return nil
}

func (r *cartTx) SetTotals(ctx context.Context, cartID uint, totals cart.Totals) error {
	if err := r.db.fault("SetTotals"); err != nil {
		return err
	}
	c, ok := r.t.carts[cartID]
	if !ok {
		return cart.ErrCartNotFound
	}
	c.TotalAmount = totals.Amount
	c.TotalQuantity = totals.Quantity
	c.OrderCount = totals.Count
	c.UpdatedAt = r.db.now()
	r.t.carts[cartID] = c
	return nil
}
