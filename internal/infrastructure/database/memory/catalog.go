package memory

import (
	"context"

	"github.com/your-org/rental-backend/internal/domain/product"
)

// Catalog implements product.Catalog over the in-memory products table
type Catalog struct {
	db *DB
}

var _ product.Catalog = (*Catalog)(nil)

func (c *Catalog) GetProductByID(ctx context.Context, id uint) (p *product.Product, err error) {
	err = c.db.read(func(t *tables) error {
		if err := c.db.fault("GetProductByID"); err != nil {
			return err
		}
		found, ok := t.products[id]
		if !ok {
			return product.ErrProductNotFound
		}
		found.Images = append([]string(nil), found.Images...)
		p = &found
		return nil
	})
	return p, err
}
