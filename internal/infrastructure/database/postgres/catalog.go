// internal/infrastructure/database/postgres/catalog.go
package postgres

import (
	"context"
	"errors"

	"github.com/your-org/rental-backend/internal/domain/product"
	"gorm.io/gorm"
)

// Catalog implements product.Catalog over the products table
type Catalog struct {
	db *gorm.DB
}

var _ product.Catalog = (*Catalog)(nil)

// NewCatalog creates a gorm-backed product lookup
func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

func (c *Catalog) GetProductByID(ctx context.Context, id uint) (*product.Product, error) {
	var p product.Product
	if err := c.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}
