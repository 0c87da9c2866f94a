// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/your-org/rental-backend/internal/domain/product"
	"github.com/your-org/rental-backend/internal/pkg/apperror"
)

// Service handles cart business logic
type Service struct {
	store   Store
	catalog product.Catalog
	logger  logrus.FieldLogger
}

// NewService creates a new cart service
func NewService(store Store, catalog product.Catalog, logger logrus.FieldLogger) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
		logger:  logger,
	}
}

// AddItemRequest represents add to cart request
type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
	RentTime  int  `json:"rent_time" binding:"required,min=1"`
}

// ReplaceItemsRequest represents a bulk cart list update
type ReplaceItemsRequest struct {
	Items []ItemInput `json:"items" binding:"dive"`
}

// GetOrCreateOpenCart returns the user's open cart, creating an empty one if
// none exists. created reports whether this call created it.
func (s *Service) GetOrCreateOpenCart(ctx context.Context, userID uint) (cart *Cart, created bool, err error) {
	if userID == 0 {
		return nil, false, apperror.Unauthenticated("Authentication required")
	}

	cart, err = s.store.FindOpenCartByUser(ctx, userID)
	if err == nil {
		return cart, false, nil
	}
	if !errors.Is(err, ErrCartNotFound) {
		return nil, false, err
	}

	cart = &Cart{UserID: userID, Status: CartStatusOpen}
	if err := s.store.CreateCart(ctx, cart); err != nil {
		if errors.Is(err, ErrOpenCartExists) {
			// Lost the race to a concurrent request; the winner's cart is the one
			existing, findErr := s.store.FindOpenCartByUser(ctx, userID)
			return existing, false, findErr
		}
		return nil, false, err
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID, "cart_id": cart.ID}).Info("Created open cart")
	return cart, true, nil
}

// GetCart returns a cart with its items
func (s *Service) GetCart(ctx context.Context, cartID uint) (*Cart, error) {
	cart, err := s.store.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	items, err := s.store.ListItems(ctx, cartID)
	if err != nil {
		return nil, err
	}
	cart.Items = items

	return cart, nil
}

// AddItem snapshots the product price into a new line item and applies the
// item to the cart totals in the same transaction.
func (s *Service) AddItem(ctx context.Context, cartID, productID uint, quantity, rentTime int) (*CartItem, error) {
	if err := validateLine(quantity, rentTime); err != nil {
		return nil, err
	}

	prod, err := s.catalog.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	item := newItem(cartID, prod, quantity, rentTime)

	err = s.store.Transaction(ctx, func(repo Repository) error {
		cart, err := repo.LockCart(ctx, cartID)
		if err != nil {
			return err
		}
		if !cart.IsOpen() {
			return ErrCartNotOpen
		}

		if err := repo.InsertItem(ctx, item); err != nil {
			return err
		}

		return repo.AdjustTotals(ctx, cartID, Totals{
			Amount:   item.TotalPrice,
			Quantity: item.Quantity,
			Count:    1,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"cart_id":     cartID,
		"item_id":     item.ID,
		"product_id":  productID,
		"total_price": item.TotalPrice.String(),
	}).Debug("Added item to cart")

	return item, nil
}

// RemoveItem deletes a line item and reverses its contribution to the totals.
// Removing an item that is already gone returns ErrCartItemNotFound.
func (s *Service) RemoveItem(ctx context.Context, cartID, itemID uint) error {
	return s.store.Transaction(ctx, func(repo Repository) error {
		cart, err := repo.LockCart(ctx, cartID)
		if err != nil {
			return err
		}
		if !cart.IsOpen() {
			return ErrCartNotOpen
		}

		item, err := repo.GetItem(ctx, cartID, itemID)
		if err != nil {
			return err
		}

		if err := repo.DeleteItem(ctx, cartID, itemID); err != nil {
			return err
		}

		return repo.AdjustTotals(ctx, cartID, Totals{
			Amount:   item.TotalPrice,
			Quantity: item.Quantity,
			Count:    1,
		}.Negate())
	})
}

// ReplaceAllItems swaps the cart contents for a freshly priced item list.
// Products that no longer exist are skipped; totals are recomputed from the
// inserted items rather than adjusted.
func (s *Service) ReplaceAllItems(ctx context.Context, cartID uint, inputs []ItemInput) (*ReplaceResult, error) {
	for _, input := range inputs {
		if input.ProductID == 0 {
			return nil, apperror.BadRequest("product_id is required for every item")
		}
		if err := validateLine(input.Quantity, input.RentTime); err != nil {
			return nil, err
		}
	}

	result := &ReplaceResult{Items: make([]CartItem, 0, len(inputs))}
	items := make([]*CartItem, 0, len(inputs))

	for _, input := range inputs {
		prod, err := s.catalog.GetProductByID(ctx, input.ProductID)
		if errors.Is(err, product.ErrProductNotFound) {
			s.logger.WithFields(logrus.Fields{
				"cart_id":    cartID,
				"product_id": input.ProductID,
			}).Warn("Skipping unknown product in cart replace")
			result.SkippedProducts = append(result.SkippedProducts, input.ProductID)
			continue
		}
		if err != nil {
			return nil, err
		}
		items = append(items, newItem(cartID, prod, input.Quantity, input.RentTime))
	}

	err := s.store.Transaction(ctx, func(repo Repository) error {
		cart, err := repo.LockCart(ctx, cartID)
		if err != nil {
			return err
		}
		if !cart.IsOpen() {
			return ErrCartNotOpen
		}

		if err := repo.DeleteItems(ctx, cartID); err != nil {
			return err
		}

		inserted := make([]CartItem, 0, len(items))
		for _, item := range items {
			if err := repo.InsertItem(ctx, item); err != nil {
				return err
			}
			inserted = append(inserted, *item)
		}

		if err := repo.SetTotals(ctx, cartID, SumItems(inserted)); err != nil {
			return err
		}

		result.Items = inserted
		return nil
	})
	if err != nil {
		return nil, err
	}

	cart, err := s.store.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	result.Cart = cart

	return result, nil
}

// ListItems returns the cart's line items
func (s *Service) ListItems(ctx context.Context, cartID uint) ([]CartItem, error) {
	if _, err := s.store.GetCart(ctx, cartID); err != nil {
		return nil, err
	}
	return s.store.ListItems(ctx, cartID)
}

// GetItem returns one line item of the cart
func (s *Service) GetItem(ctx context.Context, itemID, cartID uint) (*CartItem, error) {
	return s.store.GetItem(ctx, cartID, itemID)
}

// Private helper methods

func validateLine(quantity, rentTime int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if rentTime < 1 {
		return ErrInvalidRentTime
	}
	return nil
}

func newItem(cartID uint, prod *product.Product, quantity, rentTime int) *CartItem {
	unitPrice := prod.UnitPrice()
	return &CartItem{
		CartID:     cartID,
		ProductID:  prod.ID,
		UnitPrice:  unitPrice,
		Quantity:   quantity,
		RentTime:   rentTime,
		TotalPrice: product.LineTotal(unitPrice, quantity, rentTime),
		Metadata: ItemMetadata{
			ProductName: prod.Name,
			Images:      append([]string(nil), prod.Images...),
		},
	}
}
