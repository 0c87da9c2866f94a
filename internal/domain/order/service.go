// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/rental-backend/internal/config"
	"github.com/your-org/rental-backend/internal/domain/product"
	"github.com/your-org/rental-backend/internal/pkg/apperror"
	"github.com/your-org/rental-backend/internal/pkg/auth"
	"github.com/your-org/rental-backend/internal/pkg/optional"
)

// Service handles order business logic
type Service struct {
	store    Store
	catalog  product.Catalog
	notifier Notifier
	config   config.OrderConfig
	logger   logrus.FieldLogger

	now    func() time.Time
	suffix func() int
}

// NewService creates a new order service
func NewService(store Store, catalog product.Catalog, notifier Notifier, cfg *config.Config, logger logrus.FieldLogger) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{
		store:    store,
		catalog:  catalog,
		notifier: notifier,
		config:   cfg.Orders,
		logger:   logger,
		now:      time.Now,
		suffix:   func() int { return 100000 + rand.Intn(900000) },
	}
}

// CreateOrderRequest represents an order placement payload
type CreateOrderRequest struct {
	OrderNumber     string           `json:"order_number"`
	ProductID       uint             `json:"product_id"`
	ProductSize     *string          `json:"product_size"`
	ProductColor    *string          `json:"product_color"`
	RentalPeriod    *string          `json:"rental_period"`
	Quantity        optional.Int     `json:"quantity"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	Tax             *decimal.Decimal `json:"tax"`
	Status          string           `json:"status"`
	PlacedAt        *time.Time       `json:"placed_at"`
	ShippingAddress *Address         `json:"shipping_address"`
	Timeline        []Step           `json:"timeline"`
	ReceivingInfo   *Checkpoint      `json:"receiving_info"`
	ReturnInfo      *Checkpoint      `json:"return_info"`
	Notes           *string          `json:"notes"`
}

// UpdateRequest is a partial seller update. Absent keys are left alone;
// keys sent as null clear the column.
type UpdateRequest struct {
	Status        optional.Field[string]     `json:"status"`
	Timeline      optional.Field[[]Step]     `json:"timeline"`
	ReceivingInfo optional.Field[Checkpoint] `json:"receiving_info"`
	ReturnInfo    optional.Field[Checkpoint] `json:"return_info"`
	Notes         optional.Field[string]     `json:"notes"`
}

// CreateOrder places an order for a single product on behalf of the customer
func (s *Service) CreateOrder(ctx context.Context, customer *auth.Principal, req *CreateOrderRequest) (*Order, error) {
	if customer == nil || customer.ID == 0 {
		return nil, apperror.Unauthenticated("Customer authentication required")
	}
	if req == nil || req.ProductID == 0 {
		return nil, ErrProductRequired
	}

	status := DefaultStatus
	if strings.TrimSpace(req.Status) != "" {
		parsed, ok := ParseStatus(req.Status)
		if !ok {
			return nil, ErrInvalidStatus
		}
		status = parsed
	}

	tax := decimal.Zero
	if req.Tax != nil {
		if req.Tax.IsNegative() {
			return nil, apperror.BadRequest("tax cannot be negative")
		}
		tax = *req.Tax
	}

	prod, err := s.catalog.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	quantity := int(req.Quantity)
	if quantity <= 0 {
		quantity = 1
	}

	unitPrice := resolveUnitPrice(prod, req.UnitPrice)
	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))

	now := s.now()
	placedAt := now
	if req.PlacedAt != nil {
		placedAt = *req.PlacedAt
	}

	timeline := req.Timeline
	if len(timeline) > 0 {
		timeline = NormalizeTimeline(timeline)
	}

	order := &Order{
		CustomerID:      customer.ID,
		SellerID:        prod.SellerID,
		ProductID:       prod.ID,
		ProductSize:     req.ProductSize,
		ProductColor:    req.ProductColor,
		RentalPeriod:    req.RentalPeriod,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		Status:          status,
		PlacedAt:        &placedAt,
		Subtotal:        subtotal,
		Tax:             tax,
		TotalAmount:     subtotal.Add(tax),
		ShippingAddress: req.ShippingAddress,
		Timeline:        SyncTimeline(timeline, status, placedAt, now),
		ReceivingInfo:   req.ReceivingInfo,
		ReturnInfo:      req.ReturnInfo,
		Notes:           nonEmpty(req.Notes),
	}

	if err := s.insertWithNumber(ctx, order, strings.TrimSpace(req.OrderNumber)); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"customer_id":  order.CustomerID,
		"seller_id":    order.SellerID,
		"total_amount": order.TotalAmount.String(),
	}).Info("Order created")

	s.decorate(order, prod)
	s.notify(ctx, Event{
		Type:       EventCreated,
		Order:      order,
		Recipient:  customer.Email,
		OccurredAt: now,
	})

	return order, nil
}

// UpdateOrderStatus applies a seller's partial update. Orders the seller does
// not own are reported as not found.
func (s *Service) UpdateOrderStatus(ctx context.Context, seller *auth.Principal, orderNumber string, req *UpdateRequest) (*Order, error) {
	if seller == nil || seller.ID == 0 {
		return nil, apperror.Unauthenticated("Seller authentication required")
	}
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, ErrOrderNumberRequired
	}
	if req == nil {
		req = &UpdateRequest{}
	}

	var newStatus Status
	if req.Status.Present {
		if req.Status.Value == nil || strings.TrimSpace(*req.Status.Value) == "" {
			return nil, ErrEmptyStatus
		}
		parsed, ok := ParseStatus(*req.Status.Value)
		if !ok {
			return nil, ErrInvalidStatus
		}
		newStatus = parsed
	}

	var override []Step
	hasOverride := req.Timeline.Present && req.Timeline.Value != nil
	if hasOverride {
		override = NormalizeTimeline(*req.Timeline.Value)
	}

	var (
		updated        *Order
		previousStatus Status
	)

	err := s.store.Transaction(ctx, func(repo Repository) error {
		current, err := repo.LockForSeller(ctx, orderNumber, seller.ID)
		if err != nil {
			return err
		}
		previousStatus = current.Status

		var columns []string

		if newStatus != "" {
			current.Status = newStatus
			columns = append(columns, ColumnStatus)
		}

		switch {
		case hasOverride:
			if s.config.ValidateTimelineOverride {
				if err := ValidateTimeline(override, current.Status); err != nil {
					return err
				}
			}
			current.Timeline = override
			columns = append(columns, ColumnTimeline)
		case newStatus != "":
			current.Timeline = SyncTimeline(current.Timeline, newStatus, placedAtOf(current), s.now())
			columns = append(columns, ColumnTimeline)
		}

		if req.ReceivingInfo.Present {
			current.ReceivingInfo = req.ReceivingInfo.Value
			columns = append(columns, ColumnReceivingInfo)
		}
		if req.ReturnInfo.Present {
			current.ReturnInfo = req.ReturnInfo.Value
			columns = append(columns, ColumnReturnInfo)
		}
		if req.Notes.Present {
			current.Notes = nonEmpty(req.Notes.Value)
			columns = append(columns, ColumnNotes)
		}

		if len(columns) > 0 {
			current.UpdatedAt = s.now()
			columns = append(columns, ColumnUpdatedAt)
			if err := repo.Update(ctx, current, columns...); err != nil {
				return err
			}
		}

		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.prepare(ctx, updated)

	if newStatus != "" && newStatus != previousStatus {
		s.logger.WithFields(logrus.Fields{
			"order_number": updated.OrderNumber,
			"from":         previousStatus,
			"to":           newStatus,
		}).Info("Order status changed")

		s.notify(ctx, Event{
			Type:           EventStatusChanged,
			Order:          updated,
			PreviousStatus: previousStatus,
			OccurredAt:     updated.UpdatedAt,
		})
	}

	return updated, nil
}

// GetOrderByNumber returns an order visible to the user as its customer or seller
func (s *Service) GetOrderByNumber(ctx context.Context, user *auth.Principal, orderNumber string) (*Order, error) {
	if user == nil || user.ID == 0 {
		return nil, apperror.Unauthenticated("Authentication required")
	}

	order, err := s.store.FindByNumber(ctx, strings.TrimSpace(orderNumber))
	if err != nil {
		return nil, err
	}
	if !order.VisibleTo(user.ID) {
		return nil, ErrOrderNotFound
	}

	s.prepare(ctx, order)
	return order, nil
}

// GetSellerOrder returns an order only when the user is its seller
func (s *Service) GetSellerOrder(ctx context.Context, seller *auth.Principal, orderNumber string) (*Order, error) {
	order, err := s.GetOrderByNumber(ctx, seller, orderNumber)
	if err != nil {
		return nil, err
	}
	if order.SellerID != seller.ID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersForUser returns the user's orders as a customer, newest placed first
func (s *Service) ListOrdersForUser(ctx context.Context, user *auth.Principal) ([]Order, error) {
	if user == nil || user.ID == 0 {
		return nil, apperror.Unauthenticated("Authentication required")
	}

	orders, err := s.store.ListByCustomer(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.prepareAll(ctx, orders), nil
}

// ListOrdersForSeller returns the orders of the seller's products, newest placed first
func (s *Service) ListOrdersForSeller(ctx context.Context, seller *auth.Principal) ([]Order, error) {
	if seller == nil || seller.ID == 0 {
		return nil, apperror.Unauthenticated("Authentication required")
	}

	orders, err := s.store.ListBySeller(ctx, seller.ID)
	if err != nil {
		return nil, err
	}
	return s.prepareAll(ctx, orders), nil
}

// IsOrderReviewable reports whether the customer's order identified by ref is
// completed. Missing identifiers and unknown orders are simply not reviewable.
func (s *Service) IsOrderReviewable(ctx context.Context, ref Ref, customerID uint) (bool, error) {
	ref.OrderNumber = strings.TrimSpace(ref.OrderNumber)
	if customerID == 0 || (ref.OrderID == 0 && ref.OrderNumber == "") {
		return false, nil
	}

	status, err := s.store.FindStatus(ctx, ref, customerID)
	if errors.Is(err, ErrOrderNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return strings.EqualFold(string(status), string(StatusCompleted)), nil
}

// Private helper methods

// insertWithNumber stores the order under the requested number, or under a
// generated one retried on collision up to the configured attempt count.
func (s *Service) insertWithNumber(ctx context.Context, order *Order, requested string) error {
	if requested != "" {
		order.OrderNumber = requested
		err := s.store.Create(ctx, order)
		if errors.Is(err, ErrDuplicateOrderNumber) {
			return ErrOrderNumberTaken
		}
		return err
	}

	attempts := s.config.NumberAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		order.ID = 0
		order.OrderNumber = s.generateOrderNumber()

		err := s.store.Create(ctx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrDuplicateOrderNumber) {
			return err
		}

		s.logger.WithFields(logrus.Fields{
			"order_number": order.OrderNumber,
			"attempt":      attempt,
		}).Warn("Order number collision, retrying")
	}

	return ErrOrderNumberUnavailable
}

func (s *Service) generateOrderNumber() string {
	prefix := s.config.NumberPrefix
	if prefix == "" {
		prefix = "ORD-"
	}
	return fmt.Sprintf("%s%06d", prefix, s.suffix())
}

// prepare fills derived read fields. The timeline is re-synced against the
// status on every read so stored overrides never disagree with it.
func (s *Service) prepare(ctx context.Context, order *Order) {
	order.Timeline = SyncTimeline(order.Timeline, order.Status, placedAtOf(order), s.now())

	prod, err := s.catalog.GetProductByID(ctx, order.ProductID)
	if err != nil {
		if !errors.Is(err, product.ErrProductNotFound) {
			s.logger.WithError(err).WithField("product_id", order.ProductID).Warn("Failed to load product for order")
		}
		prod = nil
	}
	s.decorate(order, prod)
}

func (s *Service) prepareAll(ctx context.Context, orders []Order) []Order {
	if orders == nil {
		return []Order{}
	}
	for i := range orders {
		s.prepare(ctx, &orders[i])
	}
	return orders
}

func (s *Service) decorate(order *Order, prod *product.Product) {
	order.CanReview = order.IsReviewable()
	if prod != nil {
		order.ProductName = prod.Name
		order.ProductImage = prod.PrimaryImage()
	}
}

// notify hands the event to the notifier; failures never reach the caller
func (s *Service) notify(ctx context.Context, event Event) {
	log := s.logger.WithField("event", event.Type)
	if event.Order != nil {
		log = log.WithField("order_number", event.Order.OrderNumber)
		snapshot := *event.Order
		event.Order = &snapshot
	}

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Order notifier panicked")
		}
	}()

	if err := s.notifier.Notify(context.WithoutCancel(ctx), event); err != nil {
		log.WithError(err).Error("Failed to send order notification")
	}
}

// resolveUnitPrice prefers the catalog price; a caller price is only used
// when the product carries none
func resolveUnitPrice(prod *product.Product, requested *decimal.Decimal) decimal.Decimal {
	if prod.PricePerDay.IsPositive() {
		return prod.PricePerDay
	}
	if requested != nil && requested.IsPositive() {
		return *requested
	}
	return decimal.Zero
}

func placedAtOf(order *Order) time.Time {
	if order.PlacedAt != nil {
		return *order.PlacedAt
	}
	return order.CreatedAt
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
