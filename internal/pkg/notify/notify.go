// Package notify composes order notifiers.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/rental-backend/internal/domain/order"
	"golang.org/x/sync/errgroup"
)

// Fanout delivers each event to every notifier concurrently
type Fanout []order.Notifier

// Notify runs all notifiers and joins their failures
func (f Fanout) Notify(ctx context.Context, event order.Event) error {
	errs := make([]error, len(f))

	var g errgroup.Group
	for i, n := range f {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("notifier panicked: %v", r)
				}
				errs[i] = err
			}()
			return n.Notify(ctx, event)
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// Async hands events to a background goroutine so callers never wait on
// slow transports. Failures are logged.
type Async struct {
	next   order.Notifier
	logger logrus.FieldLogger
	wg     sync.WaitGroup
}

// NewAsync wraps next for fire-and-forget delivery
func NewAsync(next order.Notifier, logger logrus.FieldLogger) *Async {
	return &Async{next: next, logger: logger}
}

// Notify schedules delivery and returns immediately
func (a *Async) Notify(ctx context.Context, event order.Event) error {
	ctx = context.WithoutCancel(ctx)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		log := a.logger.WithField("event", event.Type)
		if event.Order != nil {
			log = log.WithField("order_number", event.Order.OrderNumber)
		}

		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("Order notifier panicked")
			}
		}()

		if err := a.next.Notify(ctx, event); err != nil {
			log.WithError(err).Error("Failed to deliver order notification")
		}
	}()

	return nil
}

// Wait blocks until all scheduled deliveries finish
func (a *Async) Wait() {
	a.wg.Wait()
}
