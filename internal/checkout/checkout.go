// Package checkout places an order from the storefront cart: validate the
// delivery form, notify the store owner, persist the order, then empty the cart.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"groundnut_back_end/internal/apperrors"
	"groundnut_back_end/internal/models"
	"groundnut_back_end/internal/validation"
)

// OrderCreator persists an order and returns the stored record, which
// carries the server-assigned order number.
type OrderCreator interface {
	CreateOrder(ctx context.Context, in models.OrderInput) (models.Order, error)
}

// Notifier tells the store owner about an order. It reports success and
// never returns an error.
type Notifier interface {
	NotifyOrder(ctx context.Context, order models.Order) bool
}

// Cart is the part of the cart store a checkout reads and clears.
type Cart interface {
	Items() []models.CartItem
	Clear(ctx context.Context) error
}

type Submitter struct {
	orders   OrderCreator
	notifier Notifier
	history  *History
	userID   string
	now      func() time.Time
}

type Option func(*Submitter)

// WithHistory records every confirmation under userID.
func WithHistory(h *History, userID string) Option {
	return func(s *Submitter) {
		s.history = h
		s.userID = userID
	}
}

func NewSubmitter(orders OrderCreator, notifier Notifier, opts ...Option) *Submitter {
	s := &Submitter{orders: orders, notifier: notifier, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitOrder runs the checkout. Validation errors come back as
// *apperrors.ValidationError and an empty cart as apperrors.ErrEmptyCart.
// A failed notification only sets NotificationSent to false; a failed
// persistence aborts and leaves the cart untouched. A notification already
// sent for an order that then fails to persist is not withdrawn.
func (s *Submitter) SubmitOrder(ctx context.Context, form validation.CheckoutForm, c Cart) (models.Confirmation, error) {
	if err := form.Validate(); err != nil {
		return models.Confirmation{}, err
	}

	items := c.Items()
	if len(items) == 0 {
		return models.Confirmation{}, apperrors.ErrEmptyCart
	}

	form = form.Trimmed()
	total := models.CartTotal(items)

	// The order number does not exist until the server stores the order.
	draft := models.Order{
		CustomerName:  form.FullName,
		Email:         form.Email,
		Phone:         form.Phone,
		Address:       form.Address,
		Items:         items,
		TotalAmount:   total,
		PaymentMethod: models.PaymentCashOnDelivery,
		Status:        models.StatusPending,
		CreatedAt:     s.now().UTC(),
	}

	sent := s.notifier.NotifyOrder(ctx, draft)
	if !sent {
		log.Warn().Str("customer", draft.CustomerName).Msg("⚠️ Owner notification failed, placing order anyway")
	}

	stored, err := s.orders.CreateOrder(ctx, models.OrderInput{
		CustomerName:  draft.CustomerName,
		Email:         draft.Email,
		Phone:         draft.Phone,
		Address:       draft.Address,
		Items:         items,
		TotalAmount:   &total,
		PaymentMethod: draft.PaymentMethod,
	})
	if err != nil {
		return models.Confirmation{}, fmt.Errorf("place order: %w", err)
	}

	if err := c.Clear(ctx); err != nil {
		log.Error().Err(err).Str("order_id", stored.OrderID).Msg("❌ Order placed but cart could not be cleared")
	}

	confirmation := models.Confirmation{
		OrderNumber:      stored.OrderID,
		NotificationSent: sent,
		Order:            stored,
	}

	if s.history != nil && s.userID != "" {
		if err := s.history.Append(ctx, s.userID, confirmation); err != nil {
			log.Warn().Err(err).Str("order_id", stored.OrderID).Msg("⚠️ Could not record order history")
		}
	}

	log.Info().
		Str("order_id", stored.OrderID).
		Str("total", stored.TotalAmount.String()).
		Bool("notification_sent", sent).
		Msg("✅ Order placed")

	return confirmation, nil
}
