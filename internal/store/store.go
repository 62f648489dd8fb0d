// Package store persists orders and contact messages.
//
// Every implementation serializes its writes (or relies on a storage engine
// with atomic inserts), wraps I/O failures in *apperrors.PersistenceError and
// never leaves a partially written collection behind.
package store

import (
	"context"
	"time"

	"groundnut_back_end/internal/apperrors"
	"groundnut_back_end/internal/models"
	"groundnut_back_end/internal/utils"
	"groundnut_back_end/internal/validation"
)

// OrderStore is the server-side collection of orders.
type OrderStore interface {
	// Append assigns id, creation time, pending status and the recomputed
	// total, then stores the order.
	Append(ctx context.Context, order models.Order) (models.Order, error)
	// List returns every order in insertion order.
	List(ctx context.Context) ([]models.Order, error)
	Get(ctx context.Context, orderID string) (models.Order, error)
}

// ContactStore is the server-side collection of contact messages.
type ContactStore interface {
	Create(ctx context.Context, in models.ContactInput) (models.ContactMessage, error)
	List(ctx context.Context) ([]models.ContactMessage, error)
}

// prepareOrder fills the server-owned fields of a new order.
func prepareOrder(order models.Order, id string, now time.Time) models.Order {
	items := make([]models.CartItem, len(order.Items))
	copy(items, order.Items)

	order.OrderID = id
	order.Items = items
	order.TotalAmount = models.CartTotal(items)
	order.Status = models.StatusPending
	order.CreatedAt = now.UTC()
	if order.PaymentMethod == "" {
		order.PaymentMethod = models.PaymentCashOnDelivery
	}
	return order
}

// newContact validates in and builds the record to store.
func newContact(in models.ContactInput, now time.Time) (models.ContactMessage, error) {
	in = validation.NormalizeContact(in)
	if ve := validation.ValidateContact(in); ve != nil {
		return models.ContactMessage{}, ve
	}
	return models.ContactMessage{
		ID:        utils.NewContactID(),
		Name:      in.Name,
		Email:     in.Email,
		Message:   in.Message,
		CreatedAt: now.UTC(),
	}, nil
}

func findOrder(orders []models.Order, orderID string) (models.Order, error) {
	for _, o := range orders {
		if o.OrderID == orderID {
			return o, nil
		}
	}
	return models.Order{}, apperrors.ErrOrderNotFound
}

var (
	_ OrderStore   = (*FileOrderStore)(nil)
	_ OrderStore   = (*ScyllaOrderStore)(nil)
	_ ContactStore = (*FileContactStore)(nil)
	_ ContactStore = (*MongoContactStore)(nil)
)
