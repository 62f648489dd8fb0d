// Package cart implements the shopping cart: a list of line items kept in
// durable storage and rewritten in full after every change.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"groundnut_back_end/internal/models"
)

// DefaultKey is the storage key of the storefront cart.
const DefaultKey = "cart"

// Store is a cart bound to one storage key. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	storage Storage
	key     string
	items   []models.CartItem
}

// Open loads the snapshot stored under key. An absent or unreadable
// snapshot gives an empty cart; Open never fails.
func Open(ctx context.Context, storage Storage, key string) *Store {
	s := &Store{storage: storage, key: key, items: []models.CartItem{}}

	data, err := storage.Load(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		return s
	case err != nil:
		log.Warn().Err(err).Str("key", key).Msg("⚠️ Cart storage unavailable, starting empty")
		return s
	}

	items, err := decodeItems(data)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("⚠️ Unreadable cart snapshot, starting empty")
		return s
	}
	s.items = items
	return s
}

func decodeItems(data []byte) ([]models.CartItem, error) {
	var raw []models.CartItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	items := make([]models.CartItem, 0, len(raw))
	for _, item := range raw {
		// Snapshots written without a quantity count as one unit.
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		items = append(items, item)
	}
	return items, nil
}

// Add puts one unit of item in the cart: the quantity of an existing line
// with the same product grows by one, otherwise a line with quantity 1 is appended.
func (s *Store) Add(ctx context.Context, item models.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(ctx, func(next []models.CartItem) []models.CartItem {
		for i := range next {
			if next[i].ProductID == item.ProductID {
				next[i].Quantity++
				return next
			}
		}
		item.Quantity = 1
		return append(next, item)
	})
}

// Remove drops every line of productID.
func (s *Store) Remove(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, func(next []models.CartItem) []models.CartItem {
		return without(next, productID)
	})
}

// SetQuantity sets the quantity of productID; below 1 the line is removed.
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(ctx, func(next []models.CartItem) []models.CartItem {
		if quantity < 1 {
			return without(next, productID)
		}
		for i := range next {
			if next[i].ProductID == productID {
				next[i].Quantity = quantity
			}
		}
		return next
	})
}

// Clear empties the cart and removes its snapshot.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	s.items = []models.CartItem{}
	return nil
}

// Items returns a copy of the lines.
func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Total is Σ unitPrice × quantity.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CartTotal(s.items)
}

// Count is the number of units in the cart.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, item := range s.items {
		n += item.Quantity
	}
	return n
}

func (s *Store) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

func (s *Store) snapshot() []models.CartItem {
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// commit applies change to the current lines, persists the result and only
// then makes it the current state. On an Updater the change is applied to
// the stored snapshot inside the atomic update, so writers sharing the key
// never drop each other's changes.
func (s *Store) commit(ctx context.Context, change func([]models.CartItem) []models.CartItem) error {
	u, ok := s.storage.(Updater)
	if !ok {
		next := change(s.snapshot())
		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode cart: %w", err)
		}
		if err := s.storage.Save(ctx, s.key, data); err != nil {
			return fmt.Errorf("save cart: %w", err)
		}
		s.items = next
		return nil
	}

	var next []models.CartItem
	err := u.Update(ctx, s.key, func(current []byte) ([]byte, error) {
		items := []models.CartItem{}
		if current != nil {
			decoded, err := decodeItems(current)
			if err != nil {
				log.Warn().Err(err).Str("key", s.key).Msg("⚠️ Unreadable cart snapshot, starting empty")
			} else {
				items = decoded
			}
		}
		next = change(items)
		return json.Marshal(next)
	})
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	s.items = next
	return nil
}

func without(items []models.CartItem, productID string) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.ProductID != productID {
			out = append(out, item)
		}
	}
	return out
}
