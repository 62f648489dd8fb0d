package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"groundnut_back_end/internal/cart"
	"groundnut_back_end/internal/models"
)

// HistoryKey is the storage key of the per-user confirmation history.
const HistoryKey = "userOrders"

// History keeps the confirmations shown to each user, newest last. It is a
// display aid; the order store stays the record of truth.
type History struct {
	mu      sync.Mutex
	storage cart.Storage
}

func NewHistory(storage cart.Storage) *History {
	return &History{storage: storage}
}

func (h *History) Append(ctx context.Context, userID string, c models.Confirmation) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	all, err := h.load(ctx)
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		// Unreadable history starts over rather than refuse new confirmations.
		all = map[string][]models.Confirmation{}
	case err != nil:
		return fmt.Errorf("load history: %w", err)
	}
	all[userID] = append(all[userID], c)

	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return h.storage.Save(ctx, HistoryKey, data)
}

// Orders returns the confirmations of userID. Missing or unreadable history
// reads as empty.
func (h *History) Orders(ctx context.Context, userID string) []models.Confirmation {
	h.mu.Lock()
	defer h.mu.Unlock()

	all, err := h.load(ctx)
	if err != nil {
		return []models.Confirmation{}
	}
	out := all[userID]
	if out == nil {
		out = []models.Confirmation{}
	}
	return out
}

func (h *History) load(ctx context.Context) (map[string][]models.Confirmation, error) {
	data, err := h.storage.Load(ctx, HistoryKey)
	if errors.Is(err, cart.ErrNotFound) {
		return map[string][]models.Confirmation{}, nil
	}
	if err != nil {
		return nil, err
	}
	var all map[string][]models.Confirmation
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	if all == nil {
		all = map[string][]models.Confirmation{}
	}
	return all, nil
}
