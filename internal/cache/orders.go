// Package cache keeps read-through copies of orders in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"groundnut_back_end/internal/models"
	"groundnut_back_end/internal/store"
)

const (
	OrderCacheTTL = 10 * time.Minute
	ListCacheTTL  = time.Minute

	orderKeyPrefix = "order:"
	listKey        = "orders:all"
)

// OrderStore caches Get and List of the wrapped store. Append drops the
// cached list. Redis failures only cost a cache miss.
type OrderStore struct {
	store.OrderStore
	client *redis.Client
}

func NewOrderStore(next store.OrderStore, client *redis.Client) *OrderStore {
	return &OrderStore{OrderStore: next, client: client}
}

func (s *OrderStore) Append(ctx context.Context, order models.Order) (models.Order, error) {
	stored, err := s.OrderStore.Append(ctx, order)
	if err != nil {
		return stored, err
	}
	if err := s.client.Del(ctx, listKey).Err(); err != nil {
		log.Warn().Err(err).Msg("⚠️ Could not invalidate cached order list")
	}
	s.set(ctx, orderKeyPrefix+stored.OrderID, stored, OrderCacheTTL)
	return stored, nil
}

func (s *OrderStore) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if s.get(ctx, listKey, &orders) {
		return orders, nil
	}

	orders, err := s.OrderStore.List(ctx)
	if err != nil {
		return nil, err
	}
	s.set(ctx, listKey, orders, ListCacheTTL)
	return orders, nil
}

func (s *OrderStore) Get(ctx context.Context, orderID string) (models.Order, error) {
	var order models.Order
	if s.get(ctx, orderKeyPrefix+orderID, &order) {
		return order, nil
	}

	order, err := s.OrderStore.Get(ctx, orderID)
	if err != nil {
		return order, err
	}
	s.set(ctx, orderKeyPrefix+orderID, order, OrderCacheTTL)
	return order, nil
}

func (s *OrderStore) get(ctx context.Context, key string, out any) bool {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Debug().Err(err).Str("key", key).Msg("⚠️ Order cache unavailable")
		}
		return false
	}
	return json.Unmarshal(data, out) == nil
}

func (s *OrderStore) set(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("⚠️ Order cache write failed")
	}
}
