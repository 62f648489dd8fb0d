package cart

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	CartTTL     = 30 * 24 * time.Hour // 30 days
	RedisPrefix = "cart:"

	EventUpdated = "updated"
	EventCleared = "cleared"

	maxUpdateAttempts = 50
)

// ErrConflict is returned when a cart kept changing through every attempt of Update.
var ErrConflict = errors.New("cart: too many concurrent updates")

// RedisStorage keeps server-side carts under cart:<key> with a TTL and
// publishes every change on the channel of the same name.
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client, ttl: CartTTL}
}

// Channel is the pub/sub channel carrying change events for key.
func Channel(key string) string {
	return RedisPrefix + key
}

func (s *RedisStorage) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, RedisPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *RedisStorage) Save(ctx context.Context, key string, data []byte) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, RedisPrefix+key, data, s.ttl)
	pipe.Publish(ctx, Channel(key), EventUpdated)
	_, err := pipe.Exec(ctx)
	return err
}

// Update rewrites cart:<key> under WATCH and retries when another writer
// got in between the read and the write.
func (s *RedisStorage) Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	redisKey := RedisPrefix + key
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, redisKey).Bytes()
		if errors.Is(err, redis.Nil) {
			current = nil
		} else if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, redisKey, next, s.ttl)
			pipe.Publish(ctx, Channel(key), EventUpdated)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, redisKey)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return ErrConflict
}

func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, RedisPrefix+key)
	pipe.Publish(ctx, Channel(key), EventCleared)
	_, err := pipe.Exec(ctx)
	return err
}

// Subscribe listens to the change events of key.
func (s *RedisStorage) Subscribe(ctx context.Context, key string) *redis.PubSub {
	return s.client.Subscribe(ctx, Channel(key))
}
