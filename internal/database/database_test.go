package database

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groundnut_back_end/internal/config"
)

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedis(context.Background(), mr.Addr(), "")
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedis(context.Background(), addr, "")
	assert.Error(t, err)
}

func TestConnectWithFileStoresOpensNothing(t *testing.T) {
	cfg := &config.Config{OrderStore: "file", ContactStore: "file", NotifyTimeout: time.Second}

	conns, err := Connect(context.Background(), cfg)
	require.NoError(t, err)
	defer conns.Close(context.Background())

	assert.Nil(t, conns.Scylla)
	assert.Nil(t, conns.Redis)
	assert.Nil(t, conns.MongoDB)
	assert.Nil(t, conns.Elastic)
	assert.Nil(t, conns.MinIO)
}

func TestConnectRedisOptional(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := &config.Config{OrderStore: "file", ContactStore: "file", RedisHost: addr}
	conns, err := Connect(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, conns.Redis)

	cfg.RateLimitEnabled = true
	_, err = Connect(context.Background(), cfg)
	assert.Error(t, err)
}
