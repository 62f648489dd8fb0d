package cart

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "state")
	s, err := NewFileStorage(dir)
	require.NoError(t, err)

	_, err = s.Load(ctx, "cart")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, "cart", []byte(`[]`)))
	data, err := s.Load(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")

	require.NoError(t, s.Delete(ctx, "cart"))
	require.NoError(t, s.Delete(ctx, "cart"))
	_, err = s.Load(ctx, "cart")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, s.Save(ctx, "../escape", []byte(`[]`)))
}

func TestCartOnFileStorageSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewFileStorage(dir)
	require.NoError(t, err)
	c := Open(ctx, s, DefaultKey)
	require.NoError(t, c.Add(ctx, oil()))
	require.NoError(t, c.Add(ctx, peanuts()))

	s2, err := NewFileStorage(dir)
	require.NoError(t, err)
	assert.Len(t, Open(ctx, s2, DefaultKey).Items(), 2)
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisStorageTTL(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	s := NewRedisStorage(client)

	require.NoError(t, s.Save(ctx, "session-1", []byte(`[]`)))
	assert.True(t, mr.Exists("cart:session-1"))
	assert.Equal(t, CartTTL, mr.TTL("cart:session-1"))

	mr.FastForward(CartTTL + time.Second)
	_, err := s.Load(ctx, "session-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoragePublishesEvents(t *testing.T) {
	ctx := context.Background()
	_, client := newRedis(t)
	s := NewRedisStorage(client)

	sub := s.Subscribe(ctx, "session-1")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)
	ch := sub.Channel()

	c := Open(ctx, s, "session-1")
	require.NoError(t, c.Add(ctx, oil()))
	require.NoError(t, c.Clear(ctx))

	for _, want := range []string{EventUpdated, EventCleared} {
		select {
		case msg := <-ch:
			assert.Equal(t, "cart:session-1", msg.Channel)
			assert.Equal(t, want, msg.Payload)
		case <-time.After(2 * time.Second):
			t.Fatalf("no %q event", want)
		}
	}
}

func TestRedisCartConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	_, client := newRedis(t)
	s := NewRedisStorage(client)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- Open(ctx, s, "c1").Add(ctx, oil())
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	c := Open(ctx, s, "c1")
	assert.Equal(t, 20, c.Count())
	require.Len(t, c.Items(), 1)
}

func TestRedisCartStaleStoreMergesStoredState(t *testing.T) {
	ctx := context.Background()
	_, client := newRedis(t)
	s := NewRedisStorage(client)

	first := Open(ctx, s, "c1")
	second := Open(ctx, s, "c1")
	require.NoError(t, first.Add(ctx, oil()))
	require.NoError(t, second.Add(ctx, oil()))

	assert.Equal(t, 2, second.Count())
	assert.Equal(t, 2, Open(ctx, s, "c1").Count())
}

func TestRedisUpdateKeepsFunctionError(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	s := NewRedisStorage(client)

	err := s.Update(ctx, "c1", func([]byte) ([]byte, error) { return nil, os.ErrInvalid })
	assert.ErrorIs(t, err, os.ErrInvalid)
	assert.False(t, mr.Exists("cart:c1"))
}
