package cart

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groundnut_back_end/internal/models"
)

func oil() models.CartItem {
	return models.CartItem{ProductID: "1", Name: "Premium Groundnut Oil", UnitPrice: decimal.NewFromInt(299)}
}

func peanuts() models.CartItem {
	return models.CartItem{ProductID: "2", Name: "Roasted Peanuts", UnitPrice: decimal.NewFromInt(149)}
}

func TestAddIncrementsExistingLine(t *testing.T) {
	ctx := context.Background()
	c := Open(ctx, NewMemoryStorage(), DefaultKey)

	require.NoError(t, c.Add(ctx, oil()))
	require.NoError(t, c.Add(ctx, oil()))
	require.NoError(t, c.Add(ctx, peanuts()))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, 3, c.Count())
	assert.True(t, c.Total().Equal(decimal.NewFromInt(747)), "total %s", c.Total())
}

func TestAddIgnoresIncomingQuantity(t *testing.T) {
	ctx := context.Background()
	c := Open(ctx, NewMemoryStorage(), DefaultKey)

	item := oil()
	item.Quantity = 7
	require.NoError(t, c.Add(ctx, item))
	assert.Equal(t, 1, c.Items()[0].Quantity)
}

func TestSetQuantity(t *testing.T) {
	ctx := context.Background()
	c := Open(ctx, NewMemoryStorage(), DefaultKey)
	require.NoError(t, c.Add(ctx, oil()))
	require.NoError(t, c.Add(ctx, peanuts()))

	require.NoError(t, c.SetQuantity(ctx, "1", 4))
	assert.Equal(t, 4, c.Items()[0].Quantity)

	require.NoError(t, c.SetQuantity(ctx, "1", 0))
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "2", items[0].ProductID)

	require.NoError(t, c.SetQuantity(ctx, "2", -3))
	assert.True(t, c.Empty())
}

func TestRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	c := Open(ctx, storage, DefaultKey)
	require.NoError(t, c.Add(ctx, oil()))
	require.NoError(t, c.Add(ctx, peanuts()))

	require.NoError(t, c.Remove(ctx, "1"))
	assert.Len(t, c.Items(), 1)

	require.NoError(t, c.Remove(ctx, "missing"))
	assert.Len(t, c.Items(), 1)

	require.NoError(t, c.Clear(ctx))
	assert.True(t, c.Empty())
	assert.True(t, c.Total().IsZero())

	_, err := storage.Load(ctx, DefaultKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenRestoresSnapshot(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	c := Open(ctx, storage, DefaultKey)
	require.NoError(t, c.Add(ctx, oil()))
	require.NoError(t, c.Add(ctx, oil()))

	reopened := Open(ctx, storage, DefaultKey)
	assert.Equal(t, c.Items(), reopened.Items())
}

func TestOpenFailSoft(t *testing.T) {
	ctx := context.Background()

	t.Run("corrupt snapshot", func(t *testing.T) {
		storage := NewMemoryStorage()
		require.NoError(t, storage.Save(ctx, DefaultKey, []byte("{not json")))
		assert.True(t, Open(ctx, storage, DefaultKey).Empty())
	})

	t.Run("missing quantity counts as one", func(t *testing.T) {
		storage := NewMemoryStorage()
		require.NoError(t, storage.Save(ctx, DefaultKey, []byte(`[{"productId":"1","name":"Oil","unitPrice":10}]`)))
		c := Open(ctx, storage, DefaultKey)
		require.Len(t, c.Items(), 1)
		assert.Equal(t, 1, c.Items()[0].Quantity)
	})

	t.Run("storage error", func(t *testing.T) {
		assert.True(t, Open(ctx, failingStorage{}, DefaultKey).Empty())
	})
}

type failingStorage struct{}

func (failingStorage) Load(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}
func (failingStorage) Save(context.Context, string, []byte) error { return errors.New("disk on fire") }
func (failingStorage) Delete(context.Context, string) error       { return errors.New("disk on fire") }

func TestFailedSaveKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	c := Open(ctx, failingStorage{}, DefaultKey)

	require.Error(t, c.Add(ctx, oil()))
	assert.True(t, c.Empty())
}

// Every mutation persists the whole cart, so the snapshot in storage always
// matches what the store reports.
func TestRandomOperationsKeepInvariants(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))
	products := []models.CartItem{
		oil(),
		peanuts(),
		{ProductID: "3", Name: "Groundnut Chikki", UnitPrice: decimal.RequireFromString("49.50")},
	}

	storage := NewMemoryStorage()
	c := Open(ctx, storage, DefaultKey)
	for step := 0; step < 500; step++ {
		p := products[rng.Intn(len(products))]
		switch rng.Intn(4) {
		case 0, 1:
			require.NoError(t, c.Add(ctx, p))
		case 2:
			require.NoError(t, c.SetQuantity(ctx, p.ProductID, rng.Intn(5)-1))
		case 3:
			require.NoError(t, c.Remove(ctx, p.ProductID))
		}

		items := c.Items()
		seen := map[string]bool{}
		expected := decimal.Zero
		for _, item := range items {
			assert.GreaterOrEqual(t, item.Quantity, 1)
			assert.False(t, seen[item.ProductID], "duplicate line %s", item.ProductID)
			seen[item.ProductID] = true
			expected = expected.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		require.True(t, expected.Equal(c.Total()))

		data, err := storage.Load(ctx, DefaultKey)
		require.NoError(t, err)
		var persisted []models.CartItem
		require.NoError(t, json.Unmarshal(data, &persisted))
		require.Len(t, persisted, len(items))
		for i := range items {
			assert.Equal(t, items[i].ProductID, persisted[i].ProductID)
			assert.Equal(t, items[i].Quantity, persisted[i].Quantity)
		}
	}
}
