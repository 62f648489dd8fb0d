package store

import (
	"errors"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groundnut_back_end/internal/apperrors"
)

func TestOrderRowRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	stored := prepareOrder(sampleOrder("Asha"), "ORD-0123456789ABCDEF0123", at)

	row, err := newOrderRow(stored, at)
	require.NoError(t, err)
	assert.Equal(t, "ORD-0123456789ABCDEF0123", row.orderID)
	assert.Equal(t, 1, row.seq.Version())
	assert.True(t, row.seq.Time().Equal(at))

	got, err := decodeOrder("get order", row.payload)
	require.NoError(t, err)
	assert.Equal(t, stored.OrderID, got.OrderID)
	assert.Equal(t, stored.CustomerName, got.CustomerName)
	assert.True(t, got.TotalAmount.Equal(stored.TotalAmount), got.TotalAmount.String())
	assert.Len(t, got.Items, 2)
	assert.True(t, got.CreatedAt.Equal(at))
}

// The orders_log clustering key sorts by the time of each append.
func TestOrderRowsSortByAppendTime(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	var last time.Time
	for i := 0; i < 5; i++ {
		row, err := newOrderRow(sampleOrder("Asha"), at.Add(time.Duration(i)*time.Millisecond))
		require.NoError(t, err)
		assert.True(t, row.seq.Time().After(last))
		last = row.seq.Time()
	}
}

func TestDecodeOrderRejectsCorruptPayload(t *testing.T) {
	_, err := decodeOrder("list orders", "{not json")
	require.Error(t, err)
	assert.True(t, apperrors.IsPersistence(err))
	assert.Contains(t, err.Error(), "list orders")
}

func TestGetOrderError(t *testing.T) {
	assert.ErrorIs(t, getOrderError(gocql.ErrNotFound), apperrors.ErrOrderNotFound)
	assert.ErrorIs(t, getOrderError(errors.Join(errors.New("lookup"), gocql.ErrNotFound)), apperrors.ErrOrderNotFound)

	err := getOrderError(gocql.ErrNoConnections)
	assert.True(t, apperrors.IsPersistence(err))
	assert.NotErrorIs(t, err, apperrors.ErrOrderNotFound)
}
