package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/rs/zerolog/log"

	"groundnut_back_end/internal/apperrors"
	"groundnut_back_end/internal/models"
	"groundnut_back_end/internal/utils"
)

// All orders share one partition of orders_log so that listing them follows
// the timeuuid clustering order, i.e. insertion order.
const ordersLogBucket = "all"

var scyllaOrderSchema = []string{
	`CREATE TABLE IF NOT EXISTS orders_log (
		bucket text,
		seq timeuuid,
		order_id text,
		payload text,
		PRIMARY KEY (bucket, seq)
	) WITH CLUSTERING ORDER BY (seq ASC)`,
	`CREATE TABLE IF NOT EXISTS orders_by_id (
		order_id text PRIMARY KEY,
		payload text
	)`,
}

// ScyllaOrderStore writes each order with one logged batch, so both tables
// are updated atomically and concurrent appends never overwrite each other.
type ScyllaOrderStore struct {
	session *gocql.Session
	now     func() time.Time
}

func NewScyllaOrderStore(session *gocql.Session) *ScyllaOrderStore {
	return &ScyllaOrderStore{session: session, now: time.Now}
}

// EnsureSchema creates the order tables when they are missing.
func (s *ScyllaOrderStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range scyllaOrderSchema {
		if err := s.session.Query(stmt).WithContext(ctx).Exec(); err != nil {
			return apperrors.Persistence("create order schema", err)
		}
	}
	return nil
}

// orderRow is what one order writes to both tables.
type orderRow struct {
	seq     gocql.UUID
	orderID string
	payload string
}

func newOrderRow(order models.Order, at time.Time) (orderRow, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return orderRow{}, apperrors.Persistence("encode order", err)
	}
	return orderRow{seq: gocql.UUIDFromTime(at), orderID: order.OrderID, payload: string(payload)}, nil
}

func decodeOrder(op, payload string) (models.Order, error) {
	var o models.Order
	if err := json.Unmarshal([]byte(payload), &o); err != nil {
		return models.Order{}, apperrors.Persistence(op, fmt.Errorf("decode order: %w", err))
	}
	return o, nil
}

// getOrderError maps a lookup error by order id to the store errors.
func getOrderError(err error) error {
	if errors.Is(err, gocql.ErrNotFound) {
		return apperrors.ErrOrderNotFound
	}
	return apperrors.Persistence("get order", err)
}

func (s *ScyllaOrderStore) Append(ctx context.Context, order models.Order) (models.Order, error) {
	now := s.now()
	stored := prepareOrder(order, utils.NewOrderID(), now)

	row, err := newOrderRow(stored, now)
	if err != nil {
		return models.Order{}, err
	}

	batch := s.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(`INSERT INTO orders_log (bucket, seq, order_id, payload) VALUES (?, ?, ?, ?)`,
		ordersLogBucket, row.seq, row.orderID, row.payload)
	batch.Query(`INSERT INTO orders_by_id (order_id, payload) VALUES (?, ?)`,
		row.orderID, row.payload)

	if err := s.session.ExecuteBatch(batch); err != nil {
		log.Error().Err(err).Str("order_id", stored.OrderID).Msg("❌ Scylla insert failed")
		return models.Order{}, apperrors.Persistence("append order", err)
	}
	return stored, nil
}

func (s *ScyllaOrderStore) List(ctx context.Context) ([]models.Order, error) {
	iter := s.session.Query(`SELECT payload FROM orders_log WHERE bucket = ?`, ordersLogBucket).
		WithContext(ctx).Iter()

	orders := []models.Order{}
	var payload string
	for iter.Scan(&payload) {
		o, err := decodeOrder("list orders", payload)
		if err != nil {
			iter.Close()
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := iter.Close(); err != nil {
		return nil, apperrors.Persistence("list orders", err)
	}
	return orders, nil
}

func (s *ScyllaOrderStore) Get(ctx context.Context, orderID string) (models.Order, error) {
	var payload string
	err := s.session.Query(`SELECT payload FROM orders_by_id WHERE order_id = ?`, orderID).
		WithContext(ctx).Scan(&payload)
	if err != nil {
		return models.Order{}, getOrderError(err)
	}
	return decodeOrder("get order", payload)
}
