// Package search mirrors orders into Elasticsearch for the admin search.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/rs/zerolog/log"

	"groundnut_back_end/internal/models"
	"groundnut_back_end/internal/store"
)

// ErrDisabled is returned when no Elasticsearch client is configured.
var ErrDisabled = errors.New("order search is disabled")

// OrderIndex indexes orders by id and runs full-text queries over them.
type OrderIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewOrderIndex(client *elasticsearch.Client, index string) *OrderIndex {
	return &OrderIndex{client: client, index: index}
}

// Enabled reports whether the index is backed by a cluster. A nil index is disabled.
func (x *OrderIndex) Enabled() bool {
	return x != nil && x.client != nil
}

func (x *OrderIndex) Index(ctx context.Context, order models.Order) error {
	if !x.Enabled() {
		return ErrDisabled
	}

	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}
	req := esapi.IndexRequest{
		Index:      x.index,
		DocumentID: order.OrderID,
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, x.client)
	if err != nil {
		return fmt.Errorf("elastic index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elastic index %s: %s", order.OrderID, res.Status())
	}
	return nil
}

// Search matches query against the customer, contact, address and item
// names, best match first.
func (x *OrderIndex) Search(ctx context.Context, query string) ([]models.Order, error) {
	if !x.Enabled() {
		return nil, ErrDisabled
	}

	var buf bytes.Buffer
	q := map[string]any{
		"size": 100,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  strings.TrimSpace(query),
				"fields": []string{"orderId^3", "customerName^2", "email", "phone", "address", "items.name"},
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{x.index},
		Body:  &buf,
	}
	res, err := req.Do(ctx, x.client)
	if err != nil {
		return nil, fmt.Errorf("elastic search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elastic search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Order `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	orders := make([]models.Order, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		orders = append(orders, hit.Source)
	}
	return orders, nil
}

// IndexingStore indexes every order once it is stored. Indexing is best
// effort: a stored order is never rejected because the index is down.
type IndexingStore struct {
	store.OrderStore
	index *OrderIndex
}

func NewIndexingStore(s store.OrderStore, index *OrderIndex) *IndexingStore {
	return &IndexingStore{OrderStore: s, index: index}
}

func (s *IndexingStore) Append(ctx context.Context, order models.Order) (models.Order, error) {
	stored, err := s.OrderStore.Append(ctx, order)
	if err != nil {
		return stored, err
	}
	if err := s.index.Index(ctx, stored); err != nil && !errors.Is(err, ErrDisabled) {
		log.Warn().Err(err).Str("order_id", stored.OrderID).Msg("⚠️ Order stored but not indexed")
	}
	return stored, nil
}
