package store

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"groundnut_back_end/internal/apperrors"
	"groundnut_back_end/internal/models"
	"groundnut_back_end/internal/utils"
)

// FileOrderStore keeps every order in one JSON file (data/orders.json).
type FileOrderStore struct {
	col *jsonCollection[models.Order]
	now func() time.Time
}

func NewFileOrderStore(path string) (*FileOrderStore, error) {
	col, err := newJSONCollection[models.Order](path)
	if err != nil {
		return nil, apperrors.Persistence("open order store", err)
	}
	return &FileOrderStore{col: col, now: time.Now}, nil
}

func (s *FileOrderStore) Append(ctx context.Context, order models.Order) (models.Order, error) {
	if err := ctx.Err(); err != nil {
		return models.Order{}, err
	}

	stored, err := s.col.append(func(existing []models.Order) (models.Order, error) {
		id := utils.NewOrderID()
		for taken(existing, id) {
			id = utils.NewOrderID()
		}
		return prepareOrder(order, id, s.now()), nil
	})
	if err != nil {
		log.Error().Err(err).Msg("❌ Failed to save order")
		return models.Order{}, apperrors.Persistence("append order", err)
	}
	return stored, nil
}

func (s *FileOrderStore) List(ctx context.Context) ([]models.Order, error) {
	orders, err := s.col.all()
	if err != nil {
		return nil, apperrors.Persistence("list orders", err)
	}
	return orders, nil
}

func (s *FileOrderStore) Get(ctx context.Context, orderID string) (models.Order, error) {
	orders, err := s.List(ctx)
	if err != nil {
		return models.Order{}, err
	}
	return findOrder(orders, orderID)
}

func taken(orders []models.Order, id string) bool {
	_, err := findOrder(orders, id)
	return err == nil
}
