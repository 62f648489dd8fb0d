package notify

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"groundnut_back_end/internal/models"
)

// LogDispatcher writes one structured line per order. It never fails.
type LogDispatcher struct {
	logger zerolog.Logger
}

func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{logger: log.Logger}
}

// NewLogDispatcherTo writes to logger instead of the global logger.
func NewLogDispatcherTo(logger zerolog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Channel() string { return ChannelLog }

func (d *LogDispatcher) Notify(_ context.Context, order models.Order) error {
	d.logger.Info().
		Str("order_id", order.OrderID).
		Str("customer", order.CustomerName).
		Str("phone", order.Phone).
		Int("items", len(order.Items)).
		Str("total", order.TotalAmount.StringFixed(2)).
		Msgf("🛒 %s received from %s", orderRef(order), order.CustomerName)
	return nil
}
