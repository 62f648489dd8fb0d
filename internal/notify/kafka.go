package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"groundnut_back_end/internal/models"
)

// EventOrderNotification is the type of the events written to Kafka.
const EventOrderNotification = "order.notification"

// MessageWriter is the part of *kafka.Writer used to publish.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

type orderEvent struct {
	Type       string       `json:"type"`
	OccurredAt time.Time    `json:"occurredAt"`
	Order      models.Order `json:"order"`
}

// KafkaDispatcher publishes one order.notification event per order for a
// downstream notifier to consume.
type KafkaDispatcher struct {
	writer MessageWriter
	now    func() time.Time
}

func NewKafkaDispatcher(writer MessageWriter) *KafkaDispatcher {
	return &KafkaDispatcher{writer: writer, now: time.Now}
}

func (d *KafkaDispatcher) Channel() string { return ChannelKafka }

func (d *KafkaDispatcher) Notify(ctx context.Context, order models.Order) error {
	now := d.now().UTC()
	data, err := json.Marshal(orderEvent{Type: EventOrderNotification, OccurredAt: now, Order: order})
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	// Drafts have no id yet; the customer's phone keeps their events on one partition.
	key := order.OrderID
	if key == "" {
		key = order.Phone
	}
	return d.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: data, Time: now})
}

func (d *KafkaDispatcher) Close() error {
	return d.writer.Close()
}
