// Package notify tells the store owner about new orders over one outbound
// channel: a log line, an e-mail, an SMS or a Kafka event.
package notify

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wneessen/go-mail"

	"groundnut_back_end/internal/apperrors"
	"groundnut_back_end/internal/config"
	"groundnut_back_end/internal/models"
)

// DefaultTimeout bounds one notification attempt.
const DefaultTimeout = 5 * time.Second

// Dispatcher delivers one notification per call. There are no retries.
type Dispatcher interface {
	Notify(ctx context.Context, order models.Order) error
	Channel() string
}

// Observer is told the outcome of every notification.
type Observer func(channel string, err error)

type timeoutDispatcher struct {
	next     Dispatcher
	timeout  time.Duration
	observer Observer
}

// WithTimeout bounds every call of d by timeout and wraps failures in
// *apperrors.NotificationError.
func WithTimeout(d Dispatcher, timeout time.Duration, observer Observer) Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &timeoutDispatcher{next: d, timeout: timeout, observer: observer}
}

func (t *timeoutDispatcher) Channel() string { return t.next.Channel() }

// Close releases the wrapped dispatcher's connections, if it holds any.
func (t *timeoutDispatcher) Close() error {
	if c, ok := t.next.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (t *timeoutDispatcher) Notify(ctx context.Context, order models.Order) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	// Some SDKs ignore the context, so the call runs aside and is abandoned
	// on timeout.
	done := make(chan error, 1)
	go func() { done <- t.next.Notify(ctx, order) }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	if err != nil {
		err = &apperrors.NotificationError{Channel: t.next.Channel(), Err: err}
	}
	if t.observer != nil {
		t.observer(t.next.Channel(), err)
	}
	return err
}

// New builds the dispatcher selected by NOTIFY_CHANNEL, bounded by NOTIFY_TIMEOUT.
func New(cfg *config.Config, observer Observer) (Dispatcher, error) {
	var d Dispatcher
	switch cfg.NotifyChannel {
	case "", ChannelLog:
		d = NewLogDispatcher()
	case ChannelEmail:
		client, err := mail.NewClient(cfg.SMTPHost,
			mail.WithPort(cfg.SMTPPort),
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(cfg.SMTPUsername),
			mail.WithPassword(cfg.SMTPPassword),
			mail.WithTLSPolicy(mail.TLSMandatory),
		)
		if err != nil {
			return nil, fmt.Errorf("smtp client: %w", err)
		}
		d = NewEmailDispatcher(client, cfg.MailFrom, cfg.OwnerEmail)
	case ChannelSMS:
		d = NewSMSDispatcher(NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken), cfg.TwilioPhoneNumber, cfg.OwnerPhoneNumber)
	case ChannelKafka:
		d = NewKafkaDispatcher(NewKafkaWriter(cfg.KafkaBrokerList(), cfg.KafkaTopic))
	default:
		return nil, fmt.Errorf("unknown notification channel %q", cfg.NotifyChannel)
	}

	log.Info().Str("channel", d.Channel()).Dur("timeout", cfg.NotifyTimeout).Msg("📣 Order notifications enabled")
	return WithTimeout(d, cfg.NotifyTimeout, observer), nil
}

const (
	ChannelLog   = "log"
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelKafka = "kafka"
)

// orderRef names the order in messages; drafts have no number yet.
func orderRef(order models.Order) string {
	if order.OrderID == "" {
		return "New order"
	}
	return "Order #" + order.OrderID
}
