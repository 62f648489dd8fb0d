package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"groundnut_back_end/internal/models"
)

// SMSSender sends one text message and returns its provider id.
type SMSSender interface {
	Send(ctx context.Context, from, to, body string) (string, error)
}

// SMSDispatcher texts a short order summary to the owner's phone.
type SMSDispatcher struct {
	sender SMSSender
	from   string
	to     string
}

func NewSMSDispatcher(sender SMSSender, from, to string) *SMSDispatcher {
	return &SMSDispatcher{sender: sender, from: from, to: to}
}

func (d *SMSDispatcher) Channel() string { return ChannelSMS }

func (d *SMSDispatcher) Notify(ctx context.Context, order models.Order) error {
	sid, err := d.sender.Send(ctx, d.from, d.to, smsBody(order))
	if err != nil {
		return err
	}
	log.Debug().Str("sid", sid).Msg("📱 Order SMS sent")
	return nil
}

// smsBody keeps the summary short: reference, customer, contact and total.
func smsBody(order models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s from %s", orderRef(order), order.CustomerName)
	if order.Phone != "" {
		fmt.Fprintf(&b, " (%s)", order.Phone)
	}
	fmt.Fprintf(&b, ": %d item(s), total ₹%s", len(order.Items), order.TotalAmount.StringFixed(2))
	if order.Address != "" {
		fmt.Fprintf(&b, ". Deliver to: %s", order.Address)
	}
	return b.String()
}

// TwilioSender sends through the Twilio Messages API.
type TwilioSender struct {
	client *twilio.RestClient
}

func NewTwilioSender(accountSID, authToken string) *TwilioSender {
	return &TwilioSender{client: twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})}
}

// Send ignores ctx; the Twilio client has no context support, so callers
// bound it with WithTimeout.
func (s *TwilioSender) Send(_ context.Context, from, to, body string) (string, error) {
	params := &twilioapi.CreateMessageParams{}
	params.SetFrom(from)
	params.SetTo(to)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio: %w", err)
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}
