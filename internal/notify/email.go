package notify

import (
	"context"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/rs/zerolog/log"
	"github.com/wneessen/go-mail"

	"groundnut_back_end/internal/models"
)

// MailSender is the part of *mail.Client used to deliver messages.
type MailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// EmailDispatcher mails the order summary to the store owner.
type EmailDispatcher struct {
	sender MailSender
	from   string
	to     string
}

func NewEmailDispatcher(sender MailSender, from, to string) *EmailDispatcher {
	return &EmailDispatcher{sender: sender, from: from, to: to}
}

func (d *EmailDispatcher) Channel() string { return ChannelEmail }

func (d *EmailDispatcher) Notify(ctx context.Context, order models.Order) error {
	msg, err := d.message(order)
	if err != nil {
		return err
	}
	log.Debug().Str("to", d.to).Msg("📤 Sending order e-mail")
	return d.sender.DialAndSendWithContext(ctx, msg)
}

func (d *EmailDispatcher) message(order models.Order) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(d.from); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(d.to); err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}
	if order.Email != "" {
		// The owner can answer the customer directly.
		_ = msg.ReplyTo(order.Email)
	}
	msg.Subject(fmt.Sprintf("🛒 %s from %s (₹%s)", orderRef(order), order.CustomerName, order.TotalAmount.StringFixed(2)))

	data := newEmailData(order)
	if err := msg.SetBodyHTMLTemplate(orderHTML, data); err != nil {
		return nil, fmt.Errorf("html body: %w", err)
	}
	if err := msg.AddAlternativeTextTemplate(orderText, data); err != nil {
		return nil, fmt.Errorf("text body: %w", err)
	}
	return msg, nil
}

type emailLine struct {
	Name      string
	Quantity  int
	UnitPrice string
	Subtotal  string
}

type emailData struct {
	Ref      string
	Customer string
	Email    string
	Phone    string
	Address  string
	Payment  string
	Total    string
	Lines    []emailLine
}

func newEmailData(order models.Order) emailData {
	data := emailData{
		Ref:      orderRef(order),
		Customer: order.CustomerName,
		Email:    order.Email,
		Phone:    order.Phone,
		Address:  order.Address,
		Payment:  string(order.PaymentMethod),
		Total:    order.TotalAmount.StringFixed(2),
	}
	for _, item := range order.Items {
		data.Lines = append(data.Lines, emailLine{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Subtotal:  item.Subtotal().StringFixed(2),
		})
	}
	return data
}

var orderHTML = htmltemplate.Must(htmltemplate.New("order").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>{{.Ref}}</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">{{.Ref}}</h2>
		<p><strong>{{.Customer}}</strong><br>{{.Phone}}<br>{{.Email}}</p>
		<p>{{.Address}}</p>
		<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Product</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Qty</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Unit price</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Total</th>
				</tr>
			</thead>
			<tbody>
			{{- range .Lines}}
				<tr>
					<td style="padding: 10px; border: 1px solid #ddd;">{{.Name}}</td>
					<td style="padding: 10px; border: 1px solid #ddd;">{{.Quantity}}</td>
					<td style="padding: 10px; border: 1px solid #ddd;">₹{{.UnitPrice}}</td>
					<td style="padding: 10px; border: 1px solid #ddd;">₹{{.Subtotal}}</td>
				</tr>
			{{- end}}
			</tbody>
			<tfoot>
				<tr>
					<td colspan="3" style="padding: 10px; text-align: right; font-weight: bold;">Total:</td>
					<td style="padding: 10px; font-weight: bold;">₹{{.Total}}</td>
				</tr>
			</tfoot>
		</table>
		<p style="color: #555;">Payment: {{.Payment}}</p>
	</div>
</body>
</html>`))

var orderText = texttemplate.Must(texttemplate.New("order").Parse(`{{.Ref}}

Customer: {{.Customer}}
Phone:    {{.Phone}}
Email:    {{.Email}}
Address:  {{.Address}}

{{range .Lines}}- {{.Name}} x{{.Quantity}} @ ₹{{.UnitPrice}} = ₹{{.Subtotal}}
{{end}}
Total: ₹{{.Total}} ({{.Payment}})
`))
