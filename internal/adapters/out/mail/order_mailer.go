// internal/adapters/out/mail/order_mailer.go
package mail

import (
	"context"
	"fmt"

	orderdom "localix/internal/domain/order"
)

// OrderMailer implements usecase.Notifier over an EmailClient. Bodies are
// plain text; the order number is the customer-facing reference.
type OrderMailer struct {
	client      EmailClient
	fromAddress string
}

func NewOrderMailer(client EmailClient, fromAddress string) *OrderMailer {
	return &OrderMailer{client: client, fromAddress: fromAddress}
}

func (m *OrderMailer) OrderShipped(ctx context.Context, o orderdom.Order, recipient string) error {
	subject := fmt.Sprintf("Your order %s has shipped", o.Number)

	body := fmt.Sprintf(`Good news! Your order %s is on its way.`, o.Number)
	if o.TrackingCode != "" {
		body += fmt.Sprintf("\n\nTracking code: %s", o.TrackingCode)
		if o.Carrier != "" {
			body += fmt.Sprintf(" (%s)", o.Carrier)
		}
	}
	if o.DeliveryAddress != "" {
		body += fmt.Sprintf("\nDelivery address: %s", o.DeliveryAddress)
	}

	return m.client.Send(ctx, m.fromAddress, recipient, subject, body)
}

func (m *OrderMailer) LayawaySettled(ctx context.Context, o orderdom.Order, recipient string) error {
	subject := fmt.Sprintf("Order %s is fully paid", o.Number)

	body := fmt.Sprintf(
		`Your layaway order %s is now fully paid and has entered fulfillment.

Amount paid: %.2f`, o.Number, float64(o.AmountPaid)/100)

	return m.client.Send(ctx, m.fromAddress, recipient, subject, body)
}
