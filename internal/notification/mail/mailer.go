package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/aprayoga/storefront/internal/config"
	"github.com/aprayoga/storefront/order/pkg/response"
)

// Mailer sends transactional mail over plain smtp.
type Mailer struct {
	addr   string
	auth   smtp.Auth
	sender string
}

func NewMailer(cfg config.Email) Mailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return Mailer{
		addr:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth:   auth,
		sender: cfg.Sender,
	}
}

// SendOrderReceived mails the order confirmation with the payment link and
// due date to the customer.
func (m Mailer) SendOrderReceived(order response.Order) error {
	recipient := order.CustomerEmail
	subject := fmt.Sprintf("Order received: %s", order.Code)

	body := strings.Builder{}
	fmt.Fprintf(&body, "Hi %s,\r\n\r\n", order.CustomerFirstName)
	fmt.Fprintf(&body, "We received your order %s.\r\n\r\n", order.Code)
	for _, item := range order.Items {
		fmt.Fprintf(&body, "  %dx %s (%s)\r\n", item.Qty, item.Name, item.Sku)
	}
	fmt.Fprintf(&body, "\r\nGrand total: %s\r\n", order.GrandTotal.String())
	if order.PaymentUrl != "" {
		fmt.Fprintf(&body, "Pay here: %s\r\n", order.PaymentUrl)
	}
	fmt.Fprintf(&body, "Payment is due by %s.\r\n", order.PaymentDue.Format("2 January 2006"))

	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		m.sender,
		recipient,
		subject,
		body.String(),
	)
	if err := smtp.SendMail(m.addr, m.auth, m.sender, []string{recipient}, []byte(message)); err != nil {
		return fmt.Errorf("failed sending mail to=%s with error=%w", recipient, err)
	}
	return nil
}
