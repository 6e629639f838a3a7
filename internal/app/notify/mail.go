package notify

import (
	"fmt"
	"strings"

	"github.com/shopora/go-shop-backend/internal/app/config"
	"github.com/shopora/go-shop-backend/internal/app/entity"
	"gopkg.in/gomail.v2"
)

type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers notification mail. Delivery failures are the caller's
// signal to warn, never to roll back committed state.
type Sender interface {
	Send(message Message) error
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(config config.Config) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword),
		from:   config.SMTPFrom,
	}
}

func (s *SMTPSender) Send(message Message) error {
	mail := gomail.NewMessage()
	mail.SetHeader("From", s.from)
	mail.SetHeader("To", message.To)
	mail.SetHeader("Subject", message.Subject)
	mail.SetBody("text/html", message.HTML)

	if err := s.dialer.DialAndSend(mail); err != nil {
		return fmt.Errorf("error while sending mail to %s: %w", message.To, err)
	}

	return nil
}

func ActivationMessage(name, email, activationURL string) Message {
	return Message{
		To:      email,
		Subject: "Activate your account",
		HTML: fmt.Sprintf(`Hello %s, please click the link to activate your account: <a href="%s">%s</a>`,
			name, activationURL, activationURL),
	}
}

func ResetPasswordMessage(name, email, resetURL string) Message {
	return Message{
		To:      email,
		Subject: "Reset your password",
		HTML: fmt.Sprintf(`Hello %s, follow this link to reset your password: <a href="%s">%s</a>`,
			name, resetURL, resetURL),
	}
}

func OrderConfirmationMessage(name, email string, orders entity.Orders) Message {
	var body strings.Builder

	fmt.Fprintf(&body, "<p>Hey %s, your order is confirmed. Delivery takes 2 to 3 days.</p>", name)
	for _, order := range orders {
		fmt.Fprintf(&body, "<h3>Order ID: %s</h3><ul>", order.ID)
		for _, line := range order.Cart {
			fmt.Fprintf(&body, "<li>%s ----> $%.2f x %d</li>", line.Name, line.DiscountPrice, line.Quantity)
		}
		fmt.Fprintf(&body, "</ul><p>Total Price: $%.2f</p>", order.TotalPrice)
	}

	return Message{
		To:      email,
		Subject: "Your order has been placed",
		HTML:    body.String(),
	}
}
