package notify

import "github.com/shopora/go-shop-backend/internal/app/entity"

// Mailer is the account-facing surface over a Sender used by the HTTP
// controllers.
type Mailer struct {
	sender Sender
}

func NewMailer(sender Sender) *Mailer {
	return &Mailer{sender: sender}
}

func (m *Mailer) SendActivation(name, email, activationURL string) error {
	return m.sender.Send(ActivationMessage(name, email, activationURL))
}

func (m *Mailer) SendPasswordReset(name, email, resetURL string) error {
	return m.sender.Send(ResetPasswordMessage(name, email, resetURL))
}

func (m *Mailer) SendOrderConfirmation(name, email string, orders entity.Orders) error {
	return m.sender.Send(OrderConfirmationMessage(name, email, orders))
}
