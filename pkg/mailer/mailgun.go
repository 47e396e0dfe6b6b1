package mailer

import (
	"context"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

// Mailgun wraps the mailgun client with the configured sender identity.
type Mailgun struct {
	client *mailgun.MailgunImpl
	Sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{client: mailgun.NewMailgun(domain, apiKey), Sender: sender}
}

// Send delivers a rendered HTML email.
func (m *Mailgun) Send(ctx context.Context, to, subject, html string) error {
	msg := m.client.NewMessage(m.Sender, subject, "", to)
	msg.SetHtml(html)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := m.client.Send(ctx, msg)
	return err
}
