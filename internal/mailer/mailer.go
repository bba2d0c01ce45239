// Package mailer delivers contact form submissions through the configured
// SMTP provider. Nothing is persisted; a failed send surfaces immediately.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// ContactMessage is one contact form submission.
type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

// Mailer sends contact messages to the site owner.
type Mailer interface {
	SendContact(ctx context.Context, msg ContactMessage) error
}

// SMTPMailer implements Mailer over SMTP with PLAIN auth.
type SMTPMailer struct {
	client    *mail.Client
	from      string
	recipient string
}

// SMTPConfig holds the settings needed to reach the mail provider.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Recipient string
}

// NewSMTP creates an SMTP-backed mailer.
func NewSMTP(cfg SMTPConfig) (*SMTPMailer, error) {
	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("configuring smtp client: %w", err)
	}

	from := cfg.Username
	if from == "" {
		from = cfg.Recipient
	}

	return &SMTPMailer{client: client, from: from, recipient: cfg.Recipient}, nil
}

// SendContact sends the submission to the configured recipient. The visitor's
// address goes in Reply-To so the owner can answer directly.
func (m *SMTPMailer) SendContact(ctx context.Context, msg ContactMessage) error {
	mm, err := BuildContactMessage(m.from, m.recipient, msg)
	if err != nil {
		return err
	}

	if err := m.client.DialAndSendWithContext(ctx, mm); err != nil {
		return fmt.Errorf("sending contact mail: %w", err)
	}
	return nil
}

// BuildContactMessage assembles the outbound mail for a submission.
func BuildContactMessage(from, recipient string, msg ContactMessage) (*mail.Msg, error) {
	mm := mail.NewMsg()
	if err := mm.From(from); err != nil {
		return nil, fmt.Errorf("setting sender: %w", err)
	}
	if err := mm.To(recipient); err != nil {
		return nil, fmt.Errorf("setting recipient: %w", err)
	}
	if err := mm.ReplyTo(msg.Email); err != nil {
		return nil, fmt.Errorf("setting reply-to: %w", err)
	}

	mm.Subject(fmt.Sprintf("Portfolio contact from %s", msg.Name))
	mm.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Name: %s\nEmail: %s\n\nMessage:\n%s\n", msg.Name, msg.Email, msg.Message))

	return mm, nil
}
