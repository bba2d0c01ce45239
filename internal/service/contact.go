package service

import (
	"context"
	"fmt"

	"github.com/hus-nain/portfolio-go/internal/mailer"
)

// ContactService validates and dispatches contact form submissions. No retry
// logic exists: a failed send surfaces immediately as a user-visible error.
type ContactService struct {
	mail mailer.Mailer
}

// NewContactService creates a ContactService. mail may be nil when outbound
// mail is not configured; Send then fails with ErrMailNotConfigured.
func NewContactService(mail mailer.Mailer) *ContactService {
	return &ContactService{mail: mail}
}

// ContactInput is one contact form submission.
type ContactInput struct {
	Name    string
	Email   string
	Message string
}

// Send validates the submission and dispatches it. Nothing is persisted.
func (s *ContactService) Send(ctx context.Context, input ContactInput) error {
	fields := fieldErrors{}
	fields.requireNonEmpty("name", input.Name, "Name is required")
	fields.requireNonEmpty("message", input.Message, "Message is required")
	if input.Email == "" {
		fields["email"] = "Email is required"
	} else if !IsValidEmail(input.Email) {
		fields["email"] = "Email must be a valid address"
	}
	if err := fields.toError(); err != nil {
		return err
	}

	if s.mail == nil {
		return ErrMailNotConfigured
	}

	if err := s.mail.SendContact(ctx, mailer.ContactMessage{
		Name:    input.Name,
		Email:   input.Email,
		Message: input.Message,
	}); err != nil {
		return fmt.Errorf("dispatching contact mail: %w", err)
	}
	return nil
}
