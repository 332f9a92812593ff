// internal/notification/email.go
// Outbound email for account flows (currently password reset links)

package notification

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Email is a single outbound message
type Email struct {
	To      string
	Subject string
	Body    string // plain text
	HTML    string // optional HTML alternative
}

// Mailer sends emails
type Mailer interface {
	Send(ctx context.Context, email *Email) error
}

// SendGridMailer sends email through the SendGrid API
type SendGridMailer struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

// NewSendGridMailer creates a SendGrid-backed mailer
func NewSendGridMailer(apiKey, from, fromName string) (*SendGridMailer, error) {
	if apiKey == "" || from == "" {
		return nil, fmt.Errorf("incomplete SendGrid configuration")
	}

	return &SendGridMailer{
		client:   sendgrid.NewSendClient(apiKey),
		from:     from,
		fromName: fromName,
	}, nil
}

// Send sends a single email via SendGrid
func (s *SendGridMailer) Send(ctx context.Context, email *Email) error {
	from := mail.NewEmail(s.fromName, s.from)
	to := mail.NewEmail("", email.To)
	message := mail.NewSingleEmail(from, email.Subject, to, email.Body, email.HTML)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		log.Printf("Failed to send email to %s: %v", email.To, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("SendGrid rejected email to %s: status %d", email.To, resp.StatusCode)
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}

	log.Printf("Successfully sent email to %s", email.To)
	return nil
}

// MockMailer records emails instead of sending them
type MockMailer struct {
	Sent []*Email
}

// NewMockMailer creates a mailer for development and tests
func NewMockMailer() *MockMailer {
	return &MockMailer{Sent: make([]*Email, 0)}
}

// Send records the email
func (m *MockMailer) Send(ctx context.Context, email *Email) error {
	m.Sent = append(m.Sent, email)
	log.Printf("Mock: sending email to %s: %s", email.To, email.Subject)
	return nil
}

// PasswordResetEmail builds the password reset message around a
// platform-generated reset link
func PasswordResetEmail(to, resetLink string) *Email {
	body := fmt.Sprintf(
		"We received a request to reset your password.\n\n"+
			"Open this link to choose a new one:\n%s\n\n"+
			"If you did not request a reset, you can ignore this email.",
		resetLink,
	)
	html := fmt.Sprintf(
		`<p>We received a request to reset your password.</p>`+
			`<p><a href="%s">Choose a new password</a></p>`+
			`<p>If you did not request a reset, you can ignore this email.</p>`,
		resetLink,
	)

	return &Email{
		To:      to,
		Subject: "Reset your password",
		Body:    body,
		HTML:    html,
	}
}
