package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/caramelohq/grooming-platform/pkg/logging"
)

// DefaultFromName is used when no sender name is configured.
const DefaultFromName = "Agenda Pet"

// Sender delivers transactional email. Implementations exist for SES and
// SendGrid; the stub is used when neither is configured.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is one outbound email.
type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

// From identifies the sending address, shared by every transport.
type From struct {
	Email string
	Name  string
}

func (f From) displayName() string {
	if f.Name == "" {
		return DefaultFromName
	}
	return f.Name
}

// SendGridSender delivers mail through the SendGrid API.
type SendGridSender struct {
	client *sendgrid.Client
	from   From
	logger *logging.Logger
}

// NewSendGridSender returns nil when no API key is configured, so callers
// can fall through to the next transport.
func NewSendGridSender(apiKey string, from From, logger *logging.Logger) *SendGridSender {
	if apiKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   from,
		logger: logger,
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	if s.client == nil {
		return fmt.Errorf("notify: sendgrid not configured")
	}

	html := msg.HTML
	if html == "" {
		html = msg.Text
	}
	email := mail.NewSingleEmail(
		mail.NewEmail(s.from.displayName(), s.from.Email),
		msg.Subject,
		mail.NewEmail(msg.ToName, msg.To),
		msg.Text,
		html,
	)

	resp, err := s.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("notify: sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		s.logger.Error("sendgrid rejected message", "status", resp.StatusCode, "to", msg.To)
		return fmt.Errorf("notify: sendgrid status %d", resp.StatusCode)
	}

	s.logger.Debug("email sent", "transport", "sendgrid", "to", msg.To, "subject", msg.Subject)
	return nil
}

// StubSender logs instead of sending. Used in development and tests.
type StubSender struct {
	logger *logging.Logger
}

func NewStubSender(logger *logging.Logger) *StubSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubSender{logger: logger}
}

func (s *StubSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("email suppressed, no transport configured", "to", msg.To, "subject", msg.Subject)
	return nil
}

var (
	_ Sender = (*SendGridSender)(nil)
	_ Sender = (*StubSender)(nil)
)
