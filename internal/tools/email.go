package tools

import (
	"context"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/wneessen/go-mail"
)

// EmailMessage is one outbound email. Sender, recipient and subject are
// mandatory; attachments are file paths.
type EmailMessage struct {
	Sender      string
	Recipient   string
	Subject     string
	Body        string
	Attachments []string
}

// SMTPSender sends email over SMTP. Bodies are plain text; any HTML that
// leaked in from the extraction backend or the user is stripped before
// sending.
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string

	sanitizer *bluemonday.Policy
}

func NewSMTPSender(host string, port int, username, password string) *SMTPSender {
	return &SMTPSender{
		Host:      host,
		Port:      port,
		Username:  username,
		Password:  password,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Send validates and dispatches one message.
func (s *SMTPSender) Send(ctx context.Context, em EmailMessage) error {
	if em.Sender == "" || em.Recipient == "" || em.Subject == "" {
		return fmt.Errorf("sender, recipient and subject are required")
	}

	msg := mail.NewMsg()
	if err := msg.From(em.Sender); err != nil {
		return fmt.Errorf("invalid sender: %w", err)
	}
	if err := msg.To(em.Recipient); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(em.Subject)
	msg.SetBodyString(mail.TypeTextPlain, s.sanitizer.Sanitize(em.Body))

	for _, path := range em.Attachments {
		msg.AttachFile(path)
	}

	client, err := mail.NewClient(s.Host,
		mail.WithPort(s.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.Username),
		mail.WithPassword(s.Password),
	)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("error sending message: %w", err)
	}
	return nil
}
