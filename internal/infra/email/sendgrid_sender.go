// internal/infra/email/sendgrid_sender.go
package email

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridSender implements the notify.EmailSender interface using the
// SendGrid v3 mail send API.
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
}

func NewSendGridSender(apiKey, fromEmail string) *SendGridSender {
	return &SendGridSender{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
	}
}

// Send delivers one HTML email. A non-2xx API response is reported as an
// error so callers see transport and rejection failures the same way.
func (s *SendGridSender) Send(toEmail, subject, htmlBody string) error {
	from := mail.NewEmail("", s.fromEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	resp, err := s.client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
