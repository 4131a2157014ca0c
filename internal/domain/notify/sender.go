package notify

// Recipient is one person derived from a record's joined contact data.
// Either contact field may be empty; an empty field means that channel is
// skipped for this recipient.
type Recipient struct {
	Name  string
	Email string
	Phone string
}

// HasContact reports whether the recipient is reachable on any channel.
func (r Recipient) HasContact() bool {
	return r.Email != "" || r.Phone != ""
}

// EmailSender delivers a single HTML email. Implementations must report
// transport failures through the returned error, never by panicking.
type EmailSender interface {
	Send(toEmail, subject, htmlBody string) error
}

// WhatsAppSender delivers a single templated WhatsApp message. Same failure
// contract as EmailSender.
type WhatsAppSender interface {
	Send(toPhone, templateName string, params map[string]string) error
}
