package app

import "github.com/sirupsen/logrus"

// MockEmailSender logs what would have been sent instead of calling
// SendGrid. Used when MOCK_MODE is enabled.
type MockEmailSender struct {
	logger *logrus.Logger
}

func NewMockEmailSender(logger *logrus.Logger) *MockEmailSender {
	return &MockEmailSender{logger: logger}
}

func (m *MockEmailSender) Send(toEmail, subject, htmlBody string) error {
	m.logger.WithFields(logrus.Fields{
		"to":      toEmail,
		"subject": subject,
		"bytes":   len(htmlBody),
	}).Info("MOCK: email sent")
	return nil
}

// MockWhatsAppSender logs instead of calling AiSensy.
type MockWhatsAppSender struct {
	logger *logrus.Logger
}

func NewMockWhatsAppSender(logger *logrus.Logger) *MockWhatsAppSender {
	return &MockWhatsAppSender{logger: logger}
}

func (m *MockWhatsAppSender) Send(toPhone, templateName string, params map[string]string) error {
	m.logger.WithFields(logrus.Fields{
		"to":       toPhone,
		"template": templateName,
		"params":   params,
	}).Info("MOCK: WhatsApp message sent")
	return nil
}
