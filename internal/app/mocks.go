package app

import (
	"time"

	"smartattend_backend/internal/email"
	"smartattend_backend/internal/logger"
)

// MockEmailProvider is used for local development without an SMTP server.
type MockEmailProvider struct{}

func (m *MockEmailProvider) Send(msg *email.Message) error {
	logger.Info("[MOCK EMAIL] message suppressed", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (m *MockEmailProvider) SendPasswordResetCode(to, code string, validity time.Duration) error {
	logger.Info("[MOCK EMAIL] password reset code", "to", to, "code", code, "valid_for", validity)
	return nil
}
