package email

import "time"

// Provider defines the interface for sending email.
type Provider interface {
	// Send dispatches a prepared message
	Send(msg *Message) error

	// SendPasswordResetCode sends the one-time reset code to the address
	SendPasswordResetCode(to, code string, validity time.Duration) error
}
