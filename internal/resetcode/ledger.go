// Package resetcode holds the in-memory ledger of one-time password
// reset codes. The ledger is process-wide state: a restart invalidates
// every outstanding code, and a multi-instance deployment would need to
// move it into a shared TTL store. Single-instance only.
package resetcode

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"
)

const (
	// DefaultTTL is the validity window of an issued code.
	DefaultTTL = 10 * time.Minute

	codeSpace = 1000000 // 6 decimal digits, leading zeros permitted
)

var (
	ErrCodeInvalid = errors.New("invalid or unknown reset code")
	ErrCodeExpired = errors.New("reset code expired")
)

// Ticket is one outstanding reset code for an email address.
type Ticket struct {
	Code      string
	ExpiresAt time.Time
}

// Ledger maps email -> outstanding ticket. At most one ticket per email:
// a later Issue overwrites the earlier one (last writer wins).
type Ledger struct {
	mu      sync.Mutex
	tickets map[string]Ticket
	ttl     time.Duration
	now     func() time.Time
}

func NewLedger(ttl time.Duration) *Ledger {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Ledger{
		tickets: make(map[string]Ticket),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Issue generates a uniformly random 6-digit code for the email,
// stores it with the configured expiry and returns it. Any previous
// ticket for the same email is overwritten.
func (l *Ledger) Issue(email string) (string, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpace))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate reset code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	l.mu.Lock()
	defer l.mu.Unlock()

	expires := l.now().Add(l.ttl)
	l.tickets[email] = Ticket{Code: code, ExpiresAt: expires}

	return code, expires, nil
}

// Consume validates the code for the email and removes the ticket.
// A missing ticket or a mismatched code returns ErrCodeInvalid without
// touching the ticket. An expired ticket returns ErrCodeExpired and is
// deleted, so a retry with the same code then fails with ErrCodeInvalid.
// On success the ticket is deleted before the caller persists anything:
// a code is accepted exactly once.
func (l *Ledger) Consume(email, code string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ticket, ok := l.tickets[email]
	if !ok || ticket.Code != code {
		return ErrCodeInvalid
	}

	if l.now().After(ticket.ExpiresAt) {
		delete(l.tickets, email)
		return ErrCodeExpired
	}

	delete(l.tickets, email)
	return nil
}

// Len reports the number of outstanding tickets.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tickets)
}
