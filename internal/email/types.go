package email

// Message is one outbound email.
type Message struct {
	To       []string
	Subject  string
	Body     string // plain-text alternative
	HTMLBody string
}

// ResetCodeData feeds the password-reset template.
type ResetCodeData struct {
	Code          string
	ValidityLabel string // e.g. "10 minutes"
}
