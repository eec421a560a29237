package notify

import "context"

// EmailSender delivers a plain-text email through a provider.
type EmailSender interface {
	// Configured reports whether the provider credentials are present.
	Configured() bool
	SendEmail(ctx context.Context, to, subject, body string) (string, error)
}

// SMSSender delivers a text message through a provider.
type SMSSender interface {
	Configured() bool
	SendSMS(ctx context.Context, to, body string) (string, error)
}

// Dispatcher is what callers use to attempt a notification.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) Outcome
}

// Compile-time interface satisfaction checks
var (
	_ EmailSender = NopEmailSender{}
	_ SMSSender   = NopSMSSender{}
	_ Dispatcher  = (*Gateway)(nil)
)
