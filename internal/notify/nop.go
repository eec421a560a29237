package notify

import (
	"context"
	"errors"
)

var errNotConfigured = errors.New("provider not configured")

// NopEmailSender stands in when no email provider is configured.
type NopEmailSender struct{}

func (NopEmailSender) Configured() bool { return false }

func (NopEmailSender) SendEmail(context.Context, string, string, string) (string, error) {
	return "", errNotConfigured
}

// NopSMSSender stands in when no SMS provider is configured.
type NopSMSSender struct{}

func (NopSMSSender) Configured() bool { return false }

func (NopSMSSender) SendSMS(context.Context, string, string) (string, error) {
	return "", errNotConfigured
}
