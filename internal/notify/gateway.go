package notify

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hugh/contractor-connect/internal/database/models"
)

const (
	emailNotConfigured = "Email provider not configured or invalid recipient; logged only."
	smsNotConfigured   = "SMS provider not configured (Twilio env vars missing); logged only."
	unknownChannel     = "Unknown channel; must be 'email' or 'sms'."

	defaultSubject = "Notification"
)

// Message is one outbound notification attempt.
type Message struct {
	Channel models.NotificationChannel
	To      string
	Subject string
	Body    string
}

// Outcome is the normalized result of a send attempt.
type Outcome struct {
	Status           models.NotificationStatus
	ProviderResponse string
}

// Gateway routes messages to the configured email and SMS providers. An
// unconfigured provider is a normal condition and yields a logged outcome.
type Gateway struct {
	email  EmailSender
	sms    SMSSender
	logger *slog.Logger
}

func NewGateway(email EmailSender, sms SMSSender, logger *slog.Logger) *Gateway {
	if email == nil {
		email = NopEmailSender{}
	}
	if sms == nil {
		sms = NopSMSSender{}
	}
	return &Gateway{email: email, sms: sms, logger: logger}
}

// Send never returns an error: provider failures become a failed outcome.
func (g *Gateway) Send(ctx context.Context, msg Message) Outcome {
	var out Outcome

	switch models.NotificationChannel(strings.ToLower(strings.TrimSpace(string(msg.Channel)))) {
	case models.ChannelEmail:
		out = g.sendEmail(ctx, msg)
	case models.ChannelSMS:
		out = g.sendSMS(ctx, msg)
	default:
		out = Outcome{Status: models.NotificationFailed, ProviderResponse: unknownChannel}
	}

	g.logger.Info("notification dispatched",
		"channel", msg.Channel,
		"status", out.Status,
	)

	return out
}

func (g *Gateway) sendEmail(ctx context.Context, msg Message) Outcome {
	if !g.email.Configured() || msg.To == "" || !strings.Contains(msg.To, "@") {
		return Outcome{Status: models.NotificationLogged, ProviderResponse: emailNotConfigured}
	}

	subject := msg.Subject
	if subject == "" {
		subject = defaultSubject
	}

	resp, err := g.email.SendEmail(ctx, msg.To, subject, msg.Body)
	if err != nil {
		g.logger.Warn("email provider failed", "error", err)
		return Outcome{Status: models.NotificationFailed, ProviderResponse: err.Error()}
	}
	return Outcome{Status: models.NotificationSent, ProviderResponse: resp}
}

func (g *Gateway) sendSMS(ctx context.Context, msg Message) Outcome {
	if !g.sms.Configured() {
		return Outcome{Status: models.NotificationLogged, ProviderResponse: smsNotConfigured}
	}

	resp, err := g.sms.SendSMS(ctx, msg.To, msg.Body)
	if err != nil {
		g.logger.Warn("sms provider failed", "error", err)
		return Outcome{Status: models.NotificationFailed, ProviderResponse: err.Error()}
	}
	return Outcome{Status: models.NotificationSent, ProviderResponse: resp}
}
