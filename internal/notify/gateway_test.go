package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/hugh/contractor-connect/internal/database/models"
	"github.com/stretchr/testify/assert"
)

type fakeEmail struct {
	configured bool
	err        error
	calls      int
	subject    string
}

func (f *fakeEmail) Configured() bool { return f.configured }

func (f *fakeEmail) SendEmail(_ context.Context, to, subject, body string) (string, error) {
	f.calls++
	f.subject = subject
	if f.err != nil {
		return "", f.err
	}
	return "SendGrid status=202", nil
}

type fakeSMS struct {
	configured bool
	err        error
	calls      int
}

func (f *fakeSMS) Configured() bool { return f.configured }

func (f *fakeSMS) SendSMS(_ context.Context, to, body string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "Twilio sid=SM123", nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGateway_Unconfigured(t *testing.T) {
	g := NewGateway(nil, nil, discardLogger())
	ctx := context.Background()

	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{"email", Message{Channel: models.ChannelEmail, To: "a@b.com", Body: "hi"}, emailNotConfigured},
		{"sms", Message{Channel: models.ChannelSMS, To: "+15550100", Body: "hi"}, smsNotConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := g.Send(ctx, tt.msg)
			assert.Equal(t, models.NotificationLogged, out.Status)
			assert.Equal(t, tt.want, out.ProviderResponse)
		})
	}
}

func TestGateway_EmailLoggedTextIsProviderNeutral(t *testing.T) {
	g := NewGateway(&fakeEmail{configured: false}, nil, discardLogger())

	out := g.Send(context.Background(), Message{Channel: models.ChannelEmail, To: "a@b.com", Body: "hi"})
	assert.Equal(t, models.NotificationLogged, out.Status)
	assert.Equal(t, "Email provider not configured or invalid recipient; logged only.", out.ProviderResponse)
	assert.NotContains(t, out.ProviderResponse, "SENDGRID")
}

func TestGateway_Email(t *testing.T) {
	ctx := context.Background()

	t.Run("sends when configured", func(t *testing.T) {
		email := &fakeEmail{configured: true}
		out := NewGateway(email, nil, discardLogger()).Send(ctx, Message{Channel: models.ChannelEmail, To: "a@b.com", Body: "hi"})

		assert.Equal(t, models.NotificationSent, out.Status)
		assert.Equal(t, "SendGrid status=202", out.ProviderResponse)
		assert.Equal(t, 1, email.calls)
		assert.Equal(t, defaultSubject, email.subject)
	})

	t.Run("recipient without @ is logged without contacting provider", func(t *testing.T) {
		email := &fakeEmail{configured: true}
		out := NewGateway(email, nil, discardLogger()).Send(ctx, Message{Channel: models.ChannelEmail, To: "not-an-email", Body: "hi"})

		assert.Equal(t, models.NotificationLogged, out.Status)
		assert.Equal(t, 0, email.calls)
	})

	t.Run("provider error becomes failed", func(t *testing.T) {
		email := &fakeEmail{configured: true, err: errors.New("connection reset")}
		out := NewGateway(email, nil, discardLogger()).Send(ctx, Message{Channel: models.ChannelEmail, To: "a@b.com", Subject: "Hey", Body: "hi"})

		assert.Equal(t, models.NotificationFailed, out.Status)
		assert.Equal(t, "connection reset", out.ProviderResponse)
		assert.Equal(t, "Hey", email.subject)
	})
}

func TestGateway_SMS(t *testing.T) {
	ctx := context.Background()

	sms := &fakeSMS{configured: true}
	out := NewGateway(nil, sms, discardLogger()).Send(ctx, Message{Channel: "SMS ", To: "+15550100", Body: "hi"})
	assert.Equal(t, models.NotificationSent, out.Status)
	assert.Equal(t, "Twilio sid=SM123", out.ProviderResponse)

	failing := &fakeSMS{configured: true, err: errors.New("21211 invalid number")}
	out = NewGateway(nil, failing, discardLogger()).Send(ctx, Message{Channel: models.ChannelSMS, To: "x", Body: "hi"})
	assert.Equal(t, models.NotificationFailed, out.Status)
}

func TestGateway_UnknownChannel(t *testing.T) {
	email := &fakeEmail{configured: true}
	sms := &fakeSMS{configured: true}
	out := NewGateway(email, sms, discardLogger()).Send(context.Background(), Message{Channel: "pigeon", To: "a@b.com"})

	assert.Equal(t, models.NotificationFailed, out.Status)
	assert.Equal(t, unknownChannel, out.ProviderResponse)
	assert.Zero(t, email.calls+sms.calls)
}
