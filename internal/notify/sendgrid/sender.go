package sendgrid

import (
	"context"
	"fmt"

	sg "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	defaultHost  = "https://api.sendgrid.com"
	sendEndpoint = "/v3/mail/send"
)

// Sender delivers email through the SendGrid v3 mail API.
type Sender struct {
	apiKey string
	from   string
	host   string
}

// New creates a sender. An empty apiKey leaves the sender unconfigured.
func New(apiKey, from string) *Sender {
	return &Sender{apiKey: apiKey, from: from, host: defaultHost}
}

// WithHost points the sender at a different API host.
func (s *Sender) WithHost(host string) *Sender {
	s.host = host
	return s
}

func (s *Sender) Configured() bool {
	return s.apiKey != ""
}

func (s *Sender) SendEmail(ctx context.Context, to, subject, body string) (string, error) {
	message := mail.NewSingleEmail(
		mail.NewEmail("", s.from),
		subject,
		mail.NewEmail("", to),
		body,
		"",
	)

	request := sg.GetRequest(s.apiKey, sendEndpoint, s.host)
	request.Method = "POST"
	client := &sg.Client{Request: request}

	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		return "", fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("SendGrid status=%d body=%s", resp.StatusCode, resp.Body)
	}

	return fmt.Sprintf("SendGrid status=%d", resp.StatusCode), nil
}
