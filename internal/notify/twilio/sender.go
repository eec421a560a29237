package twilio

import (
	"context"
	"fmt"
	"net/http"

	tw "github.com/twilio/twilio-go"
	"github.com/twilio/twilio-go/client"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

// Sender delivers SMS through the Twilio Messages API.
type Sender struct {
	accountSID string
	authToken  string
	from       string
	httpClient *http.Client
}

func New(accountSID, authToken, from string) *Sender {
	return &Sender{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		httpClient: http.DefaultClient,
	}
}

// WithHTTPClient overrides the transport used to reach Twilio.
func (s *Sender) WithHTTPClient(c *http.Client) *Sender {
	s.httpClient = c
	return s
}

// Configured requires all three Twilio settings.
func (s *Sender) Configured() bool {
	return s.accountSID != "" && s.authToken != "" && s.from != ""
}

// SendSMS ignores ctx: the Twilio client has no per-request context.
func (s *Sender) SendSMS(_ context.Context, to, body string) (string, error) {
	base := &client.Client{
		Credentials: client.NewCredentials(s.accountSID, s.authToken),
		HTTPClient:  s.httpClient,
	}
	base.SetAccountSid(s.accountSID)
	rc := tw.NewRestClientWithParams(tw.ClientParams{Client: base})

	params := &api.CreateMessageParams{}
	params.SetPathAccountSid(s.accountSID)
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	msg, err := rc.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio: %w", err)
	}

	sid := ""
	if msg.Sid != nil {
		sid = *msg.Sid
	}
	return "Twilio sid=" + sid, nil
}
