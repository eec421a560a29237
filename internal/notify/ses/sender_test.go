package ses

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSender_SendEmail(t *testing.T) {
	var got struct {
		FromEmailAddress string
		Destination      struct{ ToAddresses []string }
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/email/outbound-emails", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"MessageId":"0100-abc"}`))
	}))
	defer server.Close()

	sender, err := New(context.Background(), Options{
		Region:          "us-east-1",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		From:            "crm@example.com",
		Endpoint:        server.URL,
	})
	require.NoError(t, err)
	assert.True(t, sender.Configured())

	resp, err := sender.SendEmail(context.Background(), "lead@example.com", "Appointment booked", "Hi")
	require.NoError(t, err)

	assert.Equal(t, "SES message_id=0100-abc", resp)
	assert.Equal(t, "crm@example.com", got.FromEmailAddress)
	assert.Equal(t, []string{"lead@example.com"}, got.Destination.ToAddresses)
}

func TestSender_SendEmail_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Amzn-ErrorType", "MessageRejected")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Email address is not verified."}`))
	}))
	defer server.Close()

	sender, err := New(context.Background(), Options{
		Region:          "us-east-1",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		From:            "crm@example.com",
		Endpoint:        server.URL,
	})
	require.NoError(t, err)

	_, err = sender.SendEmail(context.Background(), "lead@example.com", "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ses:")
}
