package leads

import (
	"fmt"
	"strings"

	"github.com/hugh/contractor-connect/internal/database/models"
	"github.com/hugh/contractor-connect/internal/notify"
)

const noRecipient = "no-recipient@example.com"

// BookedMessage picks the channel and recipient for a lead that just moved
// to Booked: email if it looks like an address, else SMS to the phone, else
// a placeholder email that will only be logged.
func BookedMessage(lead *models.Lead) notify.Message {
	if lead.Email != nil && *lead.Email != "" && strings.Contains(*lead.Email, "@") {
		return notify.Message{
			Channel: models.ChannelEmail,
			To:      *lead.Email,
			Subject: "Appointment booked",
			Body:    fmt.Sprintf("Hi %s, your appointment has been booked. We'll follow up soon.", lead.FullName),
		}
	}

	if lead.Phone != nil && *lead.Phone != "" {
		return notify.Message{
			Channel: models.ChannelSMS,
			To:      *lead.Phone,
			Body:    fmt.Sprintf("%s, your appointment is booked. Reply if you need to reschedule.", lead.FullName),
		}
	}

	return notify.Message{
		Channel: models.ChannelEmail,
		To:      noRecipient,
		Subject: "Appointment booked (logged)",
		Body:    fmt.Sprintf("Lead %s moved to Booked; no email/phone on file. Logged only.", lead.FullName),
	}
}
