package dto

import (
	"github.com/google/uuid"
	"github.com/hugh/contractor-connect/internal/database/models"
	"github.com/hugh/contractor-connect/internal/notifications"
)

type SendNotificationRequest struct {
	Channel string     `json:"channel"`
	ToValue string     `json:"to_value"`
	Subject string     `json:"subject"`
	Message string     `json:"message"`
	LeadID  *uuid.UUID `json:"lead_id"`
}

func (r SendNotificationRequest) ToInput() notifications.SendInput {
	return notifications.SendInput{
		LeadID:  r.LeadID,
		Channel: r.Channel,
		To:      r.ToValue,
		Subject: r.Subject,
		Message: r.Message,
	}
}

type NotificationResponse struct {
	ID               string  `json:"id"`
	LeadID           *string `json:"lead_id"`
	Channel          string  `json:"channel"`
	ToValue          string  `json:"to_value"`
	Subject          *string `json:"subject"`
	Message          string  `json:"message"`
	Status           string  `json:"status"`
	ProviderResponse *string `json:"provider_response"`
	CreatedAt        string  `json:"created_at"`
}

func NewNotificationResponse(n *models.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:               n.ID.String(),
		Channel:          string(n.Channel),
		ToValue:          n.ToValue,
		Subject:          n.Subject,
		Message:          n.Message,
		Status:           string(n.Status),
		ProviderResponse: n.ProviderResponse,
		CreatedAt:        formatTime(n.CreatedAt),
	}
	if n.LeadID != nil {
		s := n.LeadID.String()
		resp.LeadID = &s
	}
	return resp
}

func NewNotificationResponses(list []models.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(list))
	for i := range list {
		out = append(out, NewNotificationResponse(&list[i]))
	}
	return out
}
