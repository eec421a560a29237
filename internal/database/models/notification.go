package models

import "github.com/google/uuid"

type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "email"
	ChannelSMS   NotificationChannel = "sms"
)

type NotificationStatus string

const (
	NotificationLogged NotificationStatus = "logged"
	NotificationSent   NotificationStatus = "sent"
	NotificationFailed NotificationStatus = "failed"
)

// Notification is an append-only record of an outbound contact attempt.
type Notification struct {
	Base
	UserID uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	LeadID *uuid.UUID `gorm:"type:uuid;index" json:"lead_id"`

	Channel          NotificationChannel `gorm:"type:varchar(20);not null" json:"channel"`
	ToValue          string              `gorm:"not null" json:"to_value"`
	Subject          *string             `json:"subject"`
	Message          string              `gorm:"type:text;not null" json:"message"`
	Status           NotificationStatus  `gorm:"type:varchar(30);not null" json:"status"`
	ProviderResponse *string             `gorm:"type:text" json:"provider_response"`
}

func (Notification) TableName() string {
	return "notifications"
}
