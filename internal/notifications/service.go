package notifications

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/hugh/contractor-connect/internal/database/models"
	"github.com/hugh/contractor-connect/internal/notify"
	"gorm.io/gorm"
)

var (
	ErrInvalidChannel = errors.New("channel must be email or sms")
	ErrMissingFields  = errors.New("to_value and message are required")
	ErrLeadNotFound   = errors.New("lead not found")
)

const (
	// DefaultListLimit caps the notification log listing.
	DefaultListLimit = 100

	providerSubject = "ContractorConnect Notification"
)

// SendInput is a manual notification request.
type SendInput struct {
	LeadID  *uuid.UUID
	Channel string
	To      string
	Subject string
	Message string
}

// Service sends notifications through the gateway and keeps the
// append-only log of every attempt.
type Service struct {
	db      *gorm.DB
	gateway notify.Dispatcher
	logger  *slog.Logger
}

func NewService(db *gorm.DB, gateway notify.Dispatcher, logger *slog.Logger) *Service {
	return &Service{db: db, gateway: gateway, logger: logger}
}

// Send validates a manual request, attempts delivery and records the outcome.
func (s *Service) Send(ctx context.Context, userID uuid.UUID, input SendInput) (*models.Notification, error) {
	channel := models.NotificationChannel(strings.ToLower(strings.TrimSpace(input.Channel)))
	if channel != models.ChannelEmail && channel != models.ChannelSMS {
		return nil, ErrInvalidChannel
	}

	msg := notify.Message{
		Channel: channel,
		To:      strings.TrimSpace(input.To),
		Subject: strings.TrimSpace(input.Subject),
		Body:    strings.TrimSpace(input.Message),
	}
	if msg.To == "" || msg.Body == "" {
		return nil, ErrMissingFields
	}

	if input.LeadID != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Lead{}).
			Where("id = ? AND user_id = ?", *input.LeadID, userID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrLeadNotFound
		}
	}

	return s.Deliver(ctx, userID, input.LeadID, msg)
}

// Deliver attempts msg and persists the result whatever the outcome. The
// stored subject is the caller's; the provider gets a default when empty.
// Once started, delivery and the audit row ignore request cancellation.
func (s *Service) Deliver(ctx context.Context, userID uuid.UUID, leadID *uuid.UUID, msg notify.Message) (*models.Notification, error) {
	ctx = context.WithoutCancel(ctx)

	var subject *string
	if msg.Subject != "" {
		sub := msg.Subject
		subject = &sub
	} else {
		msg.Subject = providerSubject
	}

	outcome := s.gateway.Send(ctx, msg)

	record := models.Notification{
		UserID:           userID,
		LeadID:           leadID,
		Channel:          msg.Channel,
		ToValue:          msg.To,
		Subject:          subject,
		Message:          msg.Body,
		Status:           outcome.Status,
		ProviderResponse: &outcome.ProviderResponse,
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

// List returns the most recent notifications for the user, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	var out []models.Notification
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
