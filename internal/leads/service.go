package leads

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

// Notifier delivers and records a notification about a lead.
type Notifier interface {
	Deliver(ctx context.Context, userID uuid.UUID, leadID *uuid.UUID, msg notify.Message) (*models.Notification, error)
}

// Service handles lead CRUD and pipeline stage transitions. Every lead
// query is scoped by the owning user.
type Service struct {
	db       *gorm.DB
	notifier Notifier
	logger   *slog.Logger
}

func NewService(db *gorm.DB, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		db:       db,
		notifier: notifier,
		logger:   logger,
	}
}

// List returns the user's leads newest first, optionally limited to one stage.
func (s *Service) List(ctx context.Context, userID uuid.UUID, stage string) ([]models.Lead, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if stage != "" {
		query = query.Where("stage = ?", stage)
	}

	var leads []models.Lead
	if err := query.Order("created_at DESC").Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, input Input) (*models.Lead, error) {
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, ErrFullNameRequired
	}
	if err := checkValue(input.EstimatedValue); err != nil {
		return nil, err
	}

	stage, ok := models.ParseStage(input.Stage)
	if !ok {
		stage = models.StageNew
	}

	lead := models.Lead{
		UserID:              userID,
		FullName:            fullName,
		Phone:               optional(input.Phone),
		Email:               optional(input.Email),
		Address:             optional(input.Address),
		City:                optional(input.City),
		State:               optional(input.State),
		Stage:               stage,
		EstimatedValue:      input.EstimatedValue,
		AppointmentDatetime: optional(input.AppointmentDatetime),
	}

	if err := s.db.WithContext(ctx).Create(&lead).Error; err != nil {
		return nil, err
	}

	s.logger.Debug("lead created", "lead_id", lead.ID, "stage", lead.Stage)
	return &lead, nil
}

// Get loads an owned lead with its notes, newest first.
func (s *Service) Get(ctx context.Context, userID, leadID uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	err := s.db.WithContext(ctx).
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Where("user_id = ?", userID).Order("created_at DESC")
		}).
		Where("id = ? AND user_id = ?", leadID, userID).
		First(&lead).Error
	if err != nil {
		return nil, notFound(err)
	}
	if lead.Notes == nil {
		lead.Notes = []models.Note{}
	}
	return &lead, nil
}

// Update applies a partial update. Moving a lead into Booked triggers a
// notification after the update commits; a failed notification is logged
// and never undoes the update.
func (s *Service) Update(ctx context.Context, userID, leadID uuid.UUID, patch Patch) (*models.Lead, error) {
	var (
		lead   models.Lead
		before models.Stage
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findOwned(tx, userID, leadID, &lead); err != nil {
			return err
		}
		before = lead.Stage

		if err := patch.Apply(&lead); err != nil {
			return err
		}
		return tx.Save(&lead).Error
	})
	if err != nil {
		return nil, err
	}

	if before != models.StageBooked && lead.Stage == models.StageBooked {
		s.notifyBooked(ctx, &lead)
	}

	return &lead, nil
}

// notifyBooked runs to completion even if the request is cancelled, so the
// committed transition always gets its notification row.
func (s *Service) notifyBooked(ctx context.Context, lead *models.Lead) {
	ctx = context.WithoutCancel(ctx)

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("booked notification panicked", "lead_id", lead.ID, "panic", r)
		}
	}()

	leadID := lead.ID
	n, err := s.notifier.Deliver(ctx, lead.UserID, &leadID, BookedMessage(lead))
	if err != nil {
		s.logger.Error("failed to record booked notification", "lead_id", lead.ID, "error", err)
		return
	}

	s.logger.Info("booked notification recorded",
		"lead_id", lead.ID,
		"channel", n.Channel,
		"status", n.Status,
	)
}

// Delete removes a lead together with its notes and notifications.
func (s *Service) Delete(ctx context.Context, userID, leadID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lead models.Lead
		if err := findOwned(tx, userID, leadID, &lead); err != nil {
			return err
		}

		if err := tx.Where("lead_id = ? AND user_id = ?", leadID, userID).Delete(&models.Note{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lead_id = ? AND user_id = ?", leadID, userID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&lead).Error
	})
}

func (s *Service) AddNote(ctx context.Context, userID, leadID uuid.UUID, text string) (*models.Note, error) {
	var note models.Note

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lead models.Lead
		if err := findOwned(tx, userID, leadID, &lead); err != nil {
			return err
		}

		text = strings.TrimSpace(text)
		if text == "" {
			return ErrNoteTextRequired
		}

		note = models.Note{
			LeadID:   lead.ID,
			UserID:   userID,
			NoteText: text,
		}
		return tx.Create(&note).Error
	})
	if err != nil {
		return nil, err
	}

	return &note, nil
}

func findOwned(tx *gorm.DB, userID, leadID uuid.UUID, lead *models.Lead) error {
	err := tx.Where("id = ? AND user_id = ?", leadID, userID).First(lead).Error
	return notFound(err)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrLeadNotFound
	}
	return err
}
