package models

import (
	"time"

	"github.com/google/uuid"
)

// Stage is a position in the sales pipeline.
type Stage string

const (
	StageNew          Stage = "New"
	StageContacted    Stage = "Contacted"
	StageBooked       Stage = "Booked"
	StageEstimateSent Stage = "Estimate Sent"
	StageClosedWon    Stage = "Closed Won"
	StageClosedLost   Stage = "Closed Lost"
)

// Stages lists every pipeline stage in display order.
var Stages = []Stage{
	StageNew,
	StageContacted,
	StageBooked,
	StageEstimateSent,
	StageClosedWon,
	StageClosedLost,
}

// ParseStage reports whether s names one of the pipeline stages exactly.
func ParseStage(s string) (Stage, bool) {
	for _, stage := range Stages {
		if string(stage) == s {
			return stage, true
		}
	}
	return "", false
}

type Lead struct {
	Base
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	FullName string  `gorm:"not null" json:"full_name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Address  *string `json:"address"`
	City     *string `json:"city"`
	State    *string `json:"state"`

	Stage               Stage   `gorm:"type:varchar(60);not null;index" json:"stage"`
	EstimatedValue      float64 `gorm:"not null" json:"estimated_value"`
	AppointmentDatetime *string `gorm:"type:varchar(60)" json:"appointment_datetime"` // free text, not parsed

	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Notes []Note `gorm:"foreignKey:LeadID" json:"notes,omitempty"`
}

func (Lead) TableName() string {
	return "leads"
}
