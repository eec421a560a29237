package models

import "github.com/google/uuid"

type Note struct {
	Base
	LeadID   uuid.UUID `gorm:"type:uuid;not null;index" json:"lead_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	NoteText string    `gorm:"type:text;not null" json:"note_text"`
}

func (Note) TableName() string {
	return "notes"
}
