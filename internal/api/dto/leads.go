package dto

import (
	"encoding/json"

	"github.com/hugh/contractor-connect/internal/api/validation"
	"github.com/hugh/contractor-connect/internal/dashboard"
	"github.com/hugh/contractor-connect/internal/database/models"
	"github.com/hugh/contractor-connect/internal/leads"
)

// CreateLeadRequest accepts estimated_value as a number or a numeric string.
// A stage of any other JSON type is treated as unrecognized.
type CreateLeadRequest struct {
	FullName            string          `json:"full_name"`
	Phone               string          `json:"phone"`
	Email               string          `json:"email"`
	Address             string          `json:"address"`
	City                string          `json:"city"`
	State               string          `json:"state"`
	Stage               json.RawMessage `json:"stage"`
	EstimatedValue      json.RawMessage `json:"estimated_value"`
	AppointmentDatetime string          `json:"appointment_datetime"`
}

func (r CreateLeadRequest) ToInput() (leads.Input, error) {
	value, err := leads.ParseEstimatedValue(r.EstimatedValue)
	if err != nil {
		return leads.Input{}, err
	}

	return leads.Input{
		FullName:            r.FullName,
		Phone:               r.Phone,
		Email:               r.Email,
		Address:             r.Address,
		City:                r.City,
		State:               r.State,
		Stage:               stageName(r.Stage),
		EstimatedValue:      value,
		AppointmentDatetime: r.AppointmentDatetime,
	}, nil
}

// UpdateLeadRequest distinguishes absent fields from present ones so only
// the supplied subset is changed.
type UpdateLeadRequest struct {
	FullName            Optional[string]          `json:"full_name"`
	Phone               Optional[string]          `json:"phone"`
	Email               Optional[string]          `json:"email"`
	Address             Optional[string]          `json:"address"`
	City                Optional[string]          `json:"city"`
	State               Optional[string]          `json:"state"`
	Stage               Optional[json.RawMessage] `json:"stage"`
	EstimatedValue      Optional[json.RawMessage] `json:"estimated_value"`
	AppointmentDatetime Optional[string]          `json:"appointment_datetime"`
}

func (r UpdateLeadRequest) ToPatch() (leads.Patch, error) {
	patch := leads.Patch{
		FullName:            present(r.FullName),
		Phone:               present(r.Phone),
		Email:               present(r.Email),
		Address:             present(r.Address),
		City:                present(r.City),
		State:               present(r.State),
		AppointmentDatetime: present(r.AppointmentDatetime),
	}

	if r.Stage.Set {
		var stage string
		if r.Stage.Value != nil {
			stage = stageName(*r.Stage.Value)
		}
		patch.Stage = &stage
	}

	if r.EstimatedValue.Set {
		var raw json.RawMessage
		if r.EstimatedValue.Value != nil {
			raw = *r.EstimatedValue.Value
		}
		value, err := leads.ParseEstimatedValue(raw)
		if err != nil {
			return leads.Patch{}, err
		}
		patch.EstimatedValue = &value
	}

	return patch, nil
}

// stageName returns the stage when raw is a JSON string and "" for any
// other value, which no stage matches.
func stageName(raw json.RawMessage) string {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return ""
	}
	return name
}

type CreateNoteRequest struct {
	NoteText string `json:"note_text"`
}

// Text is the note with control characters stripped.
func (r CreateNoteRequest) Text() string {
	return validation.SanitizeString(r.NoteText)
}

type LeadResponse struct {
	ID                  string  `json:"id"`
	FullName            string  `json:"full_name"`
	Phone               *string `json:"phone"`
	Email               *string `json:"email"`
	Address             *string `json:"address"`
	City                *string `json:"city"`
	State               *string `json:"state"`
	Stage               string  `json:"stage"`
	EstimatedValue      float64 `json:"estimated_value"`
	AppointmentDatetime *string `json:"appointment_datetime"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

// LeadDetailResponse is a lead with its notes, newest first.
type LeadDetailResponse struct {
	LeadResponse
	Notes []NoteResponse `json:"notes"`
}

type NoteResponse struct {
	ID        string `json:"id"`
	LeadID    string `json:"lead_id"`
	NoteText  string `json:"note_text"`
	CreatedAt string `json:"created_at"`
}

func NewLeadResponse(lead *models.Lead) LeadResponse {
	return LeadResponse{
		ID:                  lead.ID.String(),
		FullName:            lead.FullName,
		Phone:               lead.Phone,
		Email:               lead.Email,
		Address:             lead.Address,
		City:                lead.City,
		State:               lead.State,
		Stage:               string(lead.Stage),
		EstimatedValue:      lead.EstimatedValue,
		AppointmentDatetime: lead.AppointmentDatetime,
		CreatedAt:           formatTime(lead.CreatedAt),
		UpdatedAt:           formatTime(lead.UpdatedAt),
	}
}

func NewLeadResponses(list []models.Lead) []LeadResponse {
	out := make([]LeadResponse, 0, len(list))
	for i := range list {
		out = append(out, NewLeadResponse(&list[i]))
	}
	return out
}

func NewLeadDetailResponse(lead *models.Lead) LeadDetailResponse {
	notes := make([]NoteResponse, 0, len(lead.Notes))
	for i := range lead.Notes {
		notes = append(notes, NewNoteResponse(&lead.Notes[i]))
	}
	return LeadDetailResponse{
		LeadResponse: NewLeadResponse(lead),
		Notes:        notes,
	}
}

func NewNoteResponse(note *models.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID.String(),
		LeadID:    note.LeadID.String(),
		NoteText:  note.NoteText,
		CreatedAt: formatTime(note.CreatedAt),
	}
}

type DashboardResponse struct {
	TotalLeads    int            `json:"total_leads"`
	PipelineValue float64        `json:"pipeline_value"`
	ByStage       map[string]int `json:"by_stage"`
	Upcoming      []LeadResponse `json:"upcoming"`
}

func NewDashboardResponse(s *dashboard.Summary) DashboardResponse {
	byStage := make(map[string]int, len(s.ByStage))
	for stage, n := range s.ByStage {
		byStage[string(stage)] = n
	}
	return DashboardResponse{
		TotalLeads:    s.TotalLeads,
		PipelineValue: s.PipelineValue,
		ByStage:       byStage,
		Upcoming:      NewLeadResponses(s.Upcoming),
	}
}
