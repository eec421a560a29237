package dashboard

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/hugh/contractor-connect/internal/database/models"
	"gorm.io/gorm"
)

const upcomingLimit = 10

// Summary is the pipeline overview for one user.
type Summary struct {
	TotalLeads    int                  `json:"total_leads"`
	PipelineValue float64              `json:"pipeline_value"`
	ByStage       map[models.Stage]int `json:"by_stage"`
	Upcoming      []models.Lead        `json:"upcoming"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Summary loads all of the user's leads and aggregates them. Nothing is
// cached.
func (s *Service) Summary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	var leads []models.Lead
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&leads).Error; err != nil {
		return nil, err
	}
	return Summarize(leads), nil
}

// Summarize computes the dashboard figures for a set of leads. Upcoming
// appointments are ordered by the raw appointment string, so only
// ISO-8601 values sort chronologically.
func Summarize(leads []models.Lead) *Summary {
	summary := &Summary{
		TotalLeads: len(leads),
		ByStage:    make(map[models.Stage]int, len(models.Stages)),
		Upcoming:   []models.Lead{},
	}
	for _, stage := range models.Stages {
		summary.ByStage[stage] = 0
	}

	for _, lead := range leads {
		if lead.Stage != models.StageClosedLost {
			summary.PipelineValue += lead.EstimatedValue
		}
		summary.ByStage[lead.Stage]++

		if lead.AppointmentDatetime != nil && *lead.AppointmentDatetime != "" {
			summary.Upcoming = append(summary.Upcoming, lead)
		}
	}

	sort.SliceStable(summary.Upcoming, func(i, j int) bool {
		return *summary.Upcoming[i].AppointmentDatetime < *summary.Upcoming[j].AppointmentDatetime
	})
	if len(summary.Upcoming) > upcomingLimit {
		summary.Upcoming = summary.Upcoming[:upcomingLimit]
	}

	return summary
}
