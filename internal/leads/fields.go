package leads

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/hugh/contractor-connect/internal/database/models"
)

// Input carries the fields of a new lead as supplied by the caller.
type Input struct {
	FullName            string
	Phone               string
	Email               string
	Address             string
	City                string
	State               string
	Stage               string
	EstimatedValue      float64
	AppointmentDatetime string
}

// Patch is a partial update. A nil field was absent from the request; a
// non-nil field was present, and an empty string clears the value.
type Patch struct {
	FullName            *string
	Phone               *string
	Email               *string
	Address             *string
	City                *string
	State               *string
	Stage               *string
	EstimatedValue      *float64
	AppointmentDatetime *string
}

// Apply merges the present fields into lead. An unrecognized stage is
// ignored and the current stage kept.
func (p Patch) Apply(lead *models.Lead) error {
	if p.FullName != nil {
		name := strings.TrimSpace(*p.FullName)
		if name == "" {
			return ErrFullNameRequired
		}
		lead.FullName = name
	}
	if p.EstimatedValue != nil {
		if err := checkValue(*p.EstimatedValue); err != nil {
			return err
		}
		lead.EstimatedValue = *p.EstimatedValue
	}

	mergeOptional(&lead.Phone, p.Phone)
	mergeOptional(&lead.Email, p.Email)
	mergeOptional(&lead.Address, p.Address)
	mergeOptional(&lead.City, p.City)
	mergeOptional(&lead.State, p.State)
	mergeOptional(&lead.AppointmentDatetime, p.AppointmentDatetime)

	if p.Stage != nil {
		if stage, ok := models.ParseStage(*p.Stage); ok {
			lead.Stage = stage
		}
	}

	return nil
}

func mergeOptional(dst **string, src *string) {
	if src != nil {
		*dst = optional(*src)
	}
}

// optional trims s and maps blank to nil.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func checkValue(v float64) error {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrInvalidEstimatedValue
	}
	return nil
}

// ParseEstimatedValue coerces a raw JSON value into an amount. Numbers and
// numeric strings are accepted; null, missing and blank mean zero.
func ParseEstimatedValue(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, checkValue(n)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, ErrInvalidEstimatedValue
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidEstimatedValue
	}
	return n, checkValue(n)
}
