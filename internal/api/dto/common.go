package dto

import (
	"bytes"
	"encoding/json"
	"time"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// Optional records whether a JSON field was present at all, separately
// from its value. A present null leaves Value nil with Set true.
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// present maps a present field to a pointer, with null becoming the empty
// string. Absent fields stay nil.
func present(o Optional[string]) *string {
	if !o.Set {
		return nil
	}
	s := ""
	if o.Value != nil {
		s = *o.Value
	}
	return &s
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
