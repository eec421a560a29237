package leads

import "errors"

var (
	ErrLeadNotFound          = errors.New("lead not found")
	ErrFullNameRequired      = errors.New("full_name is required")
	ErrNoteTextRequired      = errors.New("note_text required")
	ErrInvalidEstimatedValue = errors.New("estimated_value must be a non-negative number")
)

// IsValidationError reports whether err is caused by bad caller input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrFullNameRequired) ||
		errors.Is(err, ErrNoteTextRequired) ||
		errors.Is(err, ErrInvalidEstimatedValue)
}
