package validation

import (
	"strings"
	"unicode"
)

// Field pairs a request field with its submitted value and the message
// reported when it is missing.
type Field struct {
	Name    string
	Value   string
	Message string
}

// Required returns a message per field whose value is blank. The result is
// empty, never nil, when everything is present.
func Required(fields ...Field) map[string]string {
	errors := make(map[string]string)
	for _, f := range fields {
		if IsBlank(f.Value) {
			errors[f.Name] = f.Message
		}
	}
	return errors
}

// IsBlank reports whether s is empty after trimming whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// SanitizeString removes null bytes and control characters other than
// newlines and tabs.
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")

	var result strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || !unicode.IsControl(r) {
			result.WriteRune(r)
		}
	}

	return result.String()
}
