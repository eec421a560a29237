package notifications

import "github.com/hugh/contractor-connect/internal/leads"

// Compile-time interface satisfaction checks
var _ leads.Notifier = (*Service)(nil)
