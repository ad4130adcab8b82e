package model

import "time"

// NotificationSeverity classifies a notification for display
type NotificationSeverity string

const (
	// SeverityInfo is an informational notice.
	SeverityInfo NotificationSeverity = "info"
	// SeverityWarning is a warning, e.g. approaching a quota.
	SeverityWarning NotificationSeverity = "warning"
	// SeverityError is an error, e.g. a failed billing charge.
	SeverityError NotificationSeverity = "error"
)

// Notification represents a billing or quota notice shown to the user
type Notification struct {
	Key       string               `json:"_key,omitempty"`
	ObjType   string               `json:"objtype,omitempty"`
	Message   string               `json:"message"`
	Severity  NotificationSeverity `json:"severity"`
	Read      bool                 `json:"read"`
	CreatedAt time.Time            `json:"created_at,omitempty"`
}

// NewNotification creates a new Notification instance with default values
func NewNotification() *Notification {
	return &Notification{
		ObjType:   "Notification",
		Severity:  SeverityInfo,
		CreatedAt: time.Now().UTC(),
	}
}
