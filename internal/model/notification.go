package model

import "time"

// NotificationKind distinguishes an advance reminder from the exact-time
// alert for the same event.
type NotificationKind int

const (
	KindReminder NotificationKind = 1
	KindExact    NotificationKind = 2
)

func (k NotificationKind) String() string {
	switch k {
	case KindReminder:
		return "reminder"
	case KindExact:
		return "exact"
	}
	return "unknown"
}

// NotificationEntry is one scheduled local notification. Entries are never
// mutated in place: reconciliation cancels and recreates them.
type NotificationEntry struct {
	ID          int              `json:"id" db:"id"`
	Domain      string           `json:"domain" db:"domain"`
	ScheduledAt time.Time        `json:"scheduled_at" db:"scheduled_at"`
	Kind        NotificationKind `json:"kind" db:"kind"`
	EventName   string           `json:"event_name" db:"event_name"`
	EventDate   string           `json:"event_date" db:"event_date"` // "2006-01-02"
	Sound       bool             `json:"sound" db:"sound"`
}

// NotificationSettings are the user-facing knobs for prayer alerts.
type NotificationSettings struct {
	Enabled       bool `json:"enabled"`
	OffsetMinutes int  `json:"offset_minutes"`
	SoundEnabled  bool `json:"sound_enabled"`
}
