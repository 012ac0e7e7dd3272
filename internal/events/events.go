// Package events defines the payloads published through the outbox and read
// back by the consumer.
package events

import "time"

// Event types carried in the event_type Kafka header.
const (
	TypeActivityLogged        = "activity.logged"
	TypeActivityDeleted       = "activity.deleted"
	TypeProfileUpdated        = "profile.updated"
	TypeCalendarEventReceived = "calendar.event_received"
)

// ActivityLogged is emitted when an activity is saved, whether tracked live,
// entered manually or imported from a calendar.
type ActivityLogged struct {
	ActivityID  string    `json:"activity_id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Date        string    `json:"date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time,omitempty"`
	DurationMin int       `json:"duration_min"`
	Values      []string  `json:"values"`
	Source      string    `json:"source"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ActivityDeleted is emitted when an activity is removed.
type ActivityDeleted struct {
	ActivityID string    `json:"activity_id"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ProfileUpdated carries the full profile snapshot after any change.
type ProfileUpdated struct {
	UserID      string              `json:"user_id"`
	Values      []string            `json:"values"`
	Priorities  map[string]float64  `json:"priorities"`
	Definitions map[string][]string `json:"definitions"`
	OccurredAt  time.Time           `json:"occurred_at"`
}

// CalendarEventReceived is produced by the calendar integration and imported
// as an untagged activity.
type CalendarEventReceived struct {
	EventID    string    `json:"event_id"`
	UserID     string    `json:"user_id"`
	CalendarID string    `json:"calendar_id"`
	Title      string    `json:"title"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
}
