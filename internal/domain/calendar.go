package domain

import (
	"fmt"
	"strings"
	"time"
)

// CalendarEvent is an event pulled from an external calendar provider.
type CalendarEvent struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	CalendarID string    `json:"calendarId"`
}

// ActivityFromCalendarEvent converts an imported event into an untagged activity.
// The event id is kept so re-imports are recognisable.
func ActivityFromCalendarEvent(ev CalendarEvent) (Activity, error) {
	if ev.End.Before(ev.Start) {
		return Activity{}, fmt.Errorf("%w: calendar event %s ends before it starts", ErrMalformedActivity, ev.ID)
	}
	name := strings.TrimSpace(ev.Title)
	if name == "" {
		name = "Calendar event"
	}
	end := ev.End.Format(ClockLayout)
	return Activity{
		ID:        ev.ID,
		Name:      name,
		StartTime: ev.Start.Format(ClockLayout),
		EndTime:   &end,
		Duration:  roundMinutes(ev.End.Sub(ev.Start)),
		Values:    []ValueName{},
		Date:      FormatDate(ev.Start),
	}, nil
}
