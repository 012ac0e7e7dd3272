package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// DateLayout is the calendar-day format used for Activity.Date. Zero padded,
	// so lexical comparison matches date order.
	DateLayout = "2006-01-02"
	// ClockLayout is the local wall-clock format for start and end times.
	ClockLayout = "15:04"
)

// Activity is a logged, timed occurrence tagged with zero or more values.
type Activity struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	StartTime string      `json:"startTime"`
	EndTime   *string     `json:"endTime"`
	Duration  int         `json:"duration"`
	Values    []ValueName `json:"values"`
	Date      string      `json:"date"`
}

// Validate reports malformed dates, clock strings or durations. Aggregation
// refuses such records instead of producing a silently wrong answer.
func (a Activity) Validate() error {
	if _, err := ParseDate(a.Date); err != nil {
		return fmt.Errorf("%w: activity %s date %q", ErrMalformedActivity, a.ID, a.Date)
	}
	if _, err := time.Parse(ClockLayout, a.StartTime); err != nil {
		return fmt.Errorf("%w: activity %s start time %q", ErrMalformedActivity, a.ID, a.StartTime)
	}
	if a.EndTime != nil {
		if _, err := time.Parse(ClockLayout, *a.EndTime); err != nil {
			return fmt.Errorf("%w: activity %s end time %q", ErrMalformedActivity, a.ID, *a.EndTime)
		}
	}
	if a.Duration < 0 {
		return fmt.Errorf("%w: activity %s duration %d", ErrMalformedActivity, a.ID, a.Duration)
	}
	return nil
}

// HasValue reports whether the activity is tagged with v.
func (a Activity) HasValue(v ValueName) bool {
	for _, tag := range a.Values {
		if tag == v {
			return true
		}
	}
	return false
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders t's local calendar day as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TrackingSession is a timer that has been started but not yet saved.
type TrackingSession struct {
	Name      string
	Values    []ValueName
	StartedAt time.Time
}

// Stop closes the session at endedAt and produces the activity to save.
func (s TrackingSession) Stop(endedAt time.Time) (Activity, error) {
	return NewTrackedActivity(s.Name, s.Values, s.StartedAt, endedAt)
}

// NewTrackedActivity builds an activity from a completed timer. The end time is
// taken at save time and the duration is the rounded wall-clock difference.
func NewTrackedActivity(name string, values []ValueName, startedAt, endedAt time.Time) (Activity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Activity{}, ErrMissingName
	}
	if len(values) == 0 {
		return Activity{}, ErrNoValuesSelected
	}
	if endedAt.Before(startedAt) {
		return Activity{}, fmt.Errorf("%w: ended before it started", ErrMalformedActivity)
	}

	end := endedAt.Format(ClockLayout)
	return Activity{
		Name:      name,
		StartTime: startedAt.Format(ClockLayout),
		EndTime:   &end,
		Duration:  roundMinutes(endedAt.Sub(startedAt)),
		Values:    append([]ValueName(nil), values...),
		Date:      FormatDate(startedAt),
	}, nil
}

// SpanMinutes is the wall-clock length from start to end, both HH:MM. An end
// earlier than the start is read as the next day.
func SpanMinutes(start, end string) (int, error) {
	from, err := time.Parse(ClockLayout, start)
	if err != nil {
		return 0, fmt.Errorf("%w: start time %q", ErrMalformedActivity, start)
	}
	to, err := time.Parse(ClockLayout, end)
	if err != nil {
		return 0, fmt.Errorf("%w: end time %q", ErrMalformedActivity, end)
	}
	if to.Before(from) {
		to = to.Add(24 * time.Hour)
	}
	return int(to.Sub(from).Minutes()), nil
}

func roundMinutes(d time.Duration) int {
	return int(math.Round(d.Minutes()))
}

// StartMinutes returns the activity's start as minutes after midnight, or -1 when unparsable.
func (a Activity) StartMinutes() int {
	t, err := time.Parse(ClockLayout, a.StartTime)
	if err != nil {
		return -1
	}
	return t.Hour()*60 + t.Minute()
}
