package insights

import (
	"fmt"
	"sort"

	"example.com/timewealth/internal/domain"
)

// DayLog lists the activities of a single day, optionally narrowed to one value.
type DayLog struct {
	Date         string            `json:"date"`
	Filter       domain.ValueName  `json:"filter,omitempty"`
	Activities   []domain.Activity `json:"activities"`
	TotalMinutes int               `json:"total_minutes"`
	Stats        []ValueStat       `json:"stats"`
}

// BuildDayLog selects the activities on date, sorted by start time. Stats are
// computed over the whole day regardless of the filter.
func BuildDayLog(profile *domain.ValueProfile, activities []domain.Activity, date string, filter domain.ValueName) (DayLog, error) {
	if profile == nil {
		return DayLog{}, ErrMissingProfile
	}
	if _, err := domain.ParseDate(date); err != nil {
		return DayLog{}, fmt.Errorf("%w: date %q", domain.ErrMalformedActivity, date)
	}

	day := make([]domain.Activity, 0)
	for _, a := range activities {
		if a.Date == date {
			day = append(day, a)
		}
	}

	listed := day
	if filter != "" {
		listed = make([]domain.Activity, 0, len(day))
		for _, a := range day {
			if a.HasValue(filter) {
				listed = append(listed, a)
			}
		}
	}
	sort.SliceStable(listed, func(i, j int) bool {
		return listed[i].StartMinutes() < listed[j].StartMinutes()
	})

	return DayLog{
		Date:         date,
		Filter:       filter,
		Activities:   listed,
		TotalMinutes: TotalMinutes(day),
		Stats:        ValueStats(profile, day),
	}, nil
}

// FormatDuration renders minutes as "2h 5m", or "45m" below an hour.
func FormatDuration(minutes int) string {
	hours := minutes / 60
	mins := minutes % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}
