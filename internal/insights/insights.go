// Package insights computes value-alignment statistics from a value profile
// and a snapshot of activities.
//
// Every function is pure: the caller passes the activity snapshot and the
// current day, and identical input yields identical output.
package insights

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"example.com/timewealth/internal/domain"
)

// ErrMissingProfile is returned when aggregation is requested before onboarding.
var ErrMissingProfile = errors.New("value profile is required for insights")

// Range selects the reporting window relative to today.
type Range string

const (
	RangeDay   Range = "day"
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
)

// fallbackDays is the window used for unrecognised selectors.
const fallbackDays = 7

// Window is an inclusive pair of YYYY-MM-DD dates.
type Window struct {
	Start string `json:"start_date"`
	End   string `json:"end_date"`
}

// ResolveRange maps a selector onto concrete dates. Weeks start on Monday.
// Unknown selectors cover the last seven days.
func ResolveRange(selector Range, today time.Time) Window {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	var start time.Time
	switch selector {
	case RangeDay:
		start = today
	case RangeWeek:
		sinceMonday := (int(today.Weekday()) + 6) % 7
		start = today.AddDate(0, 0, -sinceMonday)
	case RangeMonth:
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	default:
		start = today.AddDate(0, 0, -fallbackDays)
	}

	return Window{Start: domain.FormatDate(start), End: domain.FormatDate(today)}
}

// FilterFrom keeps activities dated on or after start. There is deliberately no
// upper bound: future-dated activities are included in summary statistics.
func FilterFrom(activities []domain.Activity, start string) []domain.Activity {
	out := make([]domain.Activity, 0, len(activities))
	for _, a := range activities {
		if a.Date >= start {
			out = append(out, a)
		}
	}
	return out
}

// TotalMinutes sums durations, counting each activity once regardless of tags.
func TotalMinutes(activities []domain.Activity) int {
	total := 0
	for _, a := range activities {
		total += a.Duration
	}
	return total
}

// ValueStat is the tracked time for one value next to its target share.
type ValueStat struct {
	Value            domain.ValueName `json:"value"`
	TotalMinutes     int              `json:"total_minutes"`
	TargetPercentage float64          `json:"target_percentage"`
	ActualPercentage int              `json:"actual_percentage"`
	HasData          bool             `json:"has_data"`
}

// ValueStats sums minutes per profile value. An activity tagged with several
// values counts toward each of them. Results are ordered by minutes descending;
// ties keep profile order.
func ValueStats(profile *domain.ValueProfile, activities []domain.Activity) []ValueStat {
	total := TotalMinutes(activities)
	stats := make([]ValueStat, 0, len(profile.Values))
	for _, v := range profile.Values {
		minutes := minutesFor(v, activities)
		actual, ok := ActualPercentage(minutes, total)
		stats = append(stats, ValueStat{
			Value:            v,
			TotalMinutes:     minutes,
			TargetPercentage: profile.Priority(v),
			ActualPercentage: actual,
			HasData:          ok,
		})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalMinutes > stats[j].TotalMinutes
	})
	return stats
}

// ActualPercentage returns round(minutes/total*100). The boolean is false when
// nothing was tracked, in which case the percentage is 0.
func ActualPercentage(minutes, total int) (int, bool) {
	if total <= 0 {
		return 0, false
	}
	return int(math.Round(float64(minutes) / float64(total) * 100)), true
}

func minutesFor(v domain.ValueName, activities []domain.Activity) int {
	minutes := 0
	for _, a := range activities {
		if a.HasValue(v) {
			minutes += a.Duration
		}
	}
	return minutes
}

// ValueMinutes is one value's share of a single day.
type ValueMinutes struct {
	Value   domain.ValueName `json:"value"`
	Minutes int              `json:"minutes"`
}

// DailyPoint is the derived aggregate for one calendar day.
type DailyPoint struct {
	Date   string         `json:"date"`
	Label  string         `json:"label"`
	Total  int            `json:"total"`
	Values []ValueMinutes `json:"values"`
}

// MinutesFor returns the minutes recorded for v on this day.
func (p DailyPoint) MinutesFor(v domain.ValueName) int {
	for _, vm := range p.Values {
		if vm.Value == v {
			return vm.Minutes
		}
	}
	return 0
}

// DailySeries walks every day from start to end inclusive. Days without
// activities are present with zero totals. Unlike FilterFrom, both ends bound
// the series because activities are matched by exact date.
func DailySeries(profile *domain.ValueProfile, activities []domain.Activity, start, end string) ([]DailyPoint, error) {
	from, err := domain.ParseDate(start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	to, err := domain.ParseDate(end)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", end, err)
	}

	byDate := make(map[string][]domain.Activity)
	for _, a := range activities {
		byDate[a.Date] = append(byDate[a.Date], a)
	}

	series := make([]DailyPoint, 0)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		key := domain.FormatDate(day)
		dayActivities := byDate[key]

		point := DailyPoint{
			Date:   key,
			Label:  day.Format("Jan 02"),
			Total:  TotalMinutes(dayActivities),
			Values: make([]ValueMinutes, 0, len(profile.Values)),
		}
		for _, v := range profile.Values {
			point.Values = append(point.Values, ValueMinutes{Value: v, Minutes: minutesFor(v, dayActivities)})
		}
		series = append(series, point)
	}
	return series, nil
}

// Report is everything the insights view renders for one range.
type Report struct {
	Range         Range        `json:"range"`
	Window        Window       `json:"window"`
	ActivityCount int          `json:"activity_count"`
	TotalMinutes  int          `json:"total_minutes"`
	Stats         []ValueStat  `json:"stats"`
	Daily         []DailyPoint `json:"daily"`
}

// Summarize validates the snapshot and builds the report for selector as of today.
func Summarize(profile *domain.ValueProfile, activities []domain.Activity, selector Range, today time.Time) (Report, error) {
	if profile == nil {
		return Report{}, ErrMissingProfile
	}
	for _, a := range activities {
		if err := a.Validate(); err != nil {
			return Report{}, err
		}
	}

	window := ResolveRange(selector, today)
	inRange := FilterFrom(activities, window.Start)

	daily, err := DailySeries(profile, activities, window.Start, window.End)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Range:         selector,
		Window:        window,
		ActivityCount: len(inRange),
		TotalMinutes:  TotalMinutes(inRange),
		Stats:         ValueStats(profile, inRange),
		Daily:         daily,
	}, nil
}
