package reflection

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// HoursPerWeek bounds every audit entry and is the budget remaining hours
// are computed against.
const HoursPerWeek = 168

// LifeExpectancy is the horizon used by the meaningful-connections calculator.
const LifeExpectancy = 85

var ErrInvalidRating = errors.New("rating must be high, medium or low")

// Rating is how much value the user places on an audited activity.
type Rating string

const (
	RatingHigh   Rating = "high"
	RatingMedium Rating = "medium"
	RatingLow    Rating = "low"
)

// ParseRating accepts a rating in any case.
func ParseRating(raw string) (Rating, error) {
	switch r := Rating(strings.ToLower(strings.TrimSpace(raw))); r {
	case RatingHigh, RatingMedium, RatingLow:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRating, raw)
	}
}

// AuditEntry is one row of the weekly time audit.
type AuditEntry struct {
	ID     string  `yaml:"id" json:"id"`
	Name   string  `yaml:"name" json:"name"`
	Hours  float64 `yaml:"hours" json:"hours"`
	Rating Rating  `yaml:"value" json:"value"`
}

// Audit summarises a week of audited hours.
type Audit struct {
	HighHours      float64 `json:"high_value_hours"`
	MediumHours    float64 `json:"medium_value_hours"`
	LowHours       float64 `json:"low_value_hours"`
	TotalHours     float64 `json:"total_hours"`
	RemainingHours float64 `json:"remaining_hours"`
	Score          int     `json:"score"`
	HasData        bool    `json:"has_data"`
}

// ClampHours limits an entry to a single week.
func ClampHours(hours float64) float64 {
	if math.IsNaN(hours) {
		return 0
	}
	return math.Max(0, math.Min(HoursPerWeek, hours))
}

// AuditTimeWealth buckets hours by rating. The score is the share of
// high-value hours, rounded; with no hours at all the score is 0 and HasData
// is false.
func AuditTimeWealth(entries []AuditEntry) (Audit, error) {
	var a Audit
	for _, e := range entries {
		rating, err := ParseRating(string(e.Rating))
		if err != nil {
			return Audit{}, fmt.Errorf("audit entry %q: %w", e.ID, err)
		}
		hours := ClampHours(e.Hours)
		switch rating {
		case RatingHigh:
			a.HighHours += hours
		case RatingMedium:
			a.MediumHours += hours
		case RatingLow:
			a.LowHours += hours
		}
	}
	a.TotalHours = a.HighHours + a.MediumHours + a.LowHours
	a.RemainingHours = HoursPerWeek - a.TotalHours
	if a.TotalHours > 0 {
		a.Score = int(math.Round(a.HighHours / a.TotalHours * 100))
		a.HasData = true
	}
	return a, nil
}

// LovedOne describes someone the user wants to spend time with.
type LovedOne struct {
	Name          string  `json:"name"`
	VisitsPerYear float64 `json:"visits_per_year"`
	YourAge       int     `json:"your_age"`
	TheirAge      int     `json:"their_age"`
}

// Visits is the estimated time left with a loved one.
type Visits struct {
	YearsRemaining  int `json:"years_remaining"`
	RemainingVisits int `json:"remaining_visits"`
}

// RemainingVisits estimates visits left before either person reaches
// LifeExpectancy. Years never go below zero.
func RemainingVisits(l LovedOne) Visits {
	years := LifeExpectancy - l.YourAge
	if theirs := LifeExpectancy - l.TheirAge; theirs < years {
		years = theirs
	}
	if years < 0 {
		years = 0
	}
	visits := math.Max(0, l.VisitsPerYear)
	return Visits{
		YearsRemaining:  years,
		RemainingVisits: int(math.Round(float64(years) * visits)),
	}
}
