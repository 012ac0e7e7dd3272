// Package domain defines the value profile and activity records along with the
// repository contracts used by the tracker.
package domain

import (
	"context"
	"errors"
)

var (
	// ErrActivityNotFound is returned when an activity cannot be located.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrDuplicateActivity is returned when an activity id is already stored for the user.
	ErrDuplicateActivity = errors.New("activity already exists")
	// ErrProfileNotFound is returned when the user has not completed onboarding.
	ErrProfileNotFound = errors.New("value profile not found")
	// ErrMalformedActivity marks activity records that cannot be aggregated.
	ErrMalformedActivity = errors.New("malformed activity")
	// ErrMissingName is returned when an activity has no label.
	ErrMissingName = errors.New("activity name is required")
	// ErrNoValuesSelected is returned when a tracked activity or onboarding carries no values.
	ErrNoValuesSelected = errors.New("at least one value must be selected")
	// ErrInvalidValueName is returned for empty value names.
	ErrInvalidValueName = errors.New("invalid value name")
	// ErrDuplicateValue is returned when a profile lists the same value twice.
	ErrDuplicateValue = errors.New("duplicate value")
	// ErrUnknownValue is returned for keys that are not part of the profile.
	ErrUnknownValue = errors.New("unknown value")
	// ErrInvalidPriority is returned for weights outside [0,100].
	ErrInvalidPriority = errors.New("priority must be between 0 and 100")
	// ErrEmptyDefinition is returned when an activity label is blank.
	ErrEmptyDefinition = errors.New("definition is empty")
)

// ActivityRepository captures activity persistence. Implementations return
// copies; callers aggregate over the snapshot they were handed. AddActivity
// returns ErrDuplicateActivity when the id is taken.
type ActivityRepository interface {
	AddActivity(ctx context.Context, userID string, activity Activity) error
	DeleteActivity(ctx context.Context, userID, activityID string) (bool, error)
	ListActivities(ctx context.Context, userID string) ([]Activity, error)
	ListActivitiesByDate(ctx context.Context, userID, date string) ([]Activity, error)
	ListActivitiesByDateRange(ctx context.Context, userID, startDate, endDate string) ([]Activity, error)
}

// ProfileRepository stores the value profile as a whole-object snapshot.
// GetProfile returns nil, nil when no profile exists.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (*ValueProfile, error)
	SaveProfile(ctx context.Context, userID string, profile ValueProfile) error
}

// Store bundles both repositories; every backend in this module implements it.
type Store interface {
	ActivityRepository
	ProfileRepository
}

// Sources recorded alongside persisted activities.
const (
	SourceTracker  = "tracker"
	SourceManual   = "manual"
	SourceCalendar = "calendar"
)

type sourceKey struct{}

// WithSource tags ctx with the origin of the activities written under it.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey{}, source)
}

// SourceFrom returns the source set by WithSource, or SourceTracker.
func SourceFrom(ctx context.Context) string {
	if source, ok := ctx.Value(sourceKey{}).(string); ok && source != "" {
		return source
	}
	return SourceTracker
}
