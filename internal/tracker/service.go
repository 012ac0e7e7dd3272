// Package tracker orchestrates activity logging, value profile edits and
// insight reports on top of a domain.Store.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"example.com/timewealth/internal/domain"
	"example.com/timewealth/internal/insights"
	"example.com/timewealth/internal/observability"
	"example.com/timewealth/internal/priority"
)

// ErrInvalidFilter is returned when a list request mixes or half-specifies date filters.
var ErrInvalidFilter = errors.New("provide either date or both start and end")

// Service orchestrates tracker workflows.
type Service struct {
	store  domain.Store
	now    func() time.Time
	newID  func() string
	logger *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for "today" and tracked end times.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator overrides activity id generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewService constructs a Service.
func NewService(store domain.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TrackedActivityInput is a completed timer session.
type TrackedActivityInput struct {
	Name      string
	Values    []domain.ValueName
	StartedAt time.Time
	// EndedAt defaults to the service clock when zero.
	EndedAt time.Time
}

// LogTrackedActivity saves a stopped timer. The duration is derived from the
// two timestamps and every tag must be one of the user's values.
func (s *Service) LogTrackedActivity(ctx context.Context, userID string, input TrackedActivityInput) (*domain.Activity, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := checkTags(profile, input.Values); err != nil {
		return nil, err
	}

	ended := input.EndedAt
	if ended.IsZero() {
		ended = s.now()
	}
	activity, err := domain.TrackingSession{
		Name:      input.Name,
		Values:    input.Values,
		StartedAt: input.StartedAt,
	}.Stop(ended)
	if err != nil {
		return nil, err
	}
	activity.ID = s.newID()

	if err := s.store.AddActivity(domain.WithSource(ctx, domain.SourceTracker), userID, activity); err != nil {
		return nil, err
	}
	observability.RecordActivityLogged(domain.SourceTracker)
	s.logger.Debug("activity logged",
		zap.String("user_id", userID),
		zap.String("activity_id", activity.ID),
		zap.Int("duration_min", activity.Duration),
	)
	return &activity, nil
}

// ActivityInput describes an activity entered by hand. With EndTime set the
// duration is the clock span; a non-zero Duration must agree with it.
type ActivityInput struct {
	Name      string
	Date      string
	StartTime string
	EndTime   *string
	Duration  int
	Values    []domain.ValueName
}

// LogActivity validates and saves a manually entered activity.
func (s *Service) LogActivity(ctx context.Context, userID string, input ActivityInput) (*domain.Activity, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrMissingName
	}
	if len(input.Values) == 0 {
		return nil, domain.ErrNoValuesSelected
	}
	if err := checkTags(profile, input.Values); err != nil {
		return nil, err
	}

	duration := input.Duration
	if input.EndTime != nil {
		span, err := domain.SpanMinutes(input.StartTime, *input.EndTime)
		if err != nil {
			return nil, err
		}
		if duration != 0 && duration != span {
			return nil, fmt.Errorf("%w: duration %d does not match %s-%s (%d minutes)",
				domain.ErrMalformedActivity, duration, input.StartTime, *input.EndTime, span)
		}
		duration = span
	}

	activity := domain.Activity{
		ID:        s.newID(),
		Name:      name,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Duration:  duration,
		Values:    append([]domain.ValueName(nil), input.Values...),
		Date:      input.Date,
	}
	if err := activity.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.AddActivity(domain.WithSource(ctx, domain.SourceManual), userID, activity); err != nil {
		return nil, err
	}
	observability.RecordActivityLogged(domain.SourceManual)
	return &activity, nil
}

// ImportCalendarEvents converts events into untagged activities. Events that
// were imported before are skipped, so redelivery is harmless. A malformed
// event rejects the whole batch before anything is stored. The returned slice
// holds only newly stored activities.
func (s *Service) ImportCalendarEvents(ctx context.Context, userID string, evs []domain.CalendarEvent) ([]domain.Activity, error) {
	converted := make([]domain.Activity, 0, len(evs))
	for _, ev := range evs {
		activity, err := domain.ActivityFromCalendarEvent(ev)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", ev.ID, err)
		}
		if activity.ID == "" {
			activity.ID = s.newID()
		}
		converted = append(converted, activity)
	}

	ctx = domain.WithSource(ctx, domain.SourceCalendar)
	imported := make([]domain.Activity, 0, len(converted))
	for i, activity := range converted {
		ev := evs[i]
		if err := s.store.AddActivity(ctx, userID, activity); err != nil {
			if errors.Is(err, domain.ErrDuplicateActivity) {
				s.logger.Debug("calendar event already imported",
					zap.String("user_id", userID),
					zap.String("event_id", ev.ID),
				)
				continue
			}
			return imported, err
		}
		observability.RecordActivityLogged(domain.SourceCalendar)
		imported = append(imported, activity)
	}
	return imported, nil
}

// DeleteActivity removes one activity.
func (s *Service) DeleteActivity(ctx context.Context, userID, activityID string) error {
	removed, err := s.store.DeleteActivity(ctx, userID, activityID)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrActivityNotFound
	}
	observability.RecordActivityDeleted()
	return nil
}

// ListFilter narrows ListActivities. Zero value lists everything.
type ListFilter struct {
	Date  string
	Start string
	End   string
}

// ListActivities returns the user's activities for a day, an inclusive range
// or all time.
func (s *Service) ListActivities(ctx context.Context, userID string, filter ListFilter) ([]domain.Activity, error) {
	switch {
	case filter.Date != "" && (filter.Start != "" || filter.End != ""):
		return nil, ErrInvalidFilter
	case filter.Date != "":
		if err := checkDate(filter.Date); err != nil {
			return nil, err
		}
		return s.store.ListActivitiesByDate(ctx, userID, filter.Date)
	case filter.Start != "" || filter.End != "":
		if filter.Start == "" || filter.End == "" {
			return nil, ErrInvalidFilter
		}
		if err := checkDate(filter.Start); err != nil {
			return nil, err
		}
		if err := checkDate(filter.End); err != nil {
			return nil, err
		}
		return s.store.ListActivitiesByDateRange(ctx, userID, filter.Start, filter.End)
	default:
		return s.store.ListActivities(ctx, userID)
	}
}

// ActivityLog returns one day's activities sorted by start time. An empty
// date means today.
func (s *Service) ActivityLog(ctx context.Context, userID, date string, value domain.ValueName) (insights.DayLog, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return insights.DayLog{}, err
	}
	if date == "" {
		date = domain.FormatDate(s.now())
	}
	if err := checkDate(date); err != nil {
		return insights.DayLog{}, err
	}
	activities, err := s.store.ListActivitiesByDate(ctx, userID, date)
	if err != nil {
		return insights.DayLog{}, err
	}
	return insights.BuildDayLog(profile, activities, date, value)
}

// Onboard creates the user's profile with equal priorities.
func (s *Service) Onboard(ctx context.Context, userID string, values []domain.ValueName) (*domain.ValueProfile, error) {
	profile, err := domain.NewOnboardedProfile(values)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveProfile(ctx, userID, *profile); err != nil {
		return nil, err
	}
	s.logger.Info("user onboarded", zap.String("user_id", userID), zap.Int("values", len(profile.Values)))
	return profile, nil
}

// GetProfile returns the user's profile or domain.ErrProfileNotFound.
func (s *Service) GetProfile(ctx context.Context, userID string) (*domain.ValueProfile, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	return profile, nil
}

// SaveProfile validates and replaces the whole profile.
func (s *Service) SaveProfile(ctx context.Context, userID string, profile domain.ValueProfile) (*domain.ValueProfile, error) {
	validated, err := domain.NewValueProfile(profile.Values, profile.Priorities, profile.Definitions)
	if err != nil {
		return nil, err
	}
	if len(validated.Values) == 0 {
		return nil, domain.ErrNoValuesSelected
	}
	if err := s.store.SaveProfile(ctx, userID, *validated); err != nil {
		return nil, err
	}
	return validated, nil
}

// UpdatePriority applies one slider edit and rescales the rest so the weights
// sum to 100.
func (s *Service) UpdatePriority(ctx context.Context, userID string, value domain.ValueName, raw float64) (*domain.ValueProfile, error) {
	return s.mutateProfile(ctx, userID, func(p *domain.ValueProfile) error {
		weights, err := priority.Normalize(p.Values, p.Priorities, value, raw)
		if err != nil {
			if errors.Is(err, priority.ErrUnknownValue) {
				return fmt.Errorf("%w: %q", domain.ErrUnknownValue, value)
			}
			return err
		}
		p.Priorities = weights
		observability.RecordPriorityUpdate("edit")
		return nil
	})
}

// ResetPriorities restores equal shares.
func (s *Service) ResetPriorities(ctx context.Context, userID string) (*domain.ValueProfile, error) {
	return s.mutateProfile(ctx, userID, func(p *domain.ValueProfile) error {
		p.Priorities = priority.EqualShares(p.Values)
		observability.RecordPriorityUpdate("reset")
		return nil
	})
}

// AddDefinition attaches an activity label to a value.
func (s *Service) AddDefinition(ctx context.Context, userID string, value domain.ValueName, label string) (*domain.ValueProfile, error) {
	return s.mutateProfile(ctx, userID, func(p *domain.ValueProfile) error {
		return p.AddDefinition(value, label)
	})
}

// RemoveDefinition detaches an activity label from a value.
func (s *Service) RemoveDefinition(ctx context.Context, userID string, value domain.ValueName, label string) (*domain.ValueProfile, error) {
	return s.mutateProfile(ctx, userID, func(p *domain.ValueProfile) error {
		return p.RemoveDefinition(value, label)
	})
}

func (s *Service) mutateProfile(ctx context.Context, userID string, fn func(*domain.ValueProfile) error) (*domain.ValueProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(profile); err != nil {
		return nil, err
	}
	if err := s.store.SaveProfile(ctx, userID, *profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Insights builds the alignment report for selector as of the service clock.
func (s *Service) Insights(ctx context.Context, userID string, selector insights.Range) (insights.Report, error) {
	started := time.Now()

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return insights.Report{}, err
	}
	activities, err := s.store.ListActivities(ctx, userID)
	if err != nil {
		return insights.Report{}, err
	}
	report, err := insights.Summarize(profile, activities, selector, s.now())
	if err != nil {
		s.logger.Warn("insights failed", zap.String("user_id", userID), zap.Error(err))
		return insights.Report{}, err
	}
	observability.RecordInsights(string(selector), time.Since(started))
	return report, nil
}

func checkTags(profile *domain.ValueProfile, values []domain.ValueName) error {
	for _, v := range values {
		if !profile.Has(v) {
			return fmt.Errorf("%w: %q", domain.ErrUnknownValue, v)
		}
	}
	return nil
}

func checkDate(date string) error {
	if _, err := domain.ParseDate(date); err != nil {
		return fmt.Errorf("%w: date %q", domain.ErrMalformedActivity, date)
	}
	return nil
}
