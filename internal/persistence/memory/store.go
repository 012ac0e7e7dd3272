// Package memory keeps profiles and activities in process memory for local
// development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"example.com/timewealth/internal/domain"
)

// Store implements domain.Store with per-user maps guarded by a RWMutex.
// Every read returns copies.
type Store struct {
	mu         sync.RWMutex
	profiles   map[string]*domain.ValueProfile
	activities map[string][]domain.Activity
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{
		profiles:   make(map[string]*domain.ValueProfile),
		activities: make(map[string][]domain.Activity),
	}
}

// GetProfile implements domain.ProfileRepository.
func (s *Store) GetProfile(_ context.Context, userID string) (*domain.ValueProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profiles[userID].Clone(), nil
}

// SaveProfile implements domain.ProfileRepository.
func (s *Store) SaveProfile(_ context.Context, userID string, profile domain.ValueProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[userID] = profile.Clone()
	return nil
}

// AddActivity implements domain.ActivityRepository.
func (s *Store) AddActivity(_ context.Context, userID string, activity domain.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.activities[userID] {
		if existing.ID == activity.ID {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateActivity, activity.ID)
		}
	}
	s.activities[userID] = append(s.activities[userID], cloneActivity(activity))
	return nil
}

// DeleteActivity implements domain.ActivityRepository.
func (s *Store) DeleteActivity(_ context.Context, userID, activityID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.activities[userID]
	for i, a := range current {
		if a.ID == activityID {
			s.activities[userID] = append(current[:i:i], current[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ListActivities implements domain.ActivityRepository.
func (s *Store) ListActivities(_ context.Context, userID string) ([]domain.Activity, error) {
	return s.filter(userID, func(domain.Activity) bool { return true }), nil
}

// ListActivitiesByDate implements domain.ActivityRepository.
func (s *Store) ListActivitiesByDate(_ context.Context, userID, date string) ([]domain.Activity, error) {
	return s.filter(userID, func(a domain.Activity) bool { return a.Date == date }), nil
}

// ListActivitiesByDateRange implements domain.ActivityRepository. Both bounds are inclusive.
func (s *Store) ListActivitiesByDateRange(_ context.Context, userID, startDate, endDate string) ([]domain.Activity, error) {
	return s.filter(userID, func(a domain.Activity) bool {
		return a.Date >= startDate && a.Date <= endDate
	}), nil
}

func (s *Store) filter(userID string, keep func(domain.Activity) bool) []domain.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Activity, 0)
	for _, a := range s.activities[userID] {
		if keep(a) {
			out = append(out, cloneActivity(a))
		}
	}
	return out
}

func cloneActivity(a domain.Activity) domain.Activity {
	a.Values = append([]domain.ValueName{}, a.Values...)
	if a.EndTime != nil {
		end := *a.EndTime
		a.EndTime = &end
	}
	return a
}
