// Package file persists a single user's profile and activities as a JSON
// snapshot, the offline counterpart of browser storage.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"example.com/timewealth/internal/domain"
)

// Snapshot is the on-disk document.
type Snapshot struct {
	Profile    *domain.ValueProfile `json:"profile"`
	Activities []domain.Activity    `json:"activities"`
}

// Store implements domain.Store over one snapshot file. The file holds a
// single user's data, so the userID arguments are ignored.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore returns a store backed by path. The file is created on first write.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the snapshot location.
func (s *Store) Path() string { return s.path }

// Load reads the snapshot. A missing file yields an empty snapshot.
func (s *Store) Load() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{Activities: []domain.Activity{}}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot %s: %w", s.path, err)
	}
	if snap.Activities == nil {
		snap.Activities = []domain.Activity{}
	}
	return snap, nil
}

// save writes to a temporary file and renames it over the snapshot so a
// crash never leaves a truncated document.
func (s *Store) save(snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *Store) update(fn func(*Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(&snap); err != nil {
		return err
	}
	return s.save(snap)
}

// GetProfile implements domain.ProfileRepository.
func (s *Store) GetProfile(_ context.Context, _ string) (*domain.ValueProfile, error) {
	snap, err := s.Load()
	if err != nil {
		return nil, err
	}
	return snap.Profile, nil
}

// SaveProfile implements domain.ProfileRepository.
func (s *Store) SaveProfile(_ context.Context, _ string, profile domain.ValueProfile) error {
	return s.update(func(snap *Snapshot) error {
		snap.Profile = profile.Clone()
		return nil
	})
}

// AddActivity implements domain.ActivityRepository.
func (s *Store) AddActivity(_ context.Context, _ string, activity domain.Activity) error {
	return s.update(func(snap *Snapshot) error {
		for _, existing := range snap.Activities {
			if existing.ID == activity.ID {
				return fmt.Errorf("%w: %s", domain.ErrDuplicateActivity, activity.ID)
			}
		}
		snap.Activities = append(snap.Activities, activity)
		return nil
	})
}

// DeleteActivity implements domain.ActivityRepository.
func (s *Store) DeleteActivity(_ context.Context, _ string, activityID string) (bool, error) {
	removed := false
	err := s.update(func(snap *Snapshot) error {
		kept := snap.Activities[:0]
		for _, a := range snap.Activities {
			if a.ID == activityID {
				removed = true
				continue
			}
			kept = append(kept, a)
		}
		snap.Activities = kept
		return nil
	})
	return removed, err
}

// ListActivities implements domain.ActivityRepository.
func (s *Store) ListActivities(_ context.Context, _ string) ([]domain.Activity, error) {
	snap, err := s.Load()
	if err != nil {
		return nil, err
	}
	return snap.Activities, nil
}

// ListActivitiesByDate implements domain.ActivityRepository.
func (s *Store) ListActivitiesByDate(ctx context.Context, userID, date string) ([]domain.Activity, error) {
	return s.ListActivitiesByDateRange(ctx, userID, date, date)
}

// ListActivitiesByDateRange implements domain.ActivityRepository. Both bounds are inclusive.
func (s *Store) ListActivitiesByDateRange(_ context.Context, _ string, startDate, endDate string) ([]domain.Activity, error) {
	snap, err := s.Load()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Activity, 0)
	for _, a := range snap.Activities {
		if a.Date >= startDate && a.Date <= endDate {
			out = append(out, a)
		}
	}
	return out, nil
}
