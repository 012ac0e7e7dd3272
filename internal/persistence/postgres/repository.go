// Package postgres stores value profiles and activities in Postgres. Every
// statement runs in a transaction scoped to one user through the app.user_id
// setting that the row-level security policies read, and each mutation
// enqueues its domain event in the same transaction.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/timewealth/internal/domain"
	"example.com/timewealth/internal/events"
	"example.com/timewealth/internal/observability"
	"example.com/timewealth/internal/outbox"
)

const uniqueViolation = "23505"

// Repository implements domain.Store on a pgx pool.
type Repository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, now: func() time.Time { return time.Now().UTC() }}
}

// withUserTx runs fn inside a transaction with app.user_id set to userID.
func (r *Repository) withUserTx(ctx context.Context, userID string, fn func(pgx.Tx) error) (err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, "SELECT set_config('app.user_id', $1, true)", userID); err != nil {
		return err
	}
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// AddActivity implements domain.ActivityRepository and enqueues activity.logged.
func (r *Repository) AddActivity(ctx context.Context, userID string, activity domain.Activity) error {
	source := domain.SourceFrom(ctx)
	now := r.now()

	err := r.withUserTx(ctx, userID, func(tx pgx.Tx) error {
		const insert = `INSERT INTO activities (activity_id, user_id, name, activity_date, start_time, end_time, duration_min, value_tags, source, created_at)
            VALUES ($1,$2,$3,$4::date,$5,$6,$7,$8,$9,$10)`

		if _, err := tx.Exec(ctx, insert,
			activity.ID,
			userID,
			activity.Name,
			activity.Date,
			activity.StartTime,
			activity.EndTime,
			activity.Duration,
			valueStrings(activity.Values),
			source,
			now,
		); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return fmt.Errorf("%w: %s", domain.ErrDuplicateActivity, activity.ID)
			}
			return err
		}

		payload := events.ActivityLogged{
			ActivityID:  activity.ID,
			UserID:      userID,
			Name:        activity.Name,
			Date:        activity.Date,
			StartTime:   activity.StartTime,
			DurationMin: activity.Duration,
			Values:      valueStrings(activity.Values),
			Source:      source,
			OccurredAt:  now,
		}
		if activity.EndTime != nil {
			payload.EndTime = *activity.EndTime
		}
		return outbox.Enqueue(ctx, tx, outbox.Event{
			UserID:        userID,
			AggregateType: "activity",
			AggregateID:   activity.ID,
			EventType:     events.TypeActivityLogged,
			DedupeKey:     fmt.Sprintf("%s:%s:%s", userID, activity.ID, events.TypeActivityLogged),
			Payload:       payload,
		})
	})
	if err != nil {
		return err
	}
	observability.RecordActivityPersisted(now)
	return nil
}

// DeleteActivity implements domain.ActivityRepository and enqueues
// activity.deleted when a row was removed.
func (r *Repository) DeleteActivity(ctx context.Context, userID, activityID string) (bool, error) {
	removed := false
	err := r.withUserTx(ctx, userID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM activities WHERE user_id=$1 AND activity_id=$2`, userID, activityID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		removed = true
		return outbox.Enqueue(ctx, tx, outbox.Event{
			UserID:        userID,
			AggregateType: "activity",
			AggregateID:   activityID,
			EventType:     events.TypeActivityDeleted,
			DedupeKey:     fmt.Sprintf("%s:%s:%s", userID, activityID, events.TypeActivityDeleted),
			Payload: events.ActivityDeleted{
				ActivityID: activityID,
				UserID:     userID,
				OccurredAt: r.now(),
			},
		})
	})
	return removed, err
}

const selectActivities = `SELECT activity_id, name, activity_date, start_time, end_time, duration_min, value_tags
    FROM activities WHERE user_id=$1`

// ListActivities implements domain.ActivityRepository.
func (r *Repository) ListActivities(ctx context.Context, userID string) ([]domain.Activity, error) {
	return r.queryActivities(ctx, userID, selectActivities+` ORDER BY activity_date, start_time, activity_id`, userID)
}

// ListActivitiesByDate implements domain.ActivityRepository.
func (r *Repository) ListActivitiesByDate(ctx context.Context, userID, date string) ([]domain.Activity, error) {
	return r.queryActivities(ctx, userID,
		selectActivities+` AND activity_date = $2::date ORDER BY start_time, activity_id`,
		userID, date)
}

// ListActivitiesByDateRange implements domain.ActivityRepository. Both bounds are inclusive.
func (r *Repository) ListActivitiesByDateRange(ctx context.Context, userID, startDate, endDate string) ([]domain.Activity, error) {
	return r.queryActivities(ctx, userID,
		selectActivities+` AND activity_date BETWEEN $2::date AND $3::date ORDER BY activity_date, start_time, activity_id`,
		userID, startDate, endDate)
}

func (r *Repository) queryActivities(ctx context.Context, userID, query string, args ...any) ([]domain.Activity, error) {
	var out []domain.Activity
	err := r.withUserTx(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, scanActivity)
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Activity{}
	}
	return out, nil
}

func scanActivity(row pgx.CollectableRow) (domain.Activity, error) {
	var (
		a    domain.Activity
		date time.Time
		tags []string
	)
	if err := row.Scan(&a.ID, &a.Name, &date, &a.StartTime, &a.EndTime, &a.Duration, &tags); err != nil {
		return domain.Activity{}, err
	}
	a.Date = domain.FormatDate(date)
	a.Values = make([]domain.ValueName, 0, len(tags))
	for _, tag := range tags {
		a.Values = append(a.Values, domain.ValueName(tag))
	}
	return a, nil
}

// GetProfile implements domain.ProfileRepository. It returns nil, nil when
// the user has not onboarded.
func (r *Repository) GetProfile(ctx context.Context, userID string) (*domain.ValueProfile, error) {
	var profile *domain.ValueProfile
	err := r.withUserTx(ctx, userID, func(tx pgx.Tx) error {
		var (
			names       []string
			priorities  []byte
			definitions []byte
		)
		err := tx.QueryRow(ctx,
			`SELECT value_names, priorities, definitions FROM value_profiles WHERE user_id=$1`,
			userID,
		).Scan(&names, &priorities, &definitions)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		var (
			weights map[domain.ValueName]float64
			labels  map[domain.ValueName][]string
		)
		if err := json.Unmarshal(priorities, &weights); err != nil {
			return fmt.Errorf("decode priorities: %w", err)
		}
		if err := json.Unmarshal(definitions, &labels); err != nil {
			return fmt.Errorf("decode definitions: %w", err)
		}
		values, err := domain.ValueNames(names)
		if err != nil {
			return err
		}
		profile, err = domain.NewValueProfile(values, weights, labels)
		return err
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// SaveProfile implements domain.ProfileRepository as an upsert and enqueues
// profile.updated.
func (r *Repository) SaveProfile(ctx context.Context, userID string, profile domain.ValueProfile) error {
	priorities, err := json.Marshal(profile.Priorities)
	if err != nil {
		return err
	}
	definitions, err := json.Marshal(profile.Definitions)
	if err != nil {
		return err
	}
	now := r.now()

	err = r.withUserTx(ctx, userID, func(tx pgx.Tx) error {
		const upsert = `INSERT INTO value_profiles (user_id, value_names, priorities, definitions, updated_at)
            VALUES ($1,$2,$3,$4,$5)
            ON CONFLICT (user_id) DO UPDATE
            SET value_names = EXCLUDED.value_names,
                priorities = EXCLUDED.priorities,
                definitions = EXCLUDED.definitions,
                updated_at = EXCLUDED.updated_at`

		if _, err := tx.Exec(ctx, upsert, userID, valueStrings(profile.Values), priorities, definitions, now); err != nil {
			return err
		}

		payload := events.ProfileUpdated{
			UserID:      userID,
			Values:      valueStrings(profile.Values),
			Priorities:  make(map[string]float64, len(profile.Priorities)),
			Definitions: make(map[string][]string, len(profile.Definitions)),
			OccurredAt:  now,
		}
		for k, v := range profile.Priorities {
			payload.Priorities[string(k)] = v
		}
		for k, v := range profile.Definitions {
			payload.Definitions[string(k)] = v
		}
		return outbox.Enqueue(ctx, tx, outbox.Event{
			UserID:        userID,
			AggregateType: "value_profile",
			AggregateID:   userID,
			EventType:     events.TypeProfileUpdated,
			Payload:       payload,
		})
	})
	if err != nil {
		return err
	}
	observability.RecordProfileSaved(now)
	return nil
}

func valueStrings(values []domain.ValueName) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, string(v))
	}
	return out
}
