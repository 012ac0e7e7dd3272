//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"example.com/timewealth/internal/domain"
	"example.com/timewealth/internal/events"
	"example.com/timewealth/internal/testsupport"
)

func TestRepositoryRespectsUserIsolation(t *testing.T) {
	ctx := context.Background()
	pool := testsupport.StartPostgres(ctx, t)
	repo := NewRepository(pool)

	userID := uuid.NewString()
	end := "10:15"
	activity := domain.Activity{
		ID:        uuid.NewString(),
		Name:      "Morning run",
		StartTime: "09:30",
		EndTime:   &end,
		Duration:  45,
		Values:    []domain.ValueName{"Health", "Personal Growth"},
		Date:      "2024-06-03",
	}

	require.NoError(t, repo.AddActivity(ctx, userID, activity))
	require.ErrorIs(t, repo.AddActivity(ctx, userID, activity), domain.ErrDuplicateActivity)

	stored, err := repo.ListActivities(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, []domain.Activity{activity}, stored)

	other, err := repo.ListActivities(ctx, uuid.NewString())
	require.NoError(t, err)
	require.Empty(t, other, "activities are scoped to their owner")

	require.Equal(t, 1, countOutbox(t, ctx, pool, userID, events.TypeActivityLogged), "duplicate insert rolled back its event")
}

func TestRepositoryDateQueries(t *testing.T) {
	ctx := context.Background()
	pool := testsupport.StartPostgres(ctx, t)
	repo := NewRepository(pool)
	userID := uuid.NewString()

	for i, date := range []string{"2024-05-31", "2024-06-01", "2024-06-01", "2024-06-03"} {
		require.NoError(t, repo.AddActivity(ctx, userID, domain.Activity{
			ID:        uuid.NewString(),
			Name:      "Reading",
			StartTime: []string{"08:00", "21:00", "07:00", "12:00"}[i],
			Duration:  20,
			Values:    []domain.ValueName{"Learning"},
			Date:      date,
		}))
	}

	day, err := repo.ListActivitiesByDate(ctx, userID, "2024-06-01")
	require.NoError(t, err)
	require.Len(t, day, 2)
	require.Equal(t, "07:00", day[0].StartTime)
	require.Nil(t, day[0].EndTime)

	window, err := repo.ListActivitiesByDateRange(ctx, userID, "2024-06-01", "2024-06-03")
	require.NoError(t, err)
	require.Len(t, window, 3)
	require.Equal(t, "2024-06-03", window[2].Date)
}

func TestRepositoryDeleteEnqueuesEvent(t *testing.T) {
	ctx := context.Background()
	pool := testsupport.StartPostgres(ctx, t)
	repo := NewRepository(pool)
	userID := uuid.NewString()
	id := uuid.NewString()

	require.NoError(t, repo.AddActivity(domain.WithSource(ctx, domain.SourceCalendar), userID, domain.Activity{
		ID: id, Name: "Standup", StartTime: "09:00", Duration: 15, Values: []domain.ValueName{}, Date: "2024-06-03",
	}))

	var source string
	require.NoError(t, pool.QueryRow(ctx, `SELECT source FROM activities WHERE activity_id=$1`, id).Scan(&source))
	require.Equal(t, domain.SourceCalendar, source)

	removed, err := repo.DeleteActivity(ctx, uuid.NewString(), id)
	require.NoError(t, err)
	require.False(t, removed, "other users cannot delete")

	removed, err = repo.DeleteActivity(ctx, userID, id)
	require.NoError(t, err)
	require.True(t, removed)
	require.Equal(t, 1, countOutbox(t, ctx, pool, userID, events.TypeActivityDeleted))

	removed, err = repo.DeleteActivity(ctx, userID, id)
	require.NoError(t, err)
	require.False(t, removed)
}

func TestRepositoryProfileUpsert(t *testing.T) {
	ctx := context.Background()
	pool := testsupport.StartPostgres(ctx, t)
	repo := NewRepository(pool)
	userID := uuid.NewString()

	missing, err := repo.GetProfile(ctx, userID)
	require.NoError(t, err)
	require.Nil(t, missing)

	profile, err := domain.NewOnboardedProfile([]domain.ValueName{"Family", "Health", "Learning"})
	require.NoError(t, err)
	require.NoError(t, repo.SaveProfile(ctx, userID, *profile))

	require.NoError(t, profile.AddDefinition("Health", "Evening walk"))
	profile.Priorities["Family"] = 50
	require.NoError(t, repo.SaveProfile(ctx, userID, *profile))

	stored, err := repo.GetProfile(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, profile.Values, stored.Values, "value order survives the round trip")
	require.Equal(t, float64(50), stored.Priority("Family"))
	require.Contains(t, stored.Definitions["Health"], "Evening walk")

	require.Equal(t, 2, countOutbox(t, ctx, pool, userID, events.TypeProfileUpdated))
}

func countOutbox(t *testing.T, ctx context.Context, pool *pgxpool.Pool, userID, eventType string) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM outbox WHERE user_id=$1 AND event_type=$2`, userID, eventType,
	).Scan(&n))
	return n
}
