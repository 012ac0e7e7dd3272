package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestWatermarksIgnoreZeroTime(t *testing.T) {
	ts := time.Date(2024, time.June, 5, 12, 0, 0, 0, time.UTC)

	RecordActivityPersisted(ts)
	RecordActivityPersisted(time.Time{})
	require.Equal(t, float64(ts.Unix()), testutil.ToFloat64(activityPersistGauge))

	RecordProfileSaved(ts)
	RecordProfileSaved(time.Time{})
	require.Equal(t, float64(ts.Unix()), testutil.ToFloat64(profileSavedGauge))
}

func TestTrackerCounters(t *testing.T) {
	before := testutil.ToFloat64(activitiesLogged.WithLabelValues("manual"))
	RecordActivityLogged("manual")
	require.Equal(t, before+1, testutil.ToFloat64(activitiesLogged.WithLabelValues("manual")))

	resets := testutil.ToFloat64(priorityUpdates.WithLabelValues("reset"))
	RecordPriorityUpdate("reset")
	require.Equal(t, resets+1, testutil.ToFloat64(priorityUpdates.WithLabelValues("reset")))

	reports := testutil.ToFloat64(insightsComputed.WithLabelValues("week"))
	RecordInsights("week", 3*time.Millisecond)
	require.Equal(t, reports+1, testutil.ToFloat64(insightsComputed.WithLabelValues("week")))
}
