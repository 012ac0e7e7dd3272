// Package observability exposes service-level Prometheus metrics shared by
// the repositories and the tracker.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	activityPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "timewealth",
		Subsystem: "persistence",
		Name:      "last_activity_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent activity persisted to Postgres.",
	})
	profileSavedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "timewealth",
		Subsystem: "persistence",
		Name:      "last_profile_saved_timestamp_seconds",
		Help:      "Unix timestamp of the most recent value profile write.",
	})
	activitiesLogged = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "timewealth",
		Subsystem: "tracker",
		Name:      "activities_logged_total",
		Help:      "Activities accepted by the tracker, by source.",
	}, []string{"source"})
	activitiesDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "timewealth",
		Subsystem: "tracker",
		Name:      "activities_deleted_total",
		Help:      "Activities removed by users.",
	})
	priorityUpdates = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "timewealth",
		Subsystem: "tracker",
		Name:      "priority_updates_total",
		Help:      "Priority edits applied to value profiles, by kind (edit or reset).",
	}, []string{"kind"})
	insightsComputed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "timewealth",
		Subsystem: "insights",
		Name:      "reports_total",
		Help:      "Insight reports computed, by range selector.",
	}, []string{"range"})
	insightsDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "timewealth",
		Subsystem: "insights",
		Name:      "report_duration_seconds",
		Help:      "Time spent loading and aggregating an insight report.",
		Buckets:   prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(
		activityPersistGauge,
		profileSavedGauge,
		activitiesLogged,
		activitiesDeleted,
		priorityUpdates,
		insightsComputed,
		insightsDuration,
	)
}

// RecordActivityPersisted updates the persistence watermark gauge.
func RecordActivityPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	activityPersistGauge.Set(float64(ts.Unix()))
}

// RecordProfileSaved updates the profile watermark gauge.
func RecordProfileSaved(ts time.Time) {
	if ts.IsZero() {
		return
	}
	profileSavedGauge.Set(float64(ts.Unix()))
}

// RecordActivityLogged counts an accepted activity.
func RecordActivityLogged(source string) {
	activitiesLogged.WithLabelValues(source).Inc()
}

// RecordActivityDeleted counts a removed activity.
func RecordActivityDeleted() {
	activitiesDeleted.Inc()
}

// RecordPriorityUpdate counts a priority edit or reset.
func RecordPriorityUpdate(kind string) {
	priorityUpdates.WithLabelValues(kind).Inc()
}

// RecordInsights observes one computed report.
func RecordInsights(selector string, elapsed time.Duration) {
	insightsComputed.WithLabelValues(selector).Inc()
	insightsDuration.Observe(elapsed.Seconds())
}
