package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"example.com/timewealth/internal/events"
)

// Topics the service publishes to.
const (
	TopicActivityEvents = "activity_events"
	TopicProfileEvents  = "profile_events"
)

// Route describes where an event type is published and the schema it is
// registered under.
type Route struct {
	Topic         string
	SchemaSubject string
	Schema        string
}

var routes = map[string]Route{
	events.TypeActivityLogged: {
		Topic:         TopicActivityEvents,
		SchemaSubject: TopicActivityEvents + "-activity.logged",
		Schema:        activityLoggedSchema,
	},
	events.TypeActivityDeleted: {
		Topic:         TopicActivityEvents,
		SchemaSubject: TopicActivityEvents + "-activity.deleted",
		Schema:        activityDeletedSchema,
	},
	events.TypeProfileUpdated: {
		Topic:         TopicProfileEvents,
		SchemaSubject: TopicProfileEvents + "-value",
		Schema:        profileUpdatedSchema,
	},
}

// RouteFor returns the routing metadata for eventType.
func RouteFor(eventType string) (Route, bool) {
	r, ok := routes[eventType]
	return r, ok
}

// Event is a domain event waiting to be written to the outbox table.
type Event struct {
	UserID        string
	AggregateType string
	AggregateID   string
	EventType     string
	// DedupeKey is optional; events sharing a key are stored once.
	DedupeKey string
	Payload   any
}

// Enqueue inserts ev into the outbox inside the caller's transaction so the
// event commits or rolls back with the mutation that produced it. Events are
// keyed by user so a user's history stays ordered within a partition.
func Enqueue(ctx context.Context, tx pgx.Tx, ev Event) error {
	route, ok := RouteFor(ev.EventType)
	if !ok {
		return fmt.Errorf("unknown event type: %s", ev.EventType)
	}

	body, err := json.Marshal(ev.Payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", ev.EventType, err)
	}

	const stmt = `INSERT INTO outbox (user_id, aggregate_type, aggregate_id, event_type, topic, schema_subject, partition_key, payload, dedupe_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (dedupe_key) DO NOTHING`

	_, err = tx.Exec(ctx, stmt,
		ev.UserID,
		ev.AggregateType,
		ev.AggregateID,
		ev.EventType,
		route.Topic,
		route.SchemaSubject,
		ev.UserID,
		body,
		nullIfEmpty(ev.DedupeKey),
	)
	return err
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
