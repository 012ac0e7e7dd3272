package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"example.com/timewealth/internal/domain"
	"example.com/timewealth/internal/events"
)

// CalendarImporter turns calendar events into activities for a user.
type CalendarImporter interface {
	ImportCalendarEvents(ctx context.Context, userID string, evs []domain.CalendarEvent) ([]domain.Activity, error)
}

// Router imports calendar events as activities and hands every other event
// to the fallback handler.
type Router struct {
	importer CalendarImporter
	fallback Handler
}

// NewRouter constructs a Router.
func NewRouter(importer CalendarImporter, fallback Handler) *Router {
	return &Router{importer: importer, fallback: fallback}
}

// Handle dispatches msg by event type.
func (r *Router) Handle(ctx context.Context, msg Message) error {
	if msg.EventType != events.TypeCalendarEventReceived {
		return r.fallback.Handle(ctx, msg)
	}

	var payload events.CalendarEventReceived
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("decode %s: %w", msg.EventType, err)
	}

	userID := payload.UserID
	if userID == "" {
		userID = msg.UserID
	}
	if userID == "" {
		return fmt.Errorf("%s at offset %d has no user id", msg.EventType, msg.Offset)
	}

	stored, err := r.importer.ImportCalendarEvents(ctx, userID, []domain.CalendarEvent{{
		ID:         payload.EventID,
		Title:      payload.Title,
		Start:      payload.Start,
		End:        payload.End,
		CalendarID: payload.CalendarID,
	}})
	if err != nil {
		return err
	}
	recordCalendarImport(len(stored) > 0)
	return nil
}
