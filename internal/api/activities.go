package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"example.com/timewealth/internal/auth"
	"example.com/timewealth/internal/domain"
	"example.com/timewealth/internal/tracker"
)

// CreateActivityRequest is the payload for POST /v1/activities. A request
// carrying started_at is a stopped timer; otherwise date, start_time and
// either end_time or duration_min describe a manual entry. When both are
// sent they must agree.
type CreateActivityRequest struct {
	Name        string     `json:"name"`
	Values      []string   `json:"values"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	Date        string     `json:"date,omitempty"`
	StartTime   string     `json:"start_time,omitempty"`
	EndTime     *string    `json:"end_time,omitempty"`
	DurationMin int        `json:"duration_min,omitempty"`
}

// Validate ensures request correctness.
func (r CreateActivityRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if len(r.Values) == 0 {
		return errors.New("values must not be empty")
	}
	if r.StartedAt == nil {
		if r.Date == "" || r.StartTime == "" {
			return errors.New("started_at or date and start_time are required")
		}
		if r.EndedAt != nil {
			return errors.New("ended_at requires started_at")
		}
	}
	return nil
}

// ListActivitiesResponse packages list results.
type ListActivitiesResponse struct {
	Items []domain.Activity `json:"items"`
}

// ImportRequest is the payload for POST /v1/activities/import.
type ImportRequest struct {
	Events []domain.CalendarEvent `json:"events"`
}

// ImportResponse reports which events became activities.
type ImportResponse struct {
	Imported []domain.Activity `json:"imported"`
	Skipped  int               `json:"skipped"`
}

func (h *Handler) createActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := authorize(w, r, auth.ScopeActivitiesWrite)
	if !ok {
		return
	}

	var req CreateActivityRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	values, err := domain.ValueNames(req.Values)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	var activity *domain.Activity
	if req.StartedAt != nil {
		input := tracker.TrackedActivityInput{Name: req.Name, Values: values, StartedAt: *req.StartedAt}
		if req.EndedAt != nil {
			input.EndedAt = *req.EndedAt
		}
		activity, err = h.service.LogTrackedActivity(r.Context(), userID, input)
	} else {
		activity, err = h.service.LogActivity(r.Context(), userID, tracker.ActivityInput{
			Name:      req.Name,
			Date:      req.Date,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Duration:  req.DurationMin,
			Values:    values,
		})
	}
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, activity)
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	userID, ok := authorize(w, r, auth.ScopeActivitiesRead, auth.ScopeActivitiesWrite)
	if !ok {
		return
	}

	q := r.URL.Query()
	items, err := h.service.ListActivities(r.Context(), userID, tracker.ListFilter{
		Date:  q.Get("date"),
		Start: q.Get("start"),
		End:   q.Get("end"),
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListActivitiesResponse{Items: items})
}

func (h *Handler) activityLog(w http.ResponseWriter, r *http.Request) {
	userID, ok := authorize(w, r, auth.ScopeActivitiesRead, auth.ScopeActivitiesWrite)
	if !ok {
		return
	}

	q := r.URL.Query()
	log, err := h.service.ActivityLog(r.Context(), userID, q.Get("date"), domain.ValueName(strings.TrimSpace(q.Get("value"))))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

func (h *Handler) importCalendar(w http.ResponseWriter, r *http.Request) {
	userID, ok := authorize(w, r, auth.ScopeActivitiesWrite)
	if !ok {
		return
	}

	var req ImportRequest
	if !decode(w, r, &req) {
		return
	}
	imported, err := h.service.ImportCalendarEvents(r.Context(), userID, req.Events)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{Imported: imported, Skipped: len(req.Events) - len(imported)})
}

func (h *Handler) deleteActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := authorize(w, r, auth.ScopeActivitiesWrite)
	if !ok {
		return
	}

	if err := h.service.DeleteActivity(r.Context(), userID, r.PathValue("id")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
