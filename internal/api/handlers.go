// Package api exposes HTTP handlers for the timewealth service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"example.com/timewealth/internal/auth"
	"example.com/timewealth/internal/domain"
	"example.com/timewealth/internal/insights"
	"example.com/timewealth/internal/priority"
	"example.com/timewealth/internal/reflection"
	"example.com/timewealth/internal/tracker"
)

const maxBodyBytes = 1 << 20

// Handler coordinates HTTP requests with the tracker service and the
// reflection catalog.
type Handler struct {
	service *tracker.Service
	catalog *reflection.Catalog
	logger  *zap.Logger
}

// NewHandler builds a Handler.
func NewHandler(service *tracker.Service, catalog *reflection.Catalog, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, catalog: catalog, logger: logger}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/activities", h.listActivities)
	mux.HandleFunc("POST /v1/activities", h.createActivity)
	mux.HandleFunc("GET /v1/activities/log", h.activityLog)
	mux.HandleFunc("POST /v1/activities/import", h.importCalendar)
	mux.HandleFunc("DELETE /v1/activities/{id}", h.deleteActivity)

	mux.HandleFunc("GET /v1/profile", h.getProfile)
	mux.HandleFunc("PUT /v1/profile", h.putProfile)
	mux.HandleFunc("POST /v1/profile/onboard", h.onboard)
	mux.HandleFunc("PATCH /v1/profile/priorities", h.updatePriority)
	mux.HandleFunc("POST /v1/profile/priorities/reset", h.resetPriorities)
	mux.HandleFunc("POST /v1/profile/definitions", h.addDefinition)
	mux.HandleFunc("DELETE /v1/profile/definitions", h.removeDefinition)

	mux.HandleFunc("GET /v1/insights", h.insights)

	mux.HandleFunc("GET /v1/reflection/questions", h.questions)
	mux.HandleFunc("POST /v1/reflection/score", h.score)
	mux.HandleFunc("GET /v1/strategies", h.strategies)
	mux.HandleFunc("POST /v1/strategies/audit", h.audit)
	mux.HandleFunc("POST /v1/strategies/visits", h.visits)

	mux.HandleFunc("GET /healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// authorize returns the caller's user id when any of scopes was granted.
// Write scopes imply read access at the call sites that list both.
func authorize(w http.ResponseWriter, r *http.Request, scopes ...string) (string, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return "", false
	}
	if !claims.HasAnyScope(scopes...) {
		writeError(w, http.StatusForbidden, "forbidden", "scope "+scopes[0]+" required")
		return "", false
	}
	return claims.Subject, true
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return false
	}
	return true
}

// writeServiceError maps domain sentinels onto problem responses.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "profile_not_found", err.Error())
	case errors.Is(err, domain.ErrActivityNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrDuplicateActivity):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, insights.ErrMissingProfile):
		writeError(w, http.StatusNotFound, "profile_not_found", err.Error())
	case errors.Is(err, domain.ErrMalformedActivity),
		errors.Is(err, domain.ErrMissingName),
		errors.Is(err, domain.ErrNoValuesSelected),
		errors.Is(err, domain.ErrInvalidValueName),
		errors.Is(err, domain.ErrDuplicateValue),
		errors.Is(err, domain.ErrUnknownValue),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrEmptyDefinition),
		errors.Is(err, priority.ErrNegativeWeight),
		errors.Is(err, priority.ErrNoValues),
		errors.Is(err, tracker.ErrInvalidFilter),
		errors.Is(err, reflection.ErrUnknownQuestion),
		errors.Is(err, reflection.ErrInvalidAnswer),
		errors.Is(err, reflection.ErrInvalidRating):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		h.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
