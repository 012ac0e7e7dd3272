package api

import (
	"context"
	"net/http"

	"example.com/timewealth/internal/auth"
	"example.com/timewealth/internal/domain"
	"example.com/timewealth/internal/insights"
)

// OnboardRequest is the payload for POST /v1/profile/onboard.
type OnboardRequest struct {
	Values []string `json:"values"`
}

// PriorityRequest is the payload for PATCH /v1/profile/priorities.
type PriorityRequest struct {
	Value    string   `json:"value"`
	Priority *float64 `json:"priority"`
}

// DefinitionRequest adds or removes one activity label.
type DefinitionRequest struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := authorize(w, r, auth.ScopeProfileRead, auth.ScopeProfileWrite)
	if !ok {
		return
	}
	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) putProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := authorize(w, r, auth.ScopeProfileWrite)
	if !ok {
		return
	}
	var req domain.ValueProfile
	if !decode(w, r, &req) {
		return
	}
	profile, err := h.service.SaveProfile(r.Context(), userID, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) onboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := authorize(w, r, auth.ScopeProfileWrite)
	if !ok {
		return
	}
	var req OnboardRequest
	if !decode(w, r, &req) {
		return
	}
	values, err := domain.ValueNames(req.Values)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	profile, err := h.service.Onboard(r.Context(), userID, values)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

func (h *Handler) updatePriority(w http.ResponseWriter, r *http.Request) {
	userID, ok := authorize(w, r, auth.ScopeProfileWrite)
	if !ok {
		return
	}
	var req PriorityRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Value == "" || req.Priority == nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "value and priority are required")
		return
	}
	profile, err := h.service.UpdatePriority(r.Context(), userID, domain.ValueName(req.Value), *req.Priority)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) resetPriorities(w http.ResponseWriter, r *http.Request) {
	userID, ok := authorize(w, r, auth.ScopeProfileWrite)
	if !ok {
		return
	}
	profile, err := h.service.ResetPriorities(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) addDefinition(w http.ResponseWriter, r *http.Request) {
	h.editDefinition(w, r, h.service.AddDefinition)
}

func (h *Handler) removeDefinition(w http.ResponseWriter, r *http.Request) {
	h.editDefinition(w, r, h.service.RemoveDefinition)
}

type definitionEdit func(ctx context.Context, userID string, value domain.ValueName, label string) (*domain.ValueProfile, error)

func (h *Handler) editDefinition(w http.ResponseWriter, r *http.Request, edit definitionEdit) {
	userID, ok := authorize(w, r, auth.ScopeProfileWrite)
	if !ok {
		return
	}
	var req DefinitionRequest
	if !decode(w, r, &req) {
		return
	}
	profile, err := edit(r.Context(), userID, domain.ValueName(req.Value), req.Label)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) insights(w http.ResponseWriter, r *http.Request) {
	userID, ok := authorize(w, r, auth.ScopeActivitiesRead, auth.ScopeActivitiesWrite)
	if !ok {
		return
	}
	selector := insights.Range(r.URL.Query().Get("range"))
	if selector == "" {
		selector = insights.RangeWeek
	}
	report, err := h.service.Insights(r.Context(), userID, selector)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
