package api

import (
	"net/http"

	"example.com/timewealth/internal/auth"
	"example.com/timewealth/internal/reflection"
)

// QuestionsResponse lists both survey phases.
type QuestionsResponse struct {
	Primary  []reflection.Question `json:"primary"`
	FollowUp []reflection.Question `json:"follow_up"`
}

// ScoreRequest is the payload for POST /v1/reflection/score.
type ScoreRequest struct {
	Answers map[reflection.QuestionID]string `json:"answers"`
}

// ScoreResponse pairs the result with the strategies recommended for it.
type ScoreResponse struct {
	reflection.Result
	Strategies []reflection.Strategy `json:"strategies"`
}

// StrategiesResponse lists strategies, flagged for the requested persona.
type StrategiesResponse struct {
	Persona    *reflection.Persona   `json:"persona,omitempty"`
	Strategies []reflection.Strategy `json:"strategies"`
}

// AuditRequest carries the weekly time audit. An empty entry list audits
// the catalog defaults.
type AuditRequest struct {
	Entries []reflection.AuditEntry `json:"entries"`
}

// AuditResponse returns the computed audit next to the audited entries.
type AuditResponse struct {
	reflection.Audit
	Entries []reflection.AuditEntry `json:"entries"`
}

// VisitsRequest lists the loved ones to estimate.
type VisitsRequest struct {
	LovedOnes []reflection.LovedOne `json:"loved_ones"`
}

// VisitEstimate is one loved one's remaining time.
type VisitEstimate struct {
	reflection.LovedOne
	reflection.Visits
}

// authenticated admits any caller holding a valid token.
func authenticated(w http.ResponseWriter, r *http.Request) bool {
	if _, ok := auth.FromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return false
	}
	return true
}

func (h *Handler) questions(w http.ResponseWriter, r *http.Request) {
	if !authenticated(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, QuestionsResponse{
		Primary:  h.catalog.Questions.Primary,
		FollowUp: h.catalog.Questions.FollowUp,
	})
}

func (h *Handler) score(w http.ResponseWriter, r *http.Request) {
	if !authenticated(w, r) {
		return
	}
	var req ScoreRequest
	if !decode(w, r, &req) {
		return
	}
	result, err := h.catalog.Evaluate(req.Answers)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ScoreResponse{
		Result:     result,
		Strategies: h.catalog.StrategiesFor(result.Persona.ID),
	})
}

func (h *Handler) strategies(w http.ResponseWriter, r *http.Request) {
	if !authenticated(w, r) {
		return
	}
	personaID := r.URL.Query().Get("persona")
	resp := StrategiesResponse{Strategies: h.catalog.StrategiesFor(personaID)}
	if personaID != "" {
		persona, ok := h.catalog.Persona(personaID)
		if !ok {
			writeError(w, http.StatusNotFound, "not_found", "unknown persona "+personaID)
			return
		}
		resp.Persona = &persona
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) audit(w http.ResponseWriter, r *http.Request) {
	if !authenticated(w, r) {
		return
	}
	var req AuditRequest
	if !decode(w, r, &req) {
		return
	}
	entries := req.Entries
	if len(entries) == 0 {
		entries = h.catalog.DefaultAuditEntries()
	}
	result, err := reflection.AuditTimeWealth(entries)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuditResponse{Audit: result, Entries: entries})
}

func (h *Handler) visits(w http.ResponseWriter, r *http.Request) {
	if !authenticated(w, r) {
		return
	}
	var req VisitsRequest
	if !decode(w, r, &req) {
		return
	}
	out := make([]VisitEstimate, 0, len(req.LovedOnes))
	for _, l := range req.LovedOnes {
		out = append(out, VisitEstimate{LovedOne: l, Visits: reflection.RemainingVisits(l)})
	}
	writeJSON(w, http.StatusOK, out)
}
