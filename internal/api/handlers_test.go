package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"example.com/timewealth/internal/auth"
	"example.com/timewealth/internal/domain"
	"example.com/timewealth/internal/insights"
	"example.com/timewealth/internal/persistence/memory"
	"example.com/timewealth/internal/reflection"
	"example.com/timewealth/internal/tracker"
)

var allScopes = []string{
	auth.ScopeActivitiesRead, auth.ScopeActivitiesWrite,
	auth.ScopeProfileRead, auth.ScopeProfileWrite,
}

type harness struct {
	t   *testing.T
	mux *http.ServeMux
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	now := time.Date(2024, time.June, 5, 18, 0, 0, 0, time.UTC)
	service := tracker.NewService(memory.NewStore(),
		tracker.WithClock(func() time.Time { return now }),
		tracker.WithLogger(zaptest.NewLogger(t)),
	)
	mux := http.NewServeMux()
	NewHandler(service, reflection.MustDefaultCatalog(), zaptest.NewLogger(t)).RegisterRoutes(mux)
	return &harness{t: t, mux: mux}
}

func (h *harness) do(method, path string, body any, user string, scopes ...string) *httptest.ResponseRecorder {
	h.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if user != "" {
		set := make(map[string]struct{}, len(scopes))
		for _, s := range scopes {
			set[s] = struct{}{}
		}
		req = req.WithContext(auth.WithClaims(req.Context(), &auth.Claims{Subject: user, Scopes: set}))
	}
	rec := httptest.NewRecorder()
	h.mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (h *harness) onboard(user string) {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/v1/profile/onboard", OnboardRequest{Values: []string{"Family", "Health"}}, user, allScopes...)
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestRequiresClaimsAndScopes(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/v1/profile", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(http.MethodPut, "/v1/profile", domain.ValueProfile{}, "u", auth.ScopeProfileRead)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "forbidden", decodeBody[map[string]string](t, rec)["type"])

	rec = h.do(http.MethodGet, "/healthz", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestProfileLifecycle(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/v1/profile", nil, "u", auth.ScopeProfileRead)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "profile_not_found", decodeBody[map[string]string](t, rec)["type"])

	rec = h.do(http.MethodPost, "/v1/profile/onboard", OnboardRequest{}, "u", auth.ScopeProfileWrite)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	h.onboard("u")

	weight := 80.0
	rec = h.do(http.MethodPatch, "/v1/profile/priorities", PriorityRequest{Value: "Family", Priority: &weight}, "u", auth.ScopeProfileWrite)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	profile := decodeBody[domain.ValueProfile](t, rec)
	require.Equal(t, float64(62), profile.Priority("Family"))
	require.Equal(t, float64(38), profile.Priority("Health"))

	rec = h.do(http.MethodPatch, "/v1/profile/priorities", PriorityRequest{Value: "Family"}, "u", auth.ScopeProfileWrite)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPost, "/v1/profile/priorities/reset", nil, "u", auth.ScopeProfileWrite)
	require.Equal(t, http.StatusOK, rec.Code)
	reset := decodeBody[domain.ValueProfile](t, rec)
	require.Equal(t, float64(50), reset.Priority("Health"))

	rec = h.do(http.MethodPost, "/v1/profile/definitions", DefinitionRequest{Value: "Health", Label: "Swim"}, "u", auth.ScopeProfileWrite)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, decodeBody[domain.ValueProfile](t, rec).Definitions["Health"], "Swim")

	rec = h.do(http.MethodDelete, "/v1/profile/definitions", DefinitionRequest{Value: "Health", Label: "Swim"}, "u", auth.ScopeProfileWrite)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, decodeBody[domain.ValueProfile](t, rec).Definitions["Health"], "Swim")

	rec = h.do(http.MethodPost, "/v1/profile/definitions", DefinitionRequest{Value: "Career", Label: "Ship"}, "u", auth.ScopeProfileWrite)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPut, "/v1/profile", domain.ValueProfile{
		Values:     []domain.ValueName{"Family"},
		Priorities: map[domain.ValueName]float64{"Family": 100},
	}, "u", auth.ScopeProfileWrite)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodGet, "/v1/profile", nil, "u", auth.ScopeProfileRead)
	require.Equal(t, []domain.ValueName{"Family"}, decodeBody[domain.ValueProfile](t, rec).Values)
}

func TestActivityEndpoints(t *testing.T) {
	h := newHarness(t)
	h.onboard("u")

	started := time.Date(2024, time.June, 5, 17, 15, 0, 0, time.UTC)
	rec := h.do(http.MethodPost, "/v1/activities", CreateActivityRequest{
		Name: "Evening run", Values: []string{"Health"}, StartedAt: &started,
	}, "u", auth.ScopeActivitiesWrite)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tracked := decodeBody[domain.Activity](t, rec)
	require.Equal(t, 45, tracked.Duration)
	require.Equal(t, "18:00", *tracked.EndTime)

	rec = h.do(http.MethodPost, "/v1/activities", CreateActivityRequest{
		Name: "Dinner", Values: []string{"Family", "Health"}, Date: "2024-06-05", StartTime: "19:00", DurationMin: 60,
	}, "u", auth.ScopeActivitiesWrite)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = h.do(http.MethodPost, "/v1/activities", CreateActivityRequest{Name: "Nap", Values: []string{"Health"}}, "u", auth.ScopeActivitiesWrite)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	end := "10:30"
	rec = h.do(http.MethodPost, "/v1/activities", CreateActivityRequest{
		Name: "Hike", Values: []string{"Health"}, Date: "2024-06-04", StartTime: "08:00", EndTime: &end,
	}, "u", auth.ScopeActivitiesWrite)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Equal(t, 150, decodeBody[domain.Activity](t, rec).Duration)

	rec = h.do(http.MethodPost, "/v1/activities", CreateActivityRequest{
		Name: "Hike", Values: []string{"Health"}, Date: "2024-06-04", StartTime: "08:00", EndTime: &end, DurationMin: 5,
	}, "u", auth.ScopeActivitiesWrite)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPost, "/v1/activities", CreateActivityRequest{
		Name: "Golf", Values: []string{"Career"}, Date: "2024-06-05", StartTime: "07:00", DurationMin: 60,
	}, "u", auth.ScopeActivitiesWrite)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodGet, "/v1/activities?date=2024-06-05", nil, "u", auth.ScopeActivitiesRead)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeBody[ListActivitiesResponse](t, rec).Items, 2)

	rec = h.do(http.MethodGet, "/v1/activities?start=2024-06-05", nil, "u", auth.ScopeActivitiesRead)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodGet, "/v1/activities/log?value=Family", nil, "u", auth.ScopeActivitiesRead)
	require.Equal(t, http.StatusOK, rec.Code)
	log := decodeBody[insights.DayLog](t, rec)
	require.Len(t, log.Activities, 1)
	require.Equal(t, 105, log.TotalMinutes)

	rec = h.do(http.MethodGet, "/v1/insights?range=day", nil, "u", auth.ScopeActivitiesRead)
	require.Equal(t, http.StatusOK, rec.Code)
	report := decodeBody[insights.Report](t, rec)
	require.Equal(t, 105, report.TotalMinutes)
	require.Equal(t, domain.ValueName("Health"), report.Stats[0].Value)
	require.Equal(t, 100, report.Stats[0].ActualPercentage)

	rec = h.do(http.MethodDelete, "/v1/activities/"+tracked.ID, nil, "u", auth.ScopeActivitiesWrite)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = h.do(http.MethodDelete, "/v1/activities/"+tracked.ID, nil, "u", auth.ScopeActivitiesWrite)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestImportCalendarEvents(t *testing.T) {
	h := newHarness(t)
	start := time.Date(2024, time.June, 5, 9, 0, 0, 0, time.UTC)
	req := ImportRequest{Events: []domain.CalendarEvent{
		{ID: "evt-1", Title: "Standup", Start: start, End: start.Add(15 * time.Minute)},
	}}

	rec := h.do(http.MethodPost, "/v1/activities/import", req, "u", auth.ScopeActivitiesWrite)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, decodeBody[ImportResponse](t, rec).Imported, 1)

	rec = h.do(http.MethodPost, "/v1/activities/import", req, "u", auth.ScopeActivitiesWrite)
	resp := decodeBody[ImportResponse](t, rec)
	require.Empty(t, resp.Imported)
	require.Equal(t, 1, resp.Skipped)
}

func TestInsightsWithoutProfile(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/v1/insights", nil, "u", auth.ScopeActivitiesRead)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReflectionEndpoints(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/v1/reflection/questions", nil, "u")
	require.Equal(t, http.StatusOK, rec.Code)
	questions := decodeBody[QuestionsResponse](t, rec)
	require.NotEmpty(t, questions.Primary)
	require.NotEmpty(t, questions.FollowUp)

	answers := make(map[reflection.QuestionID]string)
	for _, q := range questions.Primary {
		answers[q.ID] = reflection.StronglyAgree
	}
	rec = h.do(http.MethodPost, "/v1/reflection/score", ScoreRequest{Answers: answers}, "u")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	score := decodeBody[ScoreResponse](t, rec)
	require.Equal(t, 5*len(questions.Primary), score.Score)
	require.False(t, score.NeedsFollowUp)
	require.NotEmpty(t, score.Strategies)

	rec = h.do(http.MethodPost, "/v1/reflection/score", ScoreRequest{Answers: map[reflection.QuestionID]string{"nope": reflection.Yes}}, "u")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodGet, "/v1/strategies?persona=time-master", nil, "u")
	require.Equal(t, http.StatusOK, rec.Code)
	strategies := decodeBody[StrategiesResponse](t, rec)
	require.Equal(t, "time-master", strategies.Persona.ID)

	rec = h.do(http.MethodGet, "/v1/strategies?persona=unknown", nil, "u")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(http.MethodPost, "/v1/strategies/audit", AuditRequest{Entries: []reflection.AuditEntry{
		{ID: "work", Name: "Work", Hours: 30, Rating: reflection.RatingHigh},
		{ID: "tv", Name: "TV", Hours: 10, Rating: reflection.RatingLow},
	}}, "u")
	require.Equal(t, http.StatusOK, rec.Code)
	audit := decodeBody[AuditResponse](t, rec)
	require.Equal(t, 75, audit.Score)
	require.Equal(t, float64(128), audit.RemainingHours)

	rec = h.do(http.MethodPost, "/v1/strategies/audit", AuditRequest{}, "u")
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, decodeBody[AuditResponse](t, rec).HasData)

	rec = h.do(http.MethodPost, "/v1/strategies/visits", VisitsRequest{LovedOnes: []reflection.LovedOne{
		{Name: "Mum", VisitsPerYear: 4, YourAge: 35, TheirAge: 65},
	}}, "u")
	require.Equal(t, http.StatusOK, rec.Code)
	visits := decodeBody[[]VisitEstimate](t, rec)
	require.Equal(t, 80, visits[0].RemainingVisits)
	require.Equal(t, "Mum", visits[0].Name)

	rec = h.do(http.MethodGet, "/v1/reflection/questions", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
