package reflection

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func allPrimary(label string) Answers {
	return Answers{"time": label, "time2": label, "time3": label, "time4": label, "time5": label}
}

func TestDefaultCatalogLoads(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)
	require.Len(t, c.Questions.Primary, 5)
	require.Len(t, c.Questions.FollowUp, 3)
	require.Len(t, c.Personas, 4)
	require.Len(t, c.Strategies, 4)
	require.Equal(t, ScaleLabels, c.Questions.Primary[0].Options)
	require.Equal(t, YesNoLabels, c.Questions.FollowUp[2].Options)
}

func TestScoreBoundaries(t *testing.T) {
	c := MustDefaultCatalog()

	tests := []struct {
		name    string
		answers Answers
		score   int
		persona string
	}{
		{"all strongly agree", allPrimary(StronglyAgree), 25, "time-master"},
		{"all strongly disagree", allPrimary(StronglyDisagree), 5, "time-struggler"},
		{"exactly twenty", allPrimary(Agree), 20, "time-master"},
		{"exactly nineteen", Answers{"time": Agree, "time2": Agree, "time3": Agree, "time4": Agree, "time5": Neutral}, 19, "time-learner"},
		{"neutral", allPrimary(Neutral), 15, "time-learner"},
		{"fourteen", Answers{"time": Neutral, "time2": Neutral, "time3": Neutral, "time4": Neutral, "time5": Disagree}, 14, "time-seeker"},
		{"empty falls back to last persona", Answers{}, 0, "time-struggler"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := c.Evaluate(tt.answers)
			require.NoError(t, err)
			require.Equal(t, tt.score, result.Score)
			require.Equal(t, tt.persona, result.Persona.ID)
		})
	}
}

func TestFollowUpAnswersScoreZero(t *testing.T) {
	answers := allPrimary(Disagree)
	answers["followup1"] = Yes
	answers["followup2"] = No
	answers["followup3"] = Yes

	require.Equal(t, 10, Score(answers))
	require.Zero(t, ScaleValue(Yes))
	require.Zero(t, ScaleValue(No))
}

func TestNeedsFollowUpOnlyConsidersPrimaryQuestions(t *testing.T) {
	c := MustDefaultCatalog()

	require.False(t, c.NeedsFollowUp(allPrimary(Neutral)))

	answers := allPrimary(Agree)
	answers["time4"] = StronglyDisagree
	require.True(t, c.NeedsFollowUp(answers))

	require.False(t, c.NeedsFollowUp(Answers{"followup1": Disagree}))
}

func TestEvaluateRejectsUnknownInput(t *testing.T) {
	c := MustDefaultCatalog()

	_, err := c.Evaluate(Answers{"time9": Agree})
	require.ErrorIs(t, err, ErrUnknownQuestion)

	_, err = c.Evaluate(Answers{"time": Yes})
	require.ErrorIs(t, err, ErrInvalidAnswer)

	_, err = c.Evaluate(Answers{"followup1": Agree})
	require.ErrorIs(t, err, ErrInvalidAnswer)
}

func TestStrategiesFor(t *testing.T) {
	c := MustDefaultCatalog()

	recommended := func(strategies []Strategy) []string {
		var ids []string
		for _, s := range strategies {
			if s.Recommended {
				ids = append(ids, s.ID)
			}
		}
		return ids
	}

	require.Equal(t, []string{"time-wealth-hard-reset", "two-list-exercise", "energy-calendar"}, recommended(c.StrategiesFor("time-learner")))
	require.Equal(t, []string{"time-wealth-hard-reset", "energy-calendar"}, recommended(c.StrategiesFor("time-struggler")))
	require.Empty(t, recommended(c.StrategiesFor("time-master")))
	require.Empty(t, recommended(c.StrategiesFor("unknown")))
	require.Len(t, c.StrategiesFor(""), 4)

	for _, s := range c.Strategies {
		require.False(t, s.Recommended, "catalog entries are never flagged in place")
	}
}

func TestParseCatalogValidation(t *testing.T) {
	_, err := ParseCatalog([]byte("personas: []"))
	require.Error(t, err)

	_, err = ParseCatalog([]byte(`
questions:
  primary:
    - id: q
personas:
  - id: p
    min_score: 10
    max_score: 5
`))
	require.Error(t, err)

	_, err = ParseCatalog([]byte(`
questions:
  primary:
    - id: q
personas:
  - id: p
    min_score: 0
    max_score: 5
audit:
  - {id: x, name: X, value: extreme}
`))
	require.ErrorIs(t, err, ErrInvalidRating)
}
