package reflection

import (
	"errors"
	"fmt"
)

var (
	ErrQuizComplete = errors.New("quiz is already complete")
	ErrUnanswered   = errors.New("current question has not been answered")
)

// Phase is the quiz state.
type Phase string

const (
	PhasePrimary  Phase = "primary"
	PhaseFollowUp Phase = "follow_up"
	PhaseComplete Phase = "complete"
)

// Quiz walks the survey one question at a time. Primary questions come first;
// the follow-up set is entered only when a primary answer disagrees. Once the
// quiz reaches PhaseComplete the result is fixed and every further move fails.
type Quiz struct {
	catalog *Catalog
	phase   Phase
	index   int
	answers Answers
	result  *Result
}

// NewQuiz starts a quiz at the first primary question.
func NewQuiz(catalog *Catalog) *Quiz {
	return &Quiz{catalog: catalog, phase: PhasePrimary, answers: make(Answers)}
}

// Phase returns the current state.
func (q *Quiz) Phase() Phase { return q.phase }

func (q *Quiz) questions() []Question {
	if q.phase == PhaseFollowUp {
		return q.catalog.Questions.FollowUp
	}
	return q.catalog.Questions.Primary
}

// Current returns the question being asked.
func (q *Quiz) Current() (Question, error) {
	if q.phase == PhaseComplete {
		return Question{}, ErrQuizComplete
	}
	return q.questions()[q.index], nil
}

// Answer records label for the current question, replacing any earlier answer.
func (q *Quiz) Answer(label string) error {
	current, err := q.Current()
	if err != nil {
		return err
	}
	if !containsLabel(current.Options, label) {
		return fmt.Errorf("%w: %q=%q", ErrInvalidAnswer, current.ID, label)
	}
	q.answers[current.ID] = label
	return nil
}

// Next advances to the following question. At the end of the primary set it
// enters the follow-up phase when any answer disagrees, otherwise it
// completes and computes the result.
func (q *Quiz) Next() error {
	current, err := q.Current()
	if err != nil {
		return err
	}
	if _, ok := q.answers[current.ID]; !ok {
		return fmt.Errorf("%w: %q", ErrUnanswered, current.ID)
	}

	if q.index < len(q.questions())-1 {
		q.index++
		return nil
	}

	if q.phase == PhasePrimary && q.catalog.NeedsFollowUp(q.answers) && len(q.catalog.Questions.FollowUp) > 0 {
		q.phase = PhaseFollowUp
		q.index = 0
		return nil
	}

	score := Score(q.answers)
	q.result = &Result{
		Score:         score,
		Persona:       q.catalog.Classify(score),
		NeedsFollowUp: q.catalog.NeedsFollowUp(q.answers),
	}
	q.phase = PhaseComplete
	return nil
}

// Previous steps back within the current phase. At the first question of a
// phase it does nothing; the follow-up phase never returns to primary.
func (q *Quiz) Previous() error {
	if q.phase == PhaseComplete {
		return ErrQuizComplete
	}
	if q.index > 0 {
		q.index--
	}
	return nil
}

// Progress is the position within the current phase.
type Progress struct {
	Phase   Phase   `json:"phase"`
	Index   int     `json:"index"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// Progress reports the 1-based position within the current phase.
func (q *Quiz) Progress() Progress {
	if q.phase == PhaseComplete {
		return Progress{Phase: PhaseComplete, Percent: 100}
	}
	total := len(q.questions())
	return Progress{
		Phase:   q.phase,
		Index:   q.index + 1,
		Total:   total,
		Percent: float64(q.index+1) * 100 / float64(total),
	}
}

// Result returns the outcome once the quiz is complete.
func (q *Quiz) Result() (Result, bool) {
	if q.result == nil {
		return Result{}, false
	}
	return *q.result, true
}

// Answers returns a copy of everything collected so far.
func (q *Quiz) Answers() Answers {
	out := make(Answers, len(q.answers))
	for k, v := range q.answers {
		out[k] = v
	}
	return out
}
