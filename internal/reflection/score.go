// Package reflection scores the time-wealth survey and classifies the user
// into a persona, and hosts the strategy tools that persona unlocks.
package reflection

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownQuestion = errors.New("unknown reflection question")
	ErrInvalidAnswer   = errors.New("answer is not an option for this question")
)

// Scale labels in display order.
const (
	StronglyAgree    = "Strongly Agree"
	Agree            = "Agree"
	Neutral          = "Neutral"
	Disagree         = "Disagree"
	StronglyDisagree = "Strongly Disagree"

	Yes = "Yes"
	No  = "No"
)

var (
	ScaleLabels = []string{StronglyAgree, Agree, Neutral, Disagree, StronglyDisagree}
	YesNoLabels = []string{Yes, No}
)

var scaleValues = map[string]int{
	StronglyAgree:    5,
	Agree:            4,
	Neutral:          3,
	Disagree:         2,
	StronglyDisagree: 1,
}

// Answers maps a question id to the selected option label.
type Answers map[QuestionID]string

// ScaleValue returns the numeric weight of a label. Labels outside the
// agreement scale, including Yes and No, are worth 0.
func ScaleValue(label string) int {
	return scaleValues[label]
}

// Score sums the scale value of every collected answer. Follow-up answers are
// collected but contribute nothing.
func Score(answers Answers) int {
	score := 0
	for _, label := range answers {
		score += ScaleValue(label)
	}
	return score
}

func isDisagreement(label string) bool {
	return label == Disagree || label == StronglyDisagree
}

// NeedsFollowUp reports whether any primary answer disagrees.
func (c *Catalog) NeedsFollowUp(answers Answers) bool {
	for id, label := range answers {
		if c.isPrimary(id) && isDisagreement(label) {
			return true
		}
	}
	return false
}

// Result is the outcome of a completed survey.
type Result struct {
	Score         int     `json:"score"`
	Persona       Persona `json:"persona"`
	NeedsFollowUp bool    `json:"needs_follow_up"`
}

// Evaluate checks every answer against the catalog and classifies the score.
// Missing answers are not an error; a short answer set simply scores low.
func (c *Catalog) Evaluate(answers Answers) (Result, error) {
	for id, label := range answers {
		q, ok := c.question(id)
		if !ok {
			return Result{}, fmt.Errorf("%w: %q", ErrUnknownQuestion, id)
		}
		if !containsLabel(q.Options, label) {
			return Result{}, fmt.Errorf("%w: %q=%q", ErrInvalidAnswer, id, label)
		}
	}
	score := Score(answers)
	return Result{
		Score:         score,
		Persona:       c.Classify(score),
		NeedsFollowUp: c.NeedsFollowUp(answers),
	}, nil
}

func (c *Catalog) question(id QuestionID) (Question, bool) {
	for _, q := range c.Questions.Primary {
		if q.ID == id {
			return q, true
		}
	}
	for _, q := range c.Questions.FollowUp {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

func containsLabel(options []string, label string) bool {
	for _, o := range options {
		if o == label {
			return true
		}
	}
	return false
}
