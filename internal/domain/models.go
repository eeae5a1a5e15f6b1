package domain

import (
	"math"
	"time"
)

// Option is a single answer choice. The Correct tag is kept even though the
// canonical order always stores the correct option first, so reordering bugs
// surface instead of hiding behind positional convention.
type Option struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Question is an MCQ question in canonical form: Options[0] is the correct
// option for every question that leaves the ingestion pipeline. Questions are
// immutable after construction and may be shared by many sessions.
type Question struct {
	Prompt  string   `json:"prompt"`
	Options []Option `json:"options"`
}

// OptionTexts returns the option texts in canonical order.
func (q Question) OptionTexts() []string {
	texts := make([]string, len(q.Options))
	for i, opt := range q.Options {
		texts[i] = opt.Text
	}
	return texts
}

// NewQuestion builds a canonical question: the correct text first, wrong
// texts appended in order.
func NewQuestion(prompt, correct string, wrong ...string) Question {
	options := make([]Option, 0, 1+len(wrong))
	options = append(options, Option{Text: correct, Correct: true})
	for _, w := range wrong {
		options = append(options, Option{Text: w})
	}
	return Question{Prompt: prompt, Options: options}
}

// ParseResult is the outcome of ingesting one document. HadErrors reports
// that the input was degraded on the way in: clipped option lists, dropped
// duplicates, truncated texts, or a heuristic-fallback pass that itself had
// to repair.
type ParseResult struct {
	Questions []Question `json:"questions"`
	HadErrors bool       `json:"hadErrors"`
}

// SavedTest is a named question set owned by one user.
type SavedTest struct {
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// QuizPlan fixes the question sequence and shuffle policy for one session.
// When ShuffleQuestions is set the permutation is baked into Questions at
// plan creation and never recomputed.
type QuizPlan struct {
	Questions        []Question
	ShuffleQuestions bool
	ShuffleAnswers   bool
}

// QuizResult summarizes a finished or cancelled session.
type QuizResult struct {
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Points     float64 `json:"points"`
}

// Score computes a QuizResult for the given scale (100 in the default
// report). A zero total yields a zero result rather than dividing by zero.
func Score(correct, total int, scale float64) QuizResult {
	if total == 0 {
		return QuizResult{}
	}
	ratio := float64(correct) / float64(total)
	return QuizResult{
		Correct:    correct,
		Total:      total,
		Percentage: round1(ratio * 100),
		Points:     round1(ratio * scale),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
