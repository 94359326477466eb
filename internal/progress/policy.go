// Package progress turns quiz and game results into learner progress: pass
// marks, level unlocks, high scores, and the background writer that persists
// them.
package progress

import (
	"time"

	"github.com/pavelanni/phonics/internal/curriculum"
	"github.com/pavelanni/phonics/internal/model"
	"github.com/pavelanni/phonics/internal/quiz"
)

// Policy is a pass mark in percent.
type Policy struct {
	PassPercent float64
}

var (
	QuickQuizPolicy = Policy{PassPercent: 50}
	FullTestPolicy  = Policy{PassPercent: 70}
)

// Passed reports whether r meets the pass mark.
func (p Policy) Passed(r quiz.Result) bool {
	return r.Total > 0 && r.Percent() >= p.PassPercent
}

// Outcome is what a result does to a learner.
type Outcome struct {
	Passed   bool                `json:"passed"`
	Percent  float64             `json:"percent"`
	Unlocked int                 `json:"unlocked,omitempty"` // newly reachable level, zero if none
	Update   model.LearnerUpdate `json:"-"`
}

// ApplyFullTest records the score for level and keeps every mistake. A pass
// at the learner's current top level unlocks the next one.
func ApplyFullTest(l *model.Learner, level curriculum.Level, r quiz.Result, p Policy) Outcome {
	out := Outcome{Passed: p.Passed(r), Percent: r.Percent()}
	taken := r.SubmittedAt
	if taken.IsZero() {
		taken = time.Now()
	}
	out.Update.TestScore = &model.TestScore{
		Level:   int(level),
		Correct: r.Correct,
		Total:   r.Total,
		Passed:  out.Passed,
		TakenAt: taken,
	}
	for _, w := range r.WrongAnswers {
		out.Update.WrongAnswers = append(out.Update.WrongAnswers, model.WrongAnswer{
			Level:         int(level),
			Question:      w.Question,
			WrongAnswer:   w.WrongAnswer,
			CorrectAnswer: w.CorrectAnswer,
			At:            w.At,
		})
	}
	if out.Passed && int(level) == l.MaxLevel && level < curriculum.MaxLevel {
		next := int(level) + 1
		out.Update.MaxLevel = &next
		out.Unlocked = next
	}
	return out
}

// ApplyQuickQuiz unlocks the level after the one practised when the quiz is
// passed. It never lowers the learner's max level.
func ApplyQuickQuiz(l *model.Learner, level curriculum.Level, r quiz.Result, p Policy) Outcome {
	out := Outcome{Passed: p.Passed(r), Percent: r.Percent()}
	if !out.Passed {
		return out
	}
	next := min(int(curriculum.MaxLevel), int(level)+1)
	if next > l.MaxLevel {
		out.Update.MaxLevel = &next
		out.Unlocked = next
	}
	return out
}

// ApplyGameScore keeps score only when it beats the learner's high score.
func ApplyGameScore(l *model.Learner, game string, score int, at time.Time) (model.LearnerUpdate, bool) {
	if score <= l.HighScore(game) {
		return model.LearnerUpdate{}, false
	}
	return model.LearnerUpdate{GameScore: &model.GameScore{Game: game, Score: score, PlayedAt: at}}, true
}
