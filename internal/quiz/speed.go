package quiz

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SpeedQuestionTime is the countdown for each speed round question.
const SpeedQuestionTime = 10 * time.Second

// SpeedAnswer reports the outcome of one speed round answer.
type SpeedAnswer struct {
	Correct bool   `json:"correct"`
	Answer  string `json:"answer"`
	Points  int    `json:"points"`
	Score   int    `json:"score"`
	Streak  int    `json:"streak"`
	Done    bool   `json:"done"`
}

// SpeedRound is a timed quiz: every question has its own countdown and quick
// correct answers earn more points.
type SpeedRound struct {
	mu        sync.Mutex
	id        string
	questions []Question
	current   int
	score     int
	correct   int
	streak    int
	timeouts  int
	done      bool
	deadline  time.Time
	limit     time.Duration
	sched     Scheduler
	now       func() time.Time
	pending   Timer
	gen       uint64
}

// SpeedOption configures a SpeedRound.
type SpeedOption func(*SpeedRound)

// WithSpeedScheduler replaces the countdown timer source.
func WithSpeedScheduler(sched Scheduler) SpeedOption {
	return func(r *SpeedRound) { r.sched = sched }
}

// WithSpeedClock replaces time.Now.
func WithSpeedClock(now func() time.Time) SpeedOption {
	return func(r *SpeedRound) { r.now = now }
}

// WithQuestionTime overrides SpeedQuestionTime.
func WithQuestionTime(d time.Duration) SpeedOption {
	return func(r *SpeedRound) { r.limit = d }
}

// NewSpeedRound starts the countdown on the first question.
func NewSpeedRound(questions []Question, opts ...SpeedOption) (*SpeedRound, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	r := &SpeedRound{
		id:        uuid.NewString(),
		questions: slices.Clone(questions),
		limit:     SpeedQuestionTime,
		sched:     SystemScheduler,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.mu.Lock()
	r.arm()
	r.mu.Unlock()
	return r, nil
}

// ID is the round's unique identifier.
func (r *SpeedRound) ID() string { return r.id }

// Answer scores option against the current question and moves on.
func (r *SpeedRound) Answer(option string) (SpeedAnswer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return SpeedAnswer{}, ErrRoundFinished
	}
	q := r.questions[r.current]
	if !slices.Contains(q.Options, option) {
		return SpeedAnswer{}, fmt.Errorf("%w: %q", ErrUnknownOption, option)
	}

	res := SpeedAnswer{Answer: q.Answer}
	if option == q.Answer {
		res.Correct = true
		res.Points = speedPoints(r.deadline.Sub(r.now()), r.streak)
		r.score += res.Points
		r.correct++
		r.streak++
	} else {
		r.streak = 0
	}
	r.next()
	res.Score, res.Streak, res.Done = r.score, r.streak, r.done
	return res, nil
}

// speedPoints awards 15, 10 or 5 points by time left, plus 5 for a streak of
// three or more before this answer.
func speedPoints(left time.Duration, streak int) int {
	var pts int
	switch {
	case left > 7*time.Second:
		pts = 15
	case left > 4*time.Second:
		pts = 10
	default:
		pts = 5
	}
	if streak >= 3 {
		pts += 5
	}
	return pts
}

// SpeedStatus is a learner-safe view of the round.
type SpeedStatus struct {
	ID       string     `json:"id"`
	Current  int        `json:"current"`
	Total    int        `json:"total"`
	Score    int        `json:"score"`
	Correct  int        `json:"correct"`
	Streak   int        `json:"streak"`
	Timeouts int        `json:"timeouts"`
	Done     bool       `json:"done"`
	Question *View      `json:"question,omitempty"`
	Deadline *time.Time `json:"deadline,omitempty"`
}

// Status returns the current view.
func (r *SpeedRound) Status() SpeedStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := SpeedStatus{
		ID:       r.id,
		Current:  r.current,
		Total:    len(r.questions),
		Score:    r.score,
		Correct:  r.correct,
		Streak:   r.streak,
		Timeouts: r.timeouts,
		Done:     r.done,
	}
	if !r.done {
		v := r.questions[r.current].View()
		d := r.deadline
		st.Question, st.Deadline = &v, &d
	}
	return st
}

// Close stops the countdown.
func (r *SpeedRound) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancel()
}

func (r *SpeedRound) timedOut(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen || r.done {
		return
	}
	r.pending = nil
	r.timeouts++
	r.streak = 0
	r.next()
}

// next advances and re-arms the countdown. Callers hold r.mu.
func (r *SpeedRound) next() {
	r.cancel()
	if r.current >= len(r.questions)-1 {
		r.done = true
		return
	}
	r.current++
	r.arm()
}

func (r *SpeedRound) arm() {
	r.deadline = r.now().Add(r.limit)
	gen := r.gen
	r.pending = r.sched.AfterFunc(r.limit, func() { r.timedOut(gen) })
}

func (r *SpeedRound) cancel() {
	r.gen++
	if r.pending != nil {
		r.pending.Stop()
		r.pending = nil
	}
}
