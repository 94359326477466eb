package quiz

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle state of a Session.
type State string

const (
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

// WrongAnswer records a missed question for the learner's history.
type WrongAnswer struct {
	Question      string    `json:"question"`
	WrongAnswer   string    `json:"wrong_answer"`
	CorrectAnswer string    `json:"correct_answer"`
	At            time.Time `json:"at"`
}

// Result is the raw outcome of a submitted session. Pass or fail is decided
// by the caller.
type Result struct {
	Correct      int           `json:"correct"`
	Total        int           `json:"total"`
	WrongAnswers []WrongAnswer `json:"wrong_answers"`
	SubmittedAt  time.Time     `json:"submitted_at"`
}

// Percent returns the share of correct answers in 0..100.
func (r Result) Percent() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) * 100 / float64(r.Total)
}

// Session walks a learner through a fixed question list.
//
// All methods are safe for concurrent use; scheduled auto-advances run on
// timer goroutines and are discarded once anything else has touched the
// session.
type Session struct {
	mu          sync.Mutex
	id          string
	questions   []Question
	answers     map[int]string
	current     int
	state       State
	result      Result
	startedAt   time.Time
	autoAdvance time.Duration
	sched       Scheduler
	now         func() time.Time
	pending     Timer
	gen         uint64
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithAutoAdvance moves to the next question d after an answer is selected.
// Zero disables it.
func WithAutoAdvance(d time.Duration) SessionOption {
	return func(s *Session) { s.autoAdvance = d }
}

// WithScheduler replaces the timer source.
func WithScheduler(sched Scheduler) SessionOption {
	return func(s *Session) { s.sched = sched }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// NewSession starts a session over questions.
func NewSession(questions []Question, opts ...SessionOption) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	s := &Session{
		id:        uuid.NewString(),
		questions: slices.Clone(questions),
		answers:   make(map[int]string, len(questions)),
		state:     StateInProgress,
		sched:     SystemScheduler,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startedAt = s.now()
	return s, nil
}

// ID is the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Len is the number of questions.
func (s *Session) Len() int { return len(s.questions) }

// StartedAt is when the session was created.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Current returns the index of the question on screen.
func (s *Session) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Question returns the question at index i.
func (s *Session) Question(i int) (Question, error) {
	if i < 0 || i >= len(s.questions) {
		return Question{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return s.questions[i], nil
}

// Answers returns a copy of the answers recorded so far, keyed by index.
func (s *Session) Answers() map[int]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]string, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// Result returns the outcome once the session is completed.
func (s *Session) Result() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.state == StateCompleted
}

// SelectAnswer records option for the current question.
func (s *Session) SelectAnswer(option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateCompleted {
		return ErrCompleted
	}
	q := s.questions[s.current]
	if !slices.Contains(q.Options, option) {
		return fmt.Errorf("%w: %q", ErrUnknownOption, option)
	}
	s.answers[s.current] = option
	s.invalidate()

	if s.autoAdvance > 0 && s.current < len(s.questions)-1 {
		gen := s.gen
		s.pending = s.sched.AfterFunc(s.autoAdvance, func() { s.autoAdvanceFired(gen) })
	}
	return nil
}

// Advance moves to the next question. It does nothing on the last one.
func (s *Session) Advance() error {
	return s.step(1)
}

// Retreat moves to the previous question. It does nothing on the first one.
func (s *Session) Retreat() error {
	return s.step(-1)
}

func (s *Session) step(delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateCompleted {
		return ErrCompleted
	}
	s.invalidate()
	next := s.current + delta
	if next >= 0 && next < len(s.questions) {
		s.current = next
	}
	return nil
}

// JumpTo moves to question i. Out-of-range indices are rejected and leave the
// session untouched.
func (s *Session) JumpTo(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateCompleted {
		return ErrCompleted
	}
	if i < 0 || i >= len(s.questions) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, i, len(s.questions))
	}
	s.invalidate()
	s.current = i
	return nil
}

// Submit scores the session and completes it. Every question must have an
// answer.
func (s *Session) Submit() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateCompleted {
		return Result{}, ErrCompleted
	}
	if len(s.answers) < len(s.questions) {
		return Result{}, fmt.Errorf("%w: %d of %d answered", ErrIncomplete, len(s.answers), len(s.questions))
	}
	s.invalidate()

	now := s.now()
	res := Result{Total: len(s.questions), WrongAnswers: []WrongAnswer{}, SubmittedAt: now}
	for i, q := range s.questions {
		got := s.answers[i]
		if got == q.Answer {
			res.Correct++
			continue
		}
		res.WrongAnswers = append(res.WrongAnswers, WrongAnswer{
			Question:      q.Prompt,
			WrongAnswer:   got,
			CorrectAnswer: q.Answer,
			At:            now,
		})
	}
	s.state = StateCompleted
	s.result = res
	return res, nil
}

// Close cancels any pending auto-advance.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidate()
}

// Snapshot is a learner-safe view of the session.
type Snapshot struct {
	ID       string         `json:"id"`
	State    State          `json:"state"`
	Current  int            `json:"current"`
	Total    int            `json:"total"`
	Answered int            `json:"answered"`
	Question View           `json:"question"`
	Answers  map[int]string `json:"answers"`
	Result   *Result        `json:"result,omitempty"`
}

// Snapshot returns the current view.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:       s.id,
		State:    s.state,
		Current:  s.current,
		Total:    len(s.questions),
		Answered: len(s.answers),
		Question: s.questions[s.current].View(),
		Answers:  make(map[int]string, len(s.answers)),
	}
	for k, v := range s.answers {
		snap.Answers[k] = v
	}
	if s.state == StateCompleted {
		res := s.result
		snap.Result = &res
	}
	return snap
}

func (s *Session) autoAdvanceFired(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.state != StateInProgress {
		return
	}
	s.pending = nil
	s.gen++
	if s.current < len(s.questions)-1 {
		s.current++
	}
}

// invalidate cancels the pending timer and makes any in-flight callback stale.
// Callers hold s.mu.
func (s *Session) invalidate() {
	s.gen++
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}
