package quiz

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fiveQuestions() []Question {
	var qs []Question
	for i := range 5 {
		qs = append(qs, Question{
			ID:      i,
			Prompt:  fmt.Sprintf("question %d", i),
			Answer:  fmt.Sprintf("right%d", i),
			Options: []string{fmt.Sprintf("right%d", i), fmt.Sprintf("wrong%d", i)},
			Kind:    KindDefault,
		})
	}
	return qs
}

func newTestSession(t *testing.T, opts ...SessionOption) *Session {
	t.Helper()
	s, err := NewSession(fiveQuestions(), opts...)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func answerAll(t *testing.T, s *Session, correct []bool) {
	t.Helper()
	for i, ok := range correct {
		require.NoError(t, s.JumpTo(i))
		opt := fmt.Sprintf("wrong%d", i)
		if ok {
			opt = fmt.Sprintf("right%d", i)
		}
		require.NoError(t, s.SelectAnswer(opt))
	}
}

func TestNewSessionRequiresQuestions(t *testing.T) {
	_, err := NewSession(nil)
	require.True(t, errors.Is(err, ErrNoQuestions))
}

func TestSubmitAllCorrect(t *testing.T) {
	s := newTestSession(t)
	answerAll(t, s, []bool{true, true, true, true, true})

	res, err := s.Submit()
	require.NoError(t, err)
	require.Equal(t, 5, res.Correct)
	require.Equal(t, 5, res.Total)
	require.Empty(t, res.WrongAnswers)
	require.Equal(t, StateCompleted, s.State())
	require.InDelta(t, 100.0, res.Percent(), 0.001)
}

func TestSubmitMixed(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, WithClock(clock.Now))
	answerAll(t, s, []bool{true, false, true, false, false})

	res, err := s.Submit()
	require.NoError(t, err)
	require.Equal(t, 2, res.Correct)
	require.Equal(t, 5, res.Total)
	require.Len(t, res.WrongAnswers, 3)

	for n, i := range []int{1, 3, 4} {
		w := res.WrongAnswers[n]
		require.Equal(t, fmt.Sprintf("question %d", i), w.Question)
		require.Equal(t, fmt.Sprintf("wrong%d", i), w.WrongAnswer)
		require.Equal(t, fmt.Sprintf("right%d", i), w.CorrectAnswer)
		require.Equal(t, clock.Now(), w.At)
	}

	got, ok := s.Result()
	require.True(t, ok)
	require.Equal(t, res, got)
}

func TestSubmitRequiresEveryAnswer(t *testing.T) {
	s := newTestSession(t)
	answerAll(t, s, []bool{true, true, true, true})

	_, err := s.Submit()
	require.True(t, errors.Is(err, ErrIncomplete))
	require.Equal(t, StateInProgress, s.State())

	require.NoError(t, s.JumpTo(4))
	require.NoError(t, s.SelectAnswer("right4"))
	_, err = s.Submit()
	require.NoError(t, err)
}

func TestOperationsAfterCompletion(t *testing.T) {
	s := newTestSession(t)
	answerAll(t, s, []bool{true, true, true, true, true})
	_, err := s.Submit()
	require.NoError(t, err)

	require.ErrorIs(t, s.SelectAnswer("right4"), ErrCompleted)
	require.ErrorIs(t, s.Advance(), ErrCompleted)
	require.ErrorIs(t, s.Retreat(), ErrCompleted)
	require.ErrorIs(t, s.JumpTo(0), ErrCompleted)
	_, err = s.Submit()
	require.ErrorIs(t, err, ErrCompleted)
}

func TestNavigationBoundaries(t *testing.T) {
	s := newTestSession(t)

	require.NoError(t, s.Retreat())
	require.Equal(t, 0, s.Current())

	require.NoError(t, s.JumpTo(4))
	require.NoError(t, s.Advance())
	require.Equal(t, 4, s.Current())

	require.NoError(t, s.Retreat())
	require.Equal(t, 3, s.Current())
}

func TestJumpToOutOfRange(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.JumpTo(2))
	require.NoError(t, s.SelectAnswer("right2"))
	before := s.Snapshot()

	for _, i := range []int{-1, 5, 100} {
		err := s.JumpTo(i)
		require.ErrorIs(t, err, ErrIndexOutOfRange, "index %d", i)
	}
	require.Equal(t, before, s.Snapshot())
}

func TestSelectAnswerRejectsUnknownOption(t *testing.T) {
	s := newTestSession(t)
	err := s.SelectAnswer("nope")
	require.ErrorIs(t, err, ErrUnknownOption)
	require.Empty(t, s.Answers())
}

func TestSelectAnswerOverwrites(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.SelectAnswer("wrong0"))
	require.NoError(t, s.SelectAnswer("right0"))
	require.Equal(t, map[int]string{0: "right0"}, s.Answers())
}

func TestTestVariantDoesNotAutoAdvance(t *testing.T) {
	sched := &manualScheduler{}
	s := newTestSession(t, WithScheduler(sched))
	require.NoError(t, s.SelectAnswer("right0"))
	require.Zero(t, sched.count())
	require.Equal(t, 0, s.Current())
}

func TestAutoAdvance(t *testing.T) {
	sched := &manualScheduler{}
	s := newTestSession(t, WithScheduler(sched), WithAutoAdvance(time.Second))

	require.NoError(t, s.SelectAnswer("right0"))
	require.Equal(t, 1, sched.count())
	require.Equal(t, time.Second, sched.timers[0].d)
	sched.fireLast()
	require.Equal(t, 1, s.Current())

	// Firing the same timer again does not double-advance.
	sched.fireLast()
	require.Equal(t, 1, s.Current())
}

func TestStaleAutoAdvanceAfterManualAdvance(t *testing.T) {
	sched := &manualScheduler{}
	s := newTestSession(t, WithScheduler(sched), WithAutoAdvance(time.Second))

	require.NoError(t, s.SelectAnswer("right0"))
	require.NoError(t, s.Advance())
	require.True(t, sched.timers[0].stopped)

	sched.fireAll()
	require.Equal(t, 1, s.Current())
}

func TestStaleAutoAdvanceAfterSubmit(t *testing.T) {
	sched := &manualScheduler{}
	s := newTestSession(t, WithScheduler(sched), WithAutoAdvance(time.Second))
	answerAll(t, s, []bool{true, true, false, true, true})
	require.NoError(t, s.JumpTo(2))
	require.NoError(t, s.SelectAnswer("right2"))
	_, err := s.Submit()
	require.NoError(t, err)

	before := s.Snapshot()
	sched.fireAll()
	after := s.Snapshot()
	require.Equal(t, before.Current, after.Current)
	require.Equal(t, before.Answers, after.Answers)
	require.Equal(t, StateCompleted, after.State)
}

func TestAutoAdvanceStopsAtLastQuestion(t *testing.T) {
	sched := &manualScheduler{}
	s := newTestSession(t, WithScheduler(sched), WithAutoAdvance(time.Second))
	require.NoError(t, s.JumpTo(4))
	require.NoError(t, s.SelectAnswer("right4"))
	require.Zero(t, sched.count())
}

func TestSnapshotHidesAnswer(t *testing.T) {
	s := newTestSession(t)
	snap := s.Snapshot()
	require.Equal(t, "question 0", snap.Question.Prompt)
	require.Equal(t, 5, snap.Total)
	require.Nil(t, snap.Result)
	require.NotEmpty(t, snap.ID)
}

func TestSessionCopiesQuestions(t *testing.T) {
	qs := fiveQuestions()
	s, err := NewSession(qs)
	require.NoError(t, err)
	qs[0].Prompt = "changed"
	q, err := s.Question(0)
	require.NoError(t, err)
	require.Equal(t, "question 0", q.Prompt)
}

func TestSessionWithRealTimer(t *testing.T) {
	s := newTestSession(t, WithAutoAdvance(5*time.Millisecond))
	require.NoError(t, s.SelectAnswer("right0"))
	require.Eventually(t, func() bool { return s.Current() == 1 }, time.Second, time.Millisecond)
}
