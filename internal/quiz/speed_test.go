package quiz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestRound(t *testing.T, n int) (*SpeedRound, *manualScheduler, *fakeClock) {
	t.Helper()
	qs := fiveQuestions()
	for len(qs) < n {
		qs = append(qs, fiveQuestions()...)
	}
	sched := &manualScheduler{}
	clock := newFakeClock()
	r, err := NewSpeedRound(qs[:n], WithSpeedScheduler(sched), WithSpeedClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(r.Close)
	return r, sched, clock
}

func currentAnswer(t *testing.T, r *SpeedRound, correct bool) string {
	t.Helper()
	st := r.Status()
	require.NotNil(t, st.Question)
	for _, o := range st.Question.Options {
		isRight := o[:5] == "right"
		if isRight == correct {
			return o
		}
	}
	t.Fatalf("no option for correct=%v", correct)
	return ""
}

func TestSpeedPoints(t *testing.T) {
	tests := []struct {
		left   time.Duration
		streak int
		want   int
	}{
		{10 * time.Second, 0, 15},
		{7500 * time.Millisecond, 2, 15},
		{7 * time.Second, 0, 10},
		{5 * time.Second, 0, 10},
		{4 * time.Second, 0, 5},
		{time.Second, 0, 5},
		{9 * time.Second, 3, 20},
		{2 * time.Second, 5, 10},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, speedPoints(tt.left, tt.streak), "left %v streak %d", tt.left, tt.streak)
	}
}

func TestSpeedRoundScoring(t *testing.T) {
	r, _, clock := newTestRound(t, 6)

	// Fast answers for the first three build a streak.
	for i := range 3 {
		res, err := r.Answer(currentAnswer(t, r, true))
		require.NoError(t, err)
		require.True(t, res.Correct)
		require.Equal(t, 15, res.Points)
		require.Equal(t, i+1, res.Streak)
	}

	// Fourth answer is slower: 10 points plus the streak bonus.
	clock.Advance(5 * time.Second)
	res, err := r.Answer(currentAnswer(t, r, true))
	require.NoError(t, err)
	require.Equal(t, 15, res.Points)
	require.Equal(t, 60, res.Score)

	res, err = r.Answer(currentAnswer(t, r, false))
	require.NoError(t, err)
	require.False(t, res.Correct)
	require.Zero(t, res.Points)
	require.Zero(t, res.Streak)
	require.Equal(t, 60, res.Score)
	require.False(t, res.Done)

	res, err = r.Answer(currentAnswer(t, r, true))
	require.NoError(t, err)
	require.True(t, res.Done)

	_, err = r.Answer("right0")
	require.ErrorIs(t, err, ErrRoundFinished)

	st := r.Status()
	require.True(t, st.Done)
	require.Nil(t, st.Question)
	require.Equal(t, 5, st.Correct)
}

func TestSpeedRoundTimeout(t *testing.T) {
	r, sched, _ := newTestRound(t, 5)

	_, err := r.Answer(currentAnswer(t, r, true))
	require.NoError(t, err)
	require.Equal(t, 1, r.Status().Streak)

	sched.fireLast()
	st := r.Status()
	require.Equal(t, 2, st.Current)
	require.Equal(t, 1, st.Timeouts)
	require.Zero(t, st.Streak)
}

func TestSpeedRoundStaleTimeout(t *testing.T) {
	r, sched, _ := newTestRound(t, 5)
	_, err := r.Answer(currentAnswer(t, r, true))
	require.NoError(t, err)
	require.True(t, sched.timers[0].stopped)

	// The first countdown already fired in flight; it must not skip question 1.
	sched.timers[0].f()
	st := r.Status()
	require.Equal(t, 1, st.Current)
	require.Zero(t, st.Timeouts)
}

func TestSpeedRoundTimeoutOnLastQuestion(t *testing.T) {
	r, sched, _ := newTestRound(t, 1)
	sched.fireLast()
	st := r.Status()
	require.True(t, st.Done)
	require.Equal(t, 1, st.Timeouts)
}

func TestSpeedRoundRejectsUnknownOption(t *testing.T) {
	r, _, _ := newTestRound(t, 3)
	_, err := r.Answer("nope")
	require.ErrorIs(t, err, ErrUnknownOption)
	require.Equal(t, 0, r.Status().Current)
}

func TestSpeedRoundDeadline(t *testing.T) {
	r, sched, clock := newTestRound(t, 3)
	st := r.Status()
	require.NotNil(t, st.Deadline)
	require.Equal(t, clock.Now().Add(SpeedQuestionTime), *st.Deadline)
	require.Equal(t, SpeedQuestionTime, sched.timers[0].d)
}

func TestNewSpeedRoundRequiresQuestions(t *testing.T) {
	_, err := NewSpeedRound(nil)
	require.ErrorIs(t, err, ErrNoQuestions)
}
