package progress

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pavelanni/phonics/internal/model"
)

// fakeStore keeps learners in memory and fails the first failWrites updates.
type fakeStore struct {
	mu         sync.Mutex
	learners   map[int64]*model.Learner
	failWrites int
	writes     int
	updates    []model.LearnerUpdate
}

func newFakeStore() *fakeStore {
	return &fakeStore{learners: map[int64]*model.Learner{
		1: {User: model.User{ID: 1}, MaxLevel: 1},
	}}
}

func (f *fakeStore) GetLearner(id int64) (*model.Learner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.learners[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (f *fakeStore) UpdateLearner(id int64, upd model.LearnerUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.writes <= f.failWrites {
		return errors.New("database is locked")
	}
	l := f.learners[id]
	if upd.MaxLevel != nil {
		l.MaxLevel = *upd.MaxLevel
	}
	l.Stars += upd.AddStars
	f.updates = append(f.updates, upd)
	return nil
}

func (f *fakeStore) snapshot() (model.Learner, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.learners[1], f.writes
}

func noSleep(context.Context, time.Duration) error { return nil }

func closeRecorder(t *testing.T, r *Recorder) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, r.Close(ctx))
}

func addStar(*model.Learner) model.LearnerUpdate {
	return model.LearnerUpdate{AddStars: 1}
}

func TestRecorderSaves(t *testing.T) {
	st := newFakeStore()
	r := NewRecorder(st, withSleep(noSleep))
	for range 5 {
		require.NoError(t, r.Record(1, "star", addStar))
	}
	closeRecorder(t, r)

	l, writes := st.snapshot()
	require.Equal(t, 5, l.Stars)
	require.Equal(t, 5, writes)
	require.Empty(t, r.Pending(1))
}

func TestRecorderChangeSeesCurrentState(t *testing.T) {
	st := newFakeStore()
	r := NewRecorder(st, withSleep(noSleep))
	unlock := func(l *model.Learner) model.LearnerUpdate {
		next := l.MaxLevel + 1
		return model.LearnerUpdate{MaxLevel: &next}
	}
	require.NoError(t, r.Record(1, "unlock", unlock))
	require.NoError(t, r.Record(1, "unlock", unlock))
	closeRecorder(t, r)

	l, _ := st.snapshot()
	require.Equal(t, 3, l.MaxLevel)
}

func TestRecorderSkipsEmptyUpdates(t *testing.T) {
	st := newFakeStore()
	r := NewRecorder(st, withSleep(noSleep))
	require.NoError(t, r.Record(1, "noop", func(*model.Learner) model.LearnerUpdate { return model.LearnerUpdate{} }))
	closeRecorder(t, r)

	_, writes := st.snapshot()
	require.Zero(t, writes)
}

func TestRecorderRetriesWithBackoff(t *testing.T) {
	st := newFakeStore()
	st.failWrites = 2
	var mu sync.Mutex
	var delays []time.Duration
	sleep := func(_ context.Context, d time.Duration) error {
		mu.Lock()
		delays = append(delays, d)
		mu.Unlock()
		return nil
	}
	r := NewRecorder(st, withSleep(sleep), WithAttempts(3), WithBackoff(10*time.Millisecond))
	require.NoError(t, r.Record(1, "star", addStar))
	closeRecorder(t, r)

	l, writes := st.snapshot()
	require.Equal(t, 1, l.Stars)
	require.Equal(t, 3, writes)
	require.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, delays)
	require.Empty(t, r.Pending(1))
}

func TestRecorderKeepsFailures(t *testing.T) {
	st := newFakeStore()
	st.failWrites = 100
	r := NewRecorder(st, withSleep(noSleep), WithAttempts(2))
	require.NoError(t, r.Record(1, "full-test", addStar))
	closeRecorder(t, r)

	pending := r.Pending(1)
	require.Len(t, pending, 1)
	require.Equal(t, "full-test", pending[0].Kind)
	require.Equal(t, 2, pending[0].Attempts)
	require.Contains(t, pending[0].Err, "database is locked")
}

func TestRecorderUnknownLearner(t *testing.T) {
	st := newFakeStore()
	r := NewRecorder(st, withSleep(noSleep), WithAttempts(5))
	require.NoError(t, r.Record(42, "star", addStar))
	closeRecorder(t, r)

	pending := r.Pending(42)
	require.Len(t, pending, 1)
	require.Equal(t, 1, pending[0].Attempts)
}

func TestRecorderClosed(t *testing.T) {
	r := NewRecorder(newFakeStore(), withSleep(noSleep))
	closeRecorder(t, r)
	require.ErrorIs(t, r.Record(1, "star", addStar), ErrRecorderClosed)
	// Closing twice is harmless.
	closeRecorder(t, r)
}
