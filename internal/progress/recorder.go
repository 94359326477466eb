package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pavelanni/phonics/internal/model"
)

// Store reads and partially updates learners.
type Store interface {
	GetLearner(id int64) (*model.Learner, error)
	UpdateLearner(id int64, upd model.LearnerUpdate) error
}

// Change computes an update from the learner's current state.
type Change func(l *model.Learner) model.LearnerUpdate

// Failure is a change that could not be saved after every retry.
type Failure struct {
	Kind     string    `json:"kind"`
	Err      string    `json:"error"`
	Attempts int       `json:"attempts"`
	At       time.Time `json:"at"`
}

var (
	ErrRecorderClosed = errors.New("recorder closed")
	ErrQueueFull      = errors.New("recorder queue full")
	errNoLearner      = errors.New("learner not found")
)

type job struct {
	learnerID int64
	kind      string
	change    Change
}

// Recorder saves progress in the background so a slow or failing store never
// holds up a learner. Saves are retried with exponential backoff; what still
// fails is logged and kept in a per-learner pending list.
type Recorder struct {
	store    Store
	queue    chan job
	attempts int
	backoff  time.Duration
	sleep    func(ctx context.Context, d time.Duration) error

	mu      sync.Mutex
	pending map[int64][]Failure
	closed  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithAttempts sets how many times a save is tried. Minimum one.
func WithAttempts(n int) RecorderOption {
	return func(r *Recorder) { r.attempts = max(n, 1) }
}

// WithBackoff sets the delay before the first retry. It doubles on every
// further retry.
func WithBackoff(d time.Duration) RecorderOption {
	return func(r *Recorder) { r.backoff = d }
}

// WithQueueSize sets the number of changes that may wait for the worker.
func WithQueueSize(n int) RecorderOption {
	return func(r *Recorder) { r.queue = make(chan job, max(n, 1)) }
}

func withSleep(f func(ctx context.Context, d time.Duration) error) RecorderOption {
	return func(r *Recorder) { r.sleep = f }
}

// NewRecorder starts the background worker. Close stops it.
func NewRecorder(s Store, opts ...RecorderOption) *Recorder {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Recorder{
		store:    s,
		queue:    make(chan job, 256),
		attempts: 3,
		backoff:  200 * time.Millisecond,
		sleep:    sleepCtx,
		pending:  make(map[int64][]Failure),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.wg.Add(1)
	go r.run()
	return r
}

// Record queues change for learnerID and returns at once.
func (r *Recorder) Record(learnerID int64, kind string, change Change) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRecorderClosed
	}
	select {
	case r.queue <- job{learnerID: learnerID, kind: kind, change: change}:
		return nil
	default:
		slog.Warn("progress queue full, dropping change", "learner_id", learnerID, "kind", kind)
		r.pending[learnerID] = append(r.pending[learnerID], Failure{
			Kind: kind, Err: ErrQueueFull.Error(), At: time.Now(),
		})
		return ErrQueueFull
	}
}

// Pending returns the changes that could not be saved for learnerID.
func (r *Recorder) Pending(learnerID int64) []Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Failure(nil), r.pending[learnerID]...)
}

// Close drains queued changes and stops the worker. Retries still waiting on
// backoff are abandoned once ctx is done.
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		r.cancel()
		return nil
	case <-ctx.Done():
		r.cancel()
		<-done
		return ctx.Err()
	}
}

func (r *Recorder) run() {
	defer r.wg.Done()
	for j := range r.queue {
		r.save(j)
	}
}

func (r *Recorder) save(j job) {
	log := slog.With("learner_id", j.learnerID, "kind", j.kind)
	delay := r.backoff
	var err error
	attempt := 0
	for attempt < r.attempts {
		attempt++
		if err = r.apply(j); err == nil {
			log.Debug("progress saved", "attempt", attempt)
			return
		}
		if errors.Is(err, errNoLearner) {
			break
		}
		log.Warn("progress save failed", "attempt", attempt, "error", err)
		if attempt == r.attempts {
			break
		}
		if serr := r.sleep(r.ctx, delay); serr != nil {
			break
		}
		delay *= 2
	}
	log.Error("giving up on progress save", "attempts", attempt, "error", err)
	r.mu.Lock()
	r.pending[j.learnerID] = append(r.pending[j.learnerID], Failure{
		Kind: j.kind, Err: err.Error(), Attempts: attempt, At: time.Now(),
	})
	r.mu.Unlock()
}

func (r *Recorder) apply(j job) error {
	l, err := r.store.GetLearner(j.learnerID)
	if err != nil {
		return fmt.Errorf("read learner: %w", err)
	}
	if l == nil {
		return fmt.Errorf("%w: %d", errNoLearner, j.learnerID)
	}
	upd := j.change(l)
	if upd.Empty() {
		return nil
	}
	if err := r.store.UpdateLearner(j.learnerID, upd); err != nil {
		return fmt.Errorf("update learner: %w", err)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
