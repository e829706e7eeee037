package batch

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/creasty/defaults"
	"go.uber.org/zap"

	srvErrors "github.com/zackiles/bluebird-queue/pkg/errors"
	"github.com/zackiles/bluebird-queue/pkg/future"
)

// Scheduler executes enqueued work items in FIFO batches of up to
// Concurrency items, accumulating results in insertion order. Exactly one of
// the completion or error callbacks fires per run.
type Scheduler struct {
	mu      sync.Mutex
	pending queue[WorkItem]
	timers  []*time.Timer
	results []any
	busy    bool
	done    State // empty until a terminal state is reached

	concurrency int
	delay       time.Duration
	retry       backoff.BackOff
	onComplete  func(results []any)
	onError     func(err error)

	mainCtx    context.Context
	mainCancel context.CancelFunc

	log *zap.SugaredLogger
}

func New(opts Options) (*Scheduler, error) {
	if err := defaults.Set(&opts); err != nil {
		return nil, err
	}
	if opts.Concurrency <= 0 {
		return nil, fmt.Errorf("concurrency must be positive, got %d", opts.Concurrency)
	}
	if opts.Delay < 0 {
		return nil, fmt.Errorf("delay must not be negative, got %s", opts.Delay)
	}
	if opts.Interval < 0 {
		return nil, fmt.Errorf("interval must not be negative, got %s", opts.Interval)
	}

	retry := opts.Backoff
	if retry == nil {
		retry = backoff.NewConstantBackOff(opts.Interval)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		pending:     queue[WorkItem]{},
		concurrency: opts.Concurrency,
		delay:       opts.Delay,
		retry:       retry,
		onComplete:  opts.OnComplete,
		onError:     opts.OnError,
		mainCtx:     ctx,
		mainCancel:  cancel,
		log:         zap.S().Named("batch_scheduler"),
	}, nil
}

// State reports the engine state derived from the busy flag, outstanding
// retry timers and terminal transitions.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.done != "":
		return s.done
	case s.busy:
		return StateBatchInFlight
	case len(s.timers) > 0:
		return StateAwaitingRetry
	default:
		return StateIdle
	}
}

// Pending reports the number of enqueued, not yet dispatched work items.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.Len()
}

// Add appends items to the tail of the pending queue without triggering
// dispatch. Invalid items are rejected before anything is enqueued.
func (s *Scheduler) Add(items ...WorkItem) error {
	for _, it := range items {
		if err := it.validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != "" {
		return srvErrors.NewSchedulerDoneError(string(s.done))
	}
	s.pending.PushAll(items)
	return nil
}

// AddNow appends the item and attempts a dispatch if the engine is idle. If
// a batch is already in flight the item is reached by that batch's own
// completion chain.
func (s *Scheduler) AddNow(item WorkItem) error {
	if err := s.Add(item); err != nil {
		return err
	}

	s.mu.Lock()
	idle := !s.busy
	s.mu.Unlock()
	if idle {
		go s.dequeue()
	}
	return nil
}

// Start schedules a dispatch attempt and returns a future that settles with
// the full ordered result log once the queue drains, or with the first
// failure. Start overrides any callbacks given at construction. Stopping the
// returned future aborts the run.
func (s *Scheduler) Start() *future.Future[[]any] {
	c := make(chan future.Result[[]any], 1)

	s.mu.Lock()
	if s.done != "" {
		st := s.done
		s.mu.Unlock()
		c <- future.Result[[]any]{Err: srvErrors.NewSchedulerDoneError(string(st))}
		return future.NewFuture(c, nil)
	}
	s.onComplete = func(results []any) {
		c <- future.Result[[]any]{Data: results}
	}
	s.onError = func(err error) {
		c <- future.Result[[]any]{Err: err}
	}
	s.mu.Unlock()

	go s.dequeue()
	return future.NewFuture(c, s.mainCancel)
}

// Drain pushes all queued items through to completion without honoring the
// retry wait. Outstanding retry timers are cancelled, not honored. Drain
// does not wait: completion is observed via the callbacks (or the future
// returned by a prior Start).
func (s *Scheduler) Drain() {
	s.mu.Lock()
	if s.done != "" || s.pending.Len() == 0 {
		s.mu.Unlock()
		return
	}
	s.stopTimersLocked()
	busy := s.busy
	s.mu.Unlock()

	// With no retry timers left, an in-flight batch's own settlement
	// chains straight into the remaining batches.
	if !busy {
		go s.dequeue()
	}
}

// dequeue drives batches to settlement one at a time until the queue is
// empty, the engine is found busy, or a failure terminates the run.
func (s *Scheduler) dequeue() {
	defer func() {
		if rec := recover(); rec != nil {
			s.fail(srvErrors.NewDispatchFaultError(fmt.Errorf("dispatch panicked: %v", rec)))
		}
	}()
	for s.dispatchOnce() {
	}
}

// dispatchOnce runs a single batch to settlement and reports whether the
// next batch should be dispatched immediately.
func (s *Scheduler) dispatchOnce() bool {
	s.mu.Lock()
	if s.done != "" {
		s.mu.Unlock()
		return false
	}
	if s.busy {
		d := s.retry.NextBackOff()
		var t *time.Timer
		t = time.AfterFunc(d, func() {
			s.removeTimer(t)
			s.dequeue()
		})
		s.timers = append(s.timers, t)
		s.mu.Unlock()
		s.log.Debugw("engine busy, dispatch retry scheduled", "after", d)
		return false
	}
	s.busy = true
	s.retry.Reset()

	items := s.pending.PopN(s.concurrency)
	if len(items) == 0 {
		s.busy = false
		idle := len(s.timers) == 0
		s.mu.Unlock()
		if idle {
			s.complete()
		}
		return false
	}
	s.mu.Unlock()

	aws := make([]future.Awaitable[any], len(items))
	for i, it := range items {
		aws[i] = it.await()
	}
	settled := future.Awaitable[[]any](future.All(s.mainCtx, aws...))
	if s.delay > 0 {
		settled = future.Delay[[]any](settled, s.delay)
	}

	res := <-settled.C()
	if res.Err != nil {
		s.fail(res.Err)
		return false
	}

	s.mu.Lock()
	s.results = append(s.results, res.Data...)
	s.busy = false
	pendingEmpty := s.pending.Len() == 0
	timersEmpty := len(s.timers) == 0
	s.mu.Unlock()
	s.log.Debugw("batch settled", "size", len(items), "pending", s.Pending())

	if pendingEmpty && timersEmpty {
		s.complete()
		return false
	}
	// With a retry timer outstanding the timer drives the next dispatch.
	return !pendingEmpty && timersEmpty
}

func (s *Scheduler) complete() {
	s.mu.Lock()
	if s.done != "" {
		s.mu.Unlock()
		return
	}
	s.done = StateCompleted
	s.stopTimersLocked()
	cb := s.onComplete
	results := slices.Clone(s.results)
	s.mu.Unlock()

	s.mainCancel()
	s.log.Debugw("run completed", "results", len(results))
	if cb != nil {
		cb(results)
	}
}

func (s *Scheduler) fail(err error) {
	s.mu.Lock()
	if s.done != "" {
		s.mu.Unlock()
		return
	}
	s.done = StateFailed
	s.busy = false
	s.stopTimersLocked()
	cb := s.onError
	s.mu.Unlock()

	s.mainCancel()
	s.log.Debugw("run failed", "error", err)
	if cb != nil {
		cb(err)
	}
}

func (s *Scheduler) removeTimer(t *time.Timer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.timers {
		if o == t {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			break
		}
	}
}

func (s *Scheduler) stopTimersLocked() {
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}
