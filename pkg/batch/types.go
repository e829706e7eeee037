package batch

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"

	srvErrors "github.com/zackiles/bluebird-queue/pkg/errors"
	"github.com/zackiles/bluebird-queue/pkg/future"
)

// State represents the current state of the Scheduler.
type State string

const (
	// StateIdle - no batch in flight, waiting for work or dispatch
	StateIdle State = "idle"
	// StateBatchInFlight - a batch of work items is executing
	StateBatchInFlight State = "in-flight"
	// StateAwaitingRetry - dispatch found the engine busy, a retry is scheduled
	StateAwaitingRetry State = "awaiting-retry"
	// StateCompleted - all work settled, completion delivered
	StateCompleted State = "completed"
	// StateFailed - a work item or the dispatcher failed, error delivered
	StateFailed State = "failed"
)

// Factory is deferred work: invoked at dispatch time, it produces the
// asynchronous value to wait on.
type Factory func() *future.Future[any]

// WorkItem is a unit of deferred work: either a Factory or an already
// in-flight awaitable, never both.
type WorkItem struct {
	factory   Factory
	awaitable future.Awaitable[any]
}

// FromFactory wraps a factory into a WorkItem.
func FromFactory(fn Factory) WorkItem {
	return WorkItem{factory: fn}
}

// FromAwaitable wraps an already asynchronous value into a WorkItem.
func FromAwaitable(aw future.Awaitable[any]) WorkItem {
	return WorkItem{awaitable: aw}
}

func (w WorkItem) validate() error {
	switch {
	case w.factory != nil && w.awaitable != nil:
		return srvErrors.NewInvalidWorkItemError("both factory and awaitable set")
	case w.factory == nil && w.awaitable == nil:
		return srvErrors.NewInvalidWorkItemError("neither factory nor awaitable set")
	}
	return nil
}

// await materializes the item's asynchronous value. Factory panics and nil
// futures are turned into rejected futures so they flow through the normal
// error path.
func (w WorkItem) await() (aw future.Awaitable[any]) {
	if w.awaitable != nil {
		return w.awaitable
	}
	defer func() {
		if rec := recover(); rec != nil {
			aw = future.Rejected[any](srvErrors.NewDispatchFaultError(fmt.Errorf("factory panicked: %v", rec)))
		}
	}()
	f := w.factory()
	if f == nil {
		return future.Rejected[any](srvErrors.NewDispatchFaultError(fmt.Errorf("factory returned a nil future")))
	}
	return f
}

// Options configures a Scheduler. The zero value is usable: defaults are
// applied at construction.
type Options struct {
	// Concurrency caps the number of work items dispatched per batch.
	Concurrency int `default:"4"`
	// Delay is appended after each batch settles, before its results are
	// accepted into the result log.
	Delay time.Duration `default:"0s"`
	// Interval separates dispatch retries while a batch is in flight.
	Interval time.Duration `default:"5s"`
	// Backoff overrides the retry policy. Defaults to a constant backoff
	// at Interval.
	Backoff backoff.BackOff
	// OnComplete receives the full ordered result log. Overridden by Start.
	OnComplete func(results []any)
	// OnError receives the first failure. Overridden by Start.
	OnError func(err error)
}
