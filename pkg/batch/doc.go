// Package batch implements a bounded-concurrency task scheduler: callers
// enqueue units of deferred work and the scheduler executes them in
// fixed-size FIFO batches, collecting results in insertion order while never
// running more than Concurrency units at once.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│                            Scheduler                                │
//	│                                                                     │
//	│  ┌─────────────────────────────────────────────────────────┐        │
//	│  │                     Pending Queue (FIFO)                │        │
//	│  │  [item1] [item2] [item3] [item4] | [item5] [item6] ...  │        │
//	│  └───────────────┬─────────────────────────────────────────┘        │
//	│                  │ PopN(concurrency)                                │
//	│                  ▼                                                  │
//	│          ┌───────────────┐      busy      ┌──────────────────┐      │
//	│          │  dispatch     │ ─────────────► │  retry timer     │      │
//	│          │  (one batch)  │                │  (interval wait) │      │
//	│          └───────┬───────┘                └────────┬─────────┘      │
//	│                  │                                 │                │
//	│                  ▼                                 │ re-dispatch    │
//	│          future.All + Delay  ◄─────────────────────┘                │
//	│                  │                                                  │
//	│                  ▼                                                  │
//	│  ┌─────────────────────────────────────────────────────────┐        │
//	│  │            Result Log (append, item order)              │        │
//	│  └─────────────────────────────────────────────────────────┘        │
//	│                  │ queue and timers empty                           │
//	│                  ▼                                                  │
//	│           OnComplete(results) / OnError(err)                        │
//	└─────────────────────────────────────────────────────────────────────┘
//
// # Work Items
//
// A WorkItem is a tagged union, built with exactly one of:
//
//   - FromFactory(fn): deferred work; fn is invoked at dispatch time and
//     produces the asynchronous value to wait on.
//   - FromAwaitable(aw): work that is already in flight; any value exposing
//     the future.Awaitable shape is accepted.
//
// Validation happens once at enqueue time: a zero-value or double-set item
// is rejected with an InvalidWorkItemError and nothing is enqueued.
//
// # Batch Dispatch
//
//  1. If a batch is already in flight, schedule a one-shot retry timer at
//     the configured backoff interval and return. Contention is resolved by
//     cooperative polling, not a wait queue.
//  2. Otherwise mark busy and remove up to Concurrency items from the head
//     of the queue, in order.
//  3. Combine their asynchronous values with future.All (resolves with all
//     values in item order, rejects on the first failure) and append the
//     configured post-batch Delay.
//  4. On settlement append the results to the log, clear busy, then either
//     dispatch the next batch, defer to an outstanding retry timer, or, with
//     queue and timers both empty, deliver the completion callback.
//
// Any rejection anywhere terminates the run: the error callback fires
// exactly once and no further batches are dispatched.
//
// # Ordering
//
// Batches run strictly one at a time and each batch's results are appended
// in item order, so the final result log reproduces insertion order. Drain
// keeps that property: it cancels the retry timers and lets the normal batch
// chain run back to back, skipping only the interval wait.
//
// # Terminal States
//
// Completed and Failed are terminal. Add, AddNow and Start report a
// SchedulerDoneError afterwards and Drain is a no-op; a fresh Scheduler is
// needed for a fresh run.
//
// # Usage Example
//
//	sched, _ := batch.New(batch.Options{Concurrency: 4})
//
//	for _, id := range ids {
//	    id := id
//	    _ = sched.Add(batch.FromFactory(func() *future.Future[any] {
//	        return future.Go(context.Background(), func(ctx context.Context) (any, error) {
//	            return fetch(ctx, id)
//	        })
//	    }))
//	}
//
//	result := <-sched.Start().C()
//	if result.Err != nil {
//	    log.Printf("run failed: %v", result.Err)
//	} else {
//	    log.Printf("run completed: %d results", len(result.Data))
//	}
package batch
