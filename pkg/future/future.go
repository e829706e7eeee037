package future

import (
	"context"
	"fmt"
)

// Result holds the settled outcome of an asynchronous computation.
type Result[T any] struct {
	Data T
	Err  error
}

// Awaitable is the minimal shape of an asynchronous value: a channel that
// delivers exactly one Result when the value settles. Anything exposing this
// shape can be awaited, combined and chained.
type Awaitable[T any] interface {
	C() <-chan Result[T]
}

// Future is the concrete Awaitable returned by this package. The result
// channel is buffered with size 1 so producers never block on settlement.
type Future[T any] struct {
	input  chan Result[T]
	cancel context.CancelFunc
}

func NewFuture[T any](input chan Result[T], cancel context.CancelFunc) *Future[T] {
	f := &Future[T]{
		input:  input,
		cancel: cancel,
	}

	return f
}

func (f *Future[T]) C() <-chan Result[T] {
	return f.input
}

// Stop cancels the context backing the computation, if any. The future still
// settles: the computation is expected to return ctx.Err().
func (f *Future[T]) Stop() {
	if f.cancel != nil {
		f.cancel()
	}
}

// Go runs fn on its own goroutine and returns a future settling with its
// outcome. Panics in fn are recovered and reported as errors.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	c := make(chan Result[T], 1)
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				c <- Result[T]{Err: fmt.Errorf("future panicked: %v", rec)}
			}
		}()
		v, err := fn(ctx)
		c <- Result[T]{Data: v, Err: err}
	}()

	return NewFuture(c, cancel)
}

// Resolved returns a future already settled with v.
func Resolved[T any](v T) *Future[T] {
	c := make(chan Result[T], 1)
	c <- Result[T]{Data: v}
	return NewFuture(c, nil)
}

// Rejected returns a future already settled with err.
func Rejected[T any](err error) *Future[T] {
	c := make(chan Result[T], 1)
	c <- Result[T]{Err: err}
	return NewFuture(c, nil)
}
