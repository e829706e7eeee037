package future

import (
	"context"
	"time"
)

type completion[T any] struct {
	idx int
	res Result[T]
}

// All combines the given awaitables into one future that resolves with their
// values in input order once every one of them has settled, or rejects with
// the first error observed, without waiting for the rest.
//
// Each awaitable's channel is consumed exactly once. After a rejection the
// readers for still-pending awaitables keep running until their values
// settle, but their results are discarded.
func All[T any](ctx context.Context, aws ...Awaitable[T]) *Future[[]T] {
	c := make(chan Result[[]T], 1)
	ctx, cancel := context.WithCancel(ctx)

	if len(aws) == 0 {
		c <- Result[[]T]{Data: []T{}}
		return NewFuture(c, cancel)
	}

	events := make(chan completion[T], len(aws))
	for i, aw := range aws {
		go func(idx int, aw Awaitable[T]) {
			select {
			case res := <-aw.C():
				events <- completion[T]{idx: idx, res: res}
			case <-ctx.Done():
				events <- completion[T]{idx: idx, res: Result[T]{Err: ctx.Err()}}
			}
		}(i, aw)
	}

	go func() {
		out := make([]T, len(aws))
		for range aws {
			ev := <-events
			if ev.res.Err != nil {
				c <- Result[[]T]{Err: ev.res.Err}
				return
			}
			out[ev.idx] = ev.res.Data
		}
		c <- Result[[]T]{Data: out}
	}()

	return NewFuture(c, cancel)
}

// Delay forwards aw's settlement after waiting d on success. Rejections are
// forwarded immediately.
func Delay[T any](aw Awaitable[T], d time.Duration) *Future[T] {
	c := make(chan Result[T], 1)

	go func() {
		res := <-aw.C()
		if res.Err == nil && d > 0 {
			time.Sleep(d)
		}
		c <- res
	}()

	return NewFuture(c, nil)
}

// Then chains fn onto aw: the returned future settles with fn's outcome once
// aw resolves, or forwards aw's rejection untouched.
func Then[T, U any](aw Awaitable[T], fn func(T) (U, error)) *Future[U] {
	c := make(chan Result[U], 1)

	go func() {
		res := <-aw.C()
		if res.Err != nil {
			c <- Result[U]{Err: res.Err}
			return
		}
		v, err := fn(res.Data)
		c <- Result[U]{Data: v, Err: err}
	}()

	return NewFuture(c, nil)
}

// Catch chains an error handler onto aw. On rejection the returned future
// settles with fn's outcome, giving the handler a chance to recover with a
// substitute value. Resolutions are forwarded untouched.
func Catch[T any](aw Awaitable[T], fn func(error) (T, error)) *Future[T] {
	c := make(chan Result[T], 1)

	go func() {
		res := <-aw.C()
		if res.Err == nil {
			c <- res
			return
		}
		v, err := fn(res.Err)
		c <- Result[T]{Data: v, Err: err}
	}()

	return NewFuture(c, nil)
}
