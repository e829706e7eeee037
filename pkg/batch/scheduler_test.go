package batch_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zackiles/bluebird-queue/pkg/batch"
	srvErrors "github.com/zackiles/bluebird-queue/pkg/errors"
	"github.com/zackiles/bluebird-queue/pkg/future"
)

func TestScheduler(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Batch Scheduler Suite")
}

// valueItem produces v after an optional sleep.
func valueItem(v any, d time.Duration) batch.WorkItem {
	return batch.FromFactory(func() *future.Future[any] {
		return future.Go(context.Background(), func(ctx context.Context) (any, error) {
			if d > 0 {
				time.Sleep(d)
			}
			return v, nil
		})
	})
}

// settledOnly exposes just the awaitable shape, no factory wrapper.
type settledOnly struct {
	c chan future.Result[any]
}

func newSettledOnly(v any) *settledOnly {
	c := make(chan future.Result[any], 1)
	c <- future.Result[any]{Data: v}
	return &settledOnly{c: c}
}

func (s *settledOnly) C() <-chan future.Result[any] { return s.c }

var _ = Describe("Scheduler", func() {
	Describe("Add", func() {
		It("should reject a zero-value work item and enqueue nothing", func() {
			s, err := batch.New(batch.Options{})
			Expect(err).NotTo(HaveOccurred())

			err = s.Add(batch.WorkItem{})
			Expect(srvErrors.IsInvalidWorkItem(err)).To(BeTrue())
			Expect(s.Pending()).To(BeZero())
		})

		It("should reject the whole sequence when one item is invalid", func() {
			s, err := batch.New(batch.Options{})
			Expect(err).NotTo(HaveOccurred())

			err = s.Add(valueItem(1, 0), batch.WorkItem{}, valueItem(2, 0))
			Expect(srvErrors.IsInvalidWorkItem(err)).To(BeTrue())
			Expect(s.Pending()).To(BeZero())
		})

		It("should preserve relative order of a bulk append", func() {
			s, err := batch.New(batch.Options{})
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Add(valueItem(1, 0), valueItem(2, 0), valueItem(3, 0))).To(Succeed())
			Expect(s.Pending()).To(Equal(3))
		})
	})

	Describe("Start", func() {
		It("should resolve in insertion order with two batches of 4 and 3", func() {
			s, err := batch.New(batch.Options{})
			Expect(err).NotTo(HaveOccurred())

			// Earlier items sleep longer so completion order inside a
			// batch differs from insertion order.
			for i := 1; i <= 7; i++ {
				Expect(s.Add(valueItem(i, time.Duration(8-i)*10*time.Millisecond))).To(Succeed())
			}

			var result future.Result[[]any]
			Eventually(s.Start().C(), 5*time.Second).Should(Receive(&result))
			Expect(result.Err).NotTo(HaveOccurred())
			Expect(result.Data).To(Equal([]any{1, 2, 3, 4, 5, 6, 7}))
			Expect(s.Pending()).To(BeZero())
			Expect(s.State()).To(Equal(batch.StateCompleted))
		})

		It("should never run more items at once than the concurrency ceiling", func() {
			s, err := batch.New(batch.Options{Concurrency: 2})
			Expect(err).NotTo(HaveOccurred())

			var active, maxActive, batchStarts int32
			for i := 0; i < 6; i++ {
				Expect(s.Add(batch.FromFactory(func() *future.Future[any] {
					return future.Go(context.Background(), func(ctx context.Context) (any, error) {
						cur := atomic.AddInt32(&active, 1)
						if cur == 1 {
							atomic.AddInt32(&batchStarts, 1)
						}
						for {
							old := atomic.LoadInt32(&maxActive)
							if cur <= old || atomic.CompareAndSwapInt32(&maxActive, old, cur) {
								break
							}
						}
						time.Sleep(40 * time.Millisecond)
						atomic.AddInt32(&active, -1)
						return nil, nil
					})
				}))).To(Succeed())
			}

			var result future.Result[[]any]
			Eventually(s.Start().C(), 5*time.Second).Should(Receive(&result))
			Expect(result.Err).NotTo(HaveOccurred())
			Expect(atomic.LoadInt32(&maxActive)).To(BeNumerically("<=", 2))
			Expect(atomic.LoadInt32(&batchStarts)).To(Equal(int32(3)))
		})

		It("should apply the post-batch delay before completing", func() {
			s, err := batch.New(batch.Options{Delay: 300 * time.Millisecond})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Add(valueItem("hello", 0))).To(Succeed())

			start := time.Now()
			var result future.Result[[]any]
			Eventually(s.Start().C(), 5*time.Second).Should(Receive(&result))
			Expect(result.Err).NotTo(HaveOccurred())
			Expect(result.Data).To(Equal([]any{"hello"}))
			Expect(time.Since(start)).To(BeNumerically(">=", 300*time.Millisecond))
		})

		It("should reject with the failing unit's error and skip completion", func() {
			completed := make(chan []any, 1)
			s, err := batch.New(batch.Options{
				OnComplete: func(results []any) { completed <- results },
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Add(valueItem(1, 0))).To(Succeed())
			Expect(s.Add(batch.FromFactory(func() *future.Future[any] {
				return future.Rejected[any](errors.New("this failed"))
			}))).To(Succeed())
			Expect(s.Add(valueItem(3, 0))).To(Succeed())

			var result future.Result[[]any]
			Eventually(s.Start().C(), 5*time.Second).Should(Receive(&result))
			Expect(result.Err).To(MatchError("this failed"))
			Expect(s.State()).To(Equal(batch.StateFailed))
			Consistently(completed, 200*time.Millisecond).ShouldNot(Receive())
		})

		It("should accept a bare awaitable identically to a factory", func() {
			s, err := batch.New(batch.Options{})
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Add(batch.FromAwaitable(newSettledOnly("a")))).To(Succeed())
			Expect(s.Add(valueItem("b", 0))).To(Succeed())

			var result future.Result[[]any]
			Eventually(s.Start().C(), 5*time.Second).Should(Receive(&result))
			Expect(result.Err).NotTo(HaveOccurred())
			Expect(result.Data).To(Equal([]any{"a", "b"}))
		})

		It("should route factory panics to the error path", func() {
			s, err := batch.New(batch.Options{})
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Add(batch.FromFactory(func() *future.Future[any] {
				panic("bad factory")
			}))).To(Succeed())

			var result future.Result[[]any]
			Eventually(s.Start().C(), 5*time.Second).Should(Receive(&result))
			Expect(srvErrors.IsDispatchFault(result.Err)).To(BeTrue())
		})

		It("should resolve an empty queue with no results", func() {
			s, err := batch.New(batch.Options{})
			Expect(err).NotTo(HaveOccurred())

			var result future.Result[[]any]
			Eventually(s.Start().C(), 5*time.Second).Should(Receive(&result))
			Expect(result.Err).NotTo(HaveOccurred())
			Expect(result.Data).To(BeEmpty())
		})

		It("should complete runs contended by an overlapping Start via the retry path", func() {
			s, err := batch.New(batch.Options{Concurrency: 1, Interval: 20 * time.Millisecond})
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Add(valueItem(1, 100*time.Millisecond))).To(Succeed())
			Expect(s.Add(valueItem(2, 0))).To(Succeed())

			s.Start()
			time.Sleep(30 * time.Millisecond) // first batch is in flight
			second := s.Start()

			var result future.Result[[]any]
			Eventually(second.C(), 5*time.Second).Should(Receive(&result))
			Expect(result.Err).NotTo(HaveOccurred())
			Expect(result.Data).To(Equal([]any{1, 2}))
		})
	})

	Describe("AddNow", func() {
		It("should dispatch immediately when idle", func() {
			completed := make(chan []any, 1)
			s, err := batch.New(batch.Options{
				OnComplete: func(results []any) { completed <- results },
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(s.AddNow(valueItem("now", 0))).To(Succeed())

			var results []any
			Eventually(completed, 2*time.Second).Should(Receive(&results))
			Expect(results).To(Equal([]any{"now"}))
		})

		It("should leave an in-flight batch to reach the new item", func() {
			completed := make(chan []any, 1)
			s, err := batch.New(batch.Options{
				Concurrency: 1,
				OnComplete:  func(results []any) { completed <- results },
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(s.AddNow(valueItem(1, 100*time.Millisecond))).To(Succeed())
			Eventually(s.State, time.Second).Should(Equal(batch.StateBatchInFlight))
			Expect(s.AddNow(valueItem(2, 0))).To(Succeed())

			var results []any
			Eventually(completed, 5*time.Second).Should(Receive(&results))
			Expect(results).To(Equal([]any{1, 2}))
		})
	})

	Describe("Drain", func() {
		It("should be a no-op on an empty queue", func() {
			s, err := batch.New(batch.Options{})
			Expect(err).NotTo(HaveOccurred())

			s.Drain()
			Consistently(s.State, 100*time.Millisecond).Should(Equal(batch.StateIdle))
		})

		It("should push all queued batches through and empty the queue", func() {
			completed := make(chan []any, 1)
			s, err := batch.New(batch.Options{
				Concurrency: 2,
				OnComplete:  func(results []any) { completed <- results },
			})
			Expect(err).NotTo(HaveOccurred())

			for i := 1; i <= 5; i++ {
				Expect(s.Add(valueItem(i, 10*time.Millisecond))).To(Succeed())
			}

			s.Drain()

			var results []any
			Eventually(completed, 5*time.Second).Should(Receive(&results))
			Expect(results).To(Equal([]any{1, 2, 3, 4, 5}))
			Expect(s.Pending()).To(BeZero())
		})
	})

	Describe("Terminal states", func() {
		It("should reject operations after completion", func() {
			s, err := batch.New(batch.Options{})
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Add(valueItem(1, 0))).To(Succeed())
			Eventually(s.Start().C(), 5*time.Second).Should(Receive())

			err = s.Add(valueItem(2, 0))
			Expect(srvErrors.IsSchedulerDone(err)).To(BeTrue())

			var result future.Result[[]any]
			Eventually(s.Start().C(), time.Second).Should(Receive(&result))
			Expect(srvErrors.IsSchedulerDone(result.Err)).To(BeTrue())
		})

		It("should fire the error callback exactly once", func() {
			failures := make(chan error, 4)
			s, err := batch.New(batch.Options{
				Concurrency: 1,
				OnError:     func(err error) { failures <- err },
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Add(batch.FromFactory(func() *future.Future[any] {
				return future.Rejected[any](errors.New("first"))
			}))).To(Succeed())
			Expect(s.Add(batch.FromFactory(func() *future.Future[any] {
				return future.Rejected[any](errors.New("second"))
			}))).To(Succeed())

			s.Drain()

			Eventually(failures, 2*time.Second).Should(Receive(MatchError("first")))
			Consistently(failures, 200*time.Millisecond).ShouldNot(Receive())
		})
	})
})
