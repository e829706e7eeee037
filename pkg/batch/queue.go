package batch

type queue[T any] []T

func (wq *queue[T]) Len() int { return len(*wq) }

func (wq *queue[T]) Push(t T) {
	*wq = append(*wq, t)
}

func (wq *queue[T]) PushAll(ts []T) {
	*wq = append(*wq, ts...)
}

// PopN removes and returns up to n items from the head, in order.
func (wq *queue[T]) PopN(n int) []T {
	old := *wq
	if n > len(old) {
		n = len(old)
	}
	if n <= 0 {
		return nil
	}
	x := old[:n]
	*wq = old[n:]
	return x
}
