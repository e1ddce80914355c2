package policy

import (
	"context"
	"sync"
)

// waitQueue admits up to max calls to run concurrently and parks the rest in
// strict FIFO order. A plain buffered-channel semaphore does not guarantee
// wakeup order, so the queue keeps an explicit waiter list and hands each
// freed slot to the head waiter.
type waitQueue struct {
	mu      sync.Mutex
	max     int
	running int
	waiters []chan struct{}
}

func newWaitQueue(max int) *waitQueue {
	if max < 1 {
		max = 1
	}
	return &waitQueue{max: max}
}

// acquire blocks until a slot is free or ctx is done. On success the caller
// owns one slot and must call release exactly once.
func (q *waitQueue) acquire(ctx context.Context) error {
	q.mu.Lock()
	if q.running < q.max {
		q.running++
		q.mu.Unlock()
		return nil
	}
	ready := make(chan struct{}, 1)
	q.waiters = append(q.waiters, ready)
	q.mu.Unlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		q.mu.Lock()
		for i, w := range q.waiters {
			if w == ready {
				q.waiters = append(q.waiters[:i], q.waiters[i+1:]...)
				q.mu.Unlock()
				return ctx.Err()
			}
		}
		q.mu.Unlock()
		// The slot was granted between ctx.Done and taking the lock;
		// accept it and pass it straight on.
		<-ready
		q.release()
		return ctx.Err()
	}
}

// release frees the caller's slot. If anyone is waiting, the slot transfers
// to the head waiter without the running count ever dipping.
func (q *waitQueue) release() {
	q.mu.Lock()
	if len(q.waiters) > 0 {
		ready := q.waiters[0]
		q.waiters = q.waiters[1:]
		q.mu.Unlock()
		ready <- struct{}{}
		return
	}
	q.running--
	q.mu.Unlock()
}
