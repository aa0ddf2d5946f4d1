package event

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultCapacity is the queue capacity used when none is configured.
const DefaultCapacity = 256

// Queue is a bounded, multi-producer, single-consumer FIFO of messages.
type Queue struct {
	ch        chan Msg
	space     chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	// mu orders sends against Close.
	mu     sync.RWMutex
	closed bool

	// Stats
	posted    atomic.Uint64
	delivered atomic.Uint64
	dropped   atomic.Uint64
	blocked   atomic.Uint64
}

// QueueOption configures a Queue.
type QueueOption func(*queueConfig)

type queueConfig struct {
	capacity int
}

// WithCapacity sets the queue capacity.
func WithCapacity(n int) QueueOption {
	return func(c *queueConfig) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// NewQueue creates an open queue.
func NewQueue(opts ...QueueOption) *Queue {
	cfg := queueConfig{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Queue{
		ch:    make(chan Msg, cfg.capacity),
		space: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Post appends msg, blocking while the queue is full. It returns false if
// the queue is closed (the message is dropped) or ctx ends first. Nil
// messages are ignored. No message is queued once Close has begun.
func (q *Queue) Post(ctx context.Context, msg Msg) bool {
	if msg == nil {
		return true
	}
	switch q.offer(msg) {
	case offerAccepted:
		return true
	case offerClosed:
		q.dropped.Add(1)
		return false
	}

	q.blocked.Add(1)
	for {
		select {
		case <-q.space:
		case <-q.done:
			q.dropped.Add(1)
			return false
		case <-ctx.Done():
			q.dropped.Add(1)
			return false
		}

		switch q.offer(msg) {
		case offerAccepted:
			// Pass the wakeup on if room remains for another producer.
			if len(q.ch) < cap(q.ch) {
				q.signalSpace()
			}
			return true
		case offerClosed:
			q.dropped.Add(1)
			return false
		}
	}
}

// TryPost appends msg without blocking.
func (q *Queue) TryPost(msg Msg) error {
	if msg == nil {
		return nil
	}
	switch q.offer(msg) {
	case offerAccepted:
		return nil
	case offerClosed:
		q.dropped.Add(1)
		return ErrQueueClosed
	default:
		q.dropped.Add(1)
		return ErrQueueFull
	}
}

type offerResult int

const (
	offerFull offerResult = iota
	offerAccepted
	offerClosed
)

// offer attempts a non-blocking send that cannot interleave with Close.
func (q *Queue) offer(msg Msg) offerResult {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return offerClosed
	}
	select {
	case q.ch <- msg:
		q.posted.Add(1)
		return offerAccepted
	default:
		return offerFull
	}
}

func (q *Queue) signalSpace() {
	select {
	case q.space <- struct{}{}:
	default:
	}
}

// Next returns the oldest message, waiting up to timeout for one to
// arrive. A queued message is returned immediately. It returns false on
// timeout or once the queue is closed and empty.
func (q *Queue) Next(timeout time.Duration) (Msg, bool) {
	if msg, ok := q.TryNext(); ok {
		return msg, true
	}
	if q.Closed() {
		return nil, false
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case msg := <-q.ch:
		q.delivered.Add(1)
		q.signalSpace()
		return msg, true
	case <-timer.C:
		return nil, false
	case <-q.done:
		return q.TryNext()
	}
}

// TryNext returns the oldest message if one is already queued.
func (q *Queue) TryNext() (Msg, bool) {
	select {
	case msg := <-q.ch:
		q.delivered.Add(1)
		q.signalSpace()
		return msg, true
	default:
		return nil, false
	}
}

// Len returns the number of queued messages.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Cap returns the queue capacity.
func (q *Queue) Cap() int {
	return cap(q.ch)
}

// Close stops accepting messages and releases blocked producers. Messages
// already queued remain readable. Close is idempotent.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		q.closed = true
		q.mu.Unlock()
		close(q.done)
	})
}

// Closed reports whether Close has been called.
func (q *Queue) Closed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

// Done returns a channel closed when the queue is closed.
func (q *Queue) Done() <-chan struct{} {
	return q.done
}

// Stats returns queue statistics.
func (q *Queue) Stats() QueueStats {
	return QueueStats{
		Posted:    q.posted.Load(),
		Delivered: q.delivered.Load(),
		Dropped:   q.dropped.Load(),
		Blocked:   q.blocked.Load(),
		Depth:     q.Len(),
	}
}

// QueueStats contains statistics for a queue.
type QueueStats struct {
	// Posted is the number of messages accepted.
	Posted uint64

	// Delivered is the number of messages handed to the consumer.
	Delivered uint64

	// Dropped is the number of messages rejected because the queue was
	// closed, full (TryPost), or the producer's context ended.
	Dropped uint64

	// Blocked is the number of posts that had to wait for space.
	Blocked uint64

	// Depth is the current number of queued messages.
	Depth int
}
