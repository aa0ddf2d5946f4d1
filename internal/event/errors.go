package event

import "errors"

// Sentinel errors for the message queue.
var (
	// ErrQueueClosed is returned when a message is offered to a closed queue.
	ErrQueueClosed = errors.New("message queue is closed")

	// ErrQueueFull is returned by TryPost when the queue is at capacity.
	ErrQueueFull = errors.New("message queue is full")
)
