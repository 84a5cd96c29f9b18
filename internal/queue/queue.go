// Package queue carries task ids from the request path to the workers.
package queue

import (
	"context"
	"errors"
	"time"
)

// TaskQueueKey is the redis list workers block on.
const TaskQueueKey = "task_queue"

var (
	// ErrEmpty is returned by Dequeue when nothing arrived before the timeout.
	ErrEmpty = errors.New("queue: no task available")
	// ErrFull is returned by Enqueue when a bounded queue has no room.
	ErrFull = errors.New("queue: full")
)

// Queue is a FIFO of task ids. Delivery is at-least-once; consumers rely on
// the conditional PENDING -> PROCESSING transition to drop duplicates.
type Queue interface {
	Enqueue(ctx context.Context, taskID uint) error
	Dequeue(ctx context.Context, timeout time.Duration) (uint, error)
}
