package queue

import (
	"context"
	"time"
)

// MemoryQueue is an in-process Queue for single-binary deployments and tests.
type MemoryQueue struct {
	ch chan uint
}

func NewMemoryQueue(capacity int) *MemoryQueue {
	if capacity <= 0 {
		capacity = 1024
	}
	return &MemoryQueue{ch: make(chan uint, capacity)}
}

// Enqueue never blocks; it returns ErrFull when the buffer has no room.
func (q *MemoryQueue) Enqueue(ctx context.Context, taskID uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case q.ch <- taskID:
		return nil
	default:
		return ErrFull
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context, timeout time.Duration) (uint, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case id := <-q.ch:
		return id, nil
	case <-timer.C:
		return 0, ErrEmpty
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Len reports the number of queued ids.
func (q *MemoryQueue) Len() int {
	return len(q.ch)
}
