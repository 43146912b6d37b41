package queue

import (
	"context"
	"errors"
)

// MemoryQueue is a channel-backed Queue for tests and single-process
// development. Nack re-enqueues at the back, which is enough to exercise the
// redelivery paths; it makes no durability promises.
type MemoryQueue struct {
	ch chan Task
}

// NewMemoryQueue returns a queue buffering up to size tasks.
func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 256
	}
	return &MemoryQueue{ch: make(chan Task, size)}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, task Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case q.ch <- task:
		return nil
	default:
		return errors.New("queue full")
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context) (*Delivery, error) {
	select {
	case task := <-q.ch:
		return &Delivery{
			Task: task,
			nack: func() error {
				select {
				case q.ch <- task:
					return nil
				default:
					return errors.New("queue full")
				}
			},
		}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len reports the number of buffered tasks. Test helper.
func (q *MemoryQueue) Len() int {
	return len(q.ch)
}

var _ Queue = (*MemoryQueue)(nil)
