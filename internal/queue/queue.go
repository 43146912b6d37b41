// Package queue carries generation tasks from the submission API to workers
// with at-least-once delivery.
package queue

import (
	"context"

	"deckgen/internal/domain"
)

// Task is the wire payload of one queued job.
type Task struct {
	JobID   string                   `json:"job_id"`
	Request domain.GenerationRequest `json:"request"`
}

// Delivery is one received task plus its acknowledgement handle. Exactly one
// of Ack, Term or Nack should be called per delivery:
//
//	Ack:  the delivery is done, do not redeliver.
//	Term: the delivery is done but the outcome was a failure; the broker
//	      records the termination for monitoring, no redelivery.
//	Nack: the task could not be handled, make it visible again.
type Delivery struct {
	Task

	ack  func() error
	term func() error
	nack func() error
}

func (d *Delivery) Ack() error {
	if d.ack == nil {
		return nil
	}
	return d.ack()
}

func (d *Delivery) Term() error {
	if d.term == nil {
		return nil
	}
	return d.term()
}

func (d *Delivery) Nack() error {
	if d.nack == nil {
		return nil
	}
	return d.nack()
}

// Queue is the task transport contract. Dequeue blocks cooperatively until a
// task arrives or ctx is cancelled; no enqueued task is ever silently
// dropped. Delivery is at-least-once, so consumers must tolerate duplicates
// (the job store claim gate makes redelivered tasks no-ops).
type Queue interface {
	Enqueue(ctx context.Context, task Task) error
	Dequeue(ctx context.Context) (*Delivery, error)
}
