package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

const fetchWait = 5 * time.Second

// NATSQueue implements Queue on a JetStream work-queue stream. The stream is
// file-backed, so queued tasks survive broker and worker restarts, and the
// durable consumer gives ack-based at-least-once delivery: a worker that dies
// after Fetch but before Ack has its task made visible again once the ack
// deadline passes.
type NATSQueue struct {
	conn    *nats.Conn
	js      nats.JetStreamContext
	subject string
	sub     *nats.Subscription
}

// NATSOptions configures stream and consumer names.
type NATSOptions struct {
	URL      string
	Stream   string
	Subject  string
	Consumer string
}

// NewNATSQueue connects to the broker and ensures the stream exists. The
// returned queue can both enqueue and, after the first Dequeue, consume.
func NewNATSQueue(opts NATSOptions) (*NATSQueue, error) {
	if opts.URL == "" {
		opts.URL = nats.DefaultURL
	}
	conn, err := nats.Connect(opts.URL, nats.Name("deckgen"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream context: %w", err)
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:      opts.Stream,
		Subjects:  []string{opts.Subject},
		Retention: nats.WorkQueuePolicy,
		Storage:   nats.FileStorage,
	})
	if err != nil && !errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
		conn.Close()
		return nil, fmt.Errorf("ensure stream %s: %w", opts.Stream, err)
	}

	q := &NATSQueue{conn: conn, js: js, subject: opts.Subject}
	if opts.Consumer != "" {
		sub, err := js.PullSubscribe(opts.Subject, opts.Consumer, nats.AckExplicit())
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("pull subscribe: %w", err)
		}
		q.sub = sub
	}
	return q, nil
}

func (q *NATSQueue) Enqueue(ctx context.Context, task Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	if _, err := q.js.Publish(q.subject, payload, nats.Context(ctx)); err != nil {
		return fmt.Errorf("publish task: %w", err)
	}
	return nil
}

// Dequeue fetches the next task, waiting in bounded pull requests so the
// caller suspends instead of busy-polling.
func (q *NATSQueue) Dequeue(ctx context.Context) (*Delivery, error) {
	if q.sub == nil {
		return nil, errors.New("queue not configured for consuming")
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		msgs, err := q.sub.Fetch(1, nats.MaxWait(fetchWait))
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) {
				continue
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			return nil, fmt.Errorf("fetch task: %w", err)
		}
		if len(msgs) == 0 {
			continue
		}
		msg := msgs[0]
		var task Task
		if err := json.Unmarshal(msg.Data, &task); err != nil {
			// Undecodable payloads can never succeed; terminate them so
			// they do not cycle through redelivery forever.
			_ = msg.Term()
			continue
		}
		return &Delivery{
			Task: task,
			ack:  func() error { return msg.Ack() },
			term: func() error { return msg.Term() },
			nack: func() error { return msg.Nak() },
		}, nil
	}
}

// Close drains the connection.
func (q *NATSQueue) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

var _ Queue = (*NATSQueue)(nil)
