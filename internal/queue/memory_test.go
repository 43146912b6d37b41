package queue

import (
	"context"
	"testing"
	"time"

	"deckgen/internal/domain"
)

func TestMemoryQueueDeliversInOrder(t *testing.T) {
	q := NewMemoryQueue(8)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := q.Enqueue(ctx, Task{JobID: id}); err != nil {
			t.Fatalf("Enqueue(%s) returned error: %v", id, err)
		}
	}
	for _, want := range []string{"a", "b", "c"} {
		d, err := q.Dequeue(ctx)
		if err != nil {
			t.Fatalf("Dequeue returned error: %v", err)
		}
		if d.JobID != want {
			t.Fatalf("JobID = %q, want %q", d.JobID, want)
		}
		if err := d.Ack(); err != nil {
			t.Fatalf("Ack returned error: %v", err)
		}
	}
}

func TestMemoryQueueDequeueBlocksUntilEnqueue(t *testing.T) {
	q := NewMemoryQueue(1)
	ctx := context.Background()

	got := make(chan string, 1)
	go func() {
		d, err := q.Dequeue(ctx)
		if err != nil {
			return
		}
		got <- d.JobID
	}()

	time.Sleep(20 * time.Millisecond)
	if err := q.Enqueue(ctx, Task{JobID: "late"}); err != nil {
		t.Fatalf("Enqueue returned error: %v", err)
	}

	select {
	case id := <-got:
		if id != "late" {
			t.Fatalf("JobID = %q, want %q", id, "late")
		}
	case <-time.After(time.Second):
		t.Fatal("Dequeue did not wake up after Enqueue")
	}
}

func TestMemoryQueueDequeueHonorsContext(t *testing.T) {
	q := NewMemoryQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := q.Dequeue(ctx); err == nil {
		t.Fatal("Dequeue on empty queue returned without error after cancel")
	}
}

func TestMemoryQueueEnqueueHonorsContext(t *testing.T) {
	q := NewMemoryQueue(4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := q.Enqueue(ctx, Task{JobID: "too-late"}); err == nil {
		t.Fatal("Enqueue with cancelled context returned no error")
	}
	if q.Len() != 0 {
		t.Fatalf("Len = %d, want 0 after rejected enqueue", q.Len())
	}
}

func TestMemoryQueueNackRedelivers(t *testing.T) {
	q := NewMemoryQueue(4)
	ctx := context.Background()

	task := Task{JobID: "retry-me", Request: domain.GenerationRequest{Deck: &domain.Deck{Title: "d"}}}
	if err := q.Enqueue(ctx, task); err != nil {
		t.Fatalf("Enqueue returned error: %v", err)
	}

	d, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Dequeue returned error: %v", err)
	}
	if err := d.Nack(); err != nil {
		t.Fatalf("Nack returned error: %v", err)
	}

	redelivered, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Dequeue after Nack returned error: %v", err)
	}
	if redelivered.JobID != "retry-me" {
		t.Fatalf("redelivered JobID = %q, want %q", redelivered.JobID, "retry-me")
	}
	if redelivered.Request.Deck == nil || redelivered.Request.Deck.Title != "d" {
		t.Fatalf("redelivered request lost payload: %+v", redelivered.Request)
	}
}
