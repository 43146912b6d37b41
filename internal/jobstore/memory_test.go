package jobstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"deckgen/internal/domain"
)

func deckRequest(title string) domain.GenerationRequest {
	return domain.GenerationRequest{Deck: &domain.Deck{
		Title:  title,
		Author: "tester",
		Slides: []domain.SlideSpec{{Type: domain.SlideTitle, Title: "intro"}},
	}}
}

func TestCreateThenGetIsPending(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, err := store.Create(ctx, deckRequest("Quarterly Review"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if id == "" {
		t.Fatal("Create returned empty id")
	}

	job, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if job.State != domain.JobStatePending {
		t.Fatalf("State = %q, want %q", job.State, domain.JobStatePending)
	}
	if job.Request.Deck == nil || job.Request.Deck.Title != "Quarterly Review" {
		t.Fatalf("Request not preserved: %+v", job.Request)
	}
}

func TestCreateIDsNeverCollide(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	const n = 100
	seen := make(map[string]bool, n)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := store.Create(ctx, deckRequest("d"))
			if err != nil {
				t.Errorf("Create returned error: %v", err)
				return
			}
			mu.Lock()
			if seen[id] {
				t.Errorf("duplicate id %q", id)
			}
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
}

func TestClaimIsExclusive(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	id, err := store.Create(ctx, deckRequest("d"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	const racers = 16
	var wins int32
	var mu sync.Mutex
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			job, err := store.Claim(ctx, id)
			if err != nil {
				if !errors.Is(err, domain.ErrInvalidTransition) {
					t.Errorf("Claim returned unexpected error: %v", err)
				}
				return
			}
			if job.State != domain.JobStateRunning {
				t.Errorf("claimed job state = %q, want running", job.State)
			}
			mu.Lock()
			wins++
			mu.Unlock()
		}()
	}
	close(start)
	wg.Wait()

	if wins != 1 {
		t.Fatalf("claim wins = %d, want exactly 1", wins)
	}
}

func TestCompleteOnlyFromRunning(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	id, _ := store.Create(ctx, deckRequest("d"))

	res := domain.Result{ArtifactID: "a.pptx", Message: "ok"}
	if err := store.Complete(ctx, id, res); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("Complete on pending = %v, want ErrInvalidTransition", err)
	}

	if _, err := store.Claim(ctx, id); err != nil {
		t.Fatalf("Claim returned error: %v", err)
	}
	if err := store.Complete(ctx, id, res); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}

	job, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if job.State != domain.JobStateSucceeded {
		t.Fatalf("State = %q, want succeeded", job.State)
	}
	if job.Result == nil || job.Result.ArtifactID != "a.pptx" {
		t.Fatalf("Result = %+v, want artifact a.pptx", job.Result)
	}
}

func TestTerminalStateIsImmutable(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	id, _ := store.Create(ctx, deckRequest("d"))
	if _, err := store.Claim(ctx, id); err != nil {
		t.Fatalf("Claim returned error: %v", err)
	}
	if err := store.Fail(ctx, id, domain.JobError{Kind: domain.ErrorKindEncoding, Message: "boom"}); err != nil {
		t.Fatalf("Fail returned error: %v", err)
	}

	if err := store.Complete(ctx, id, domain.Result{ArtifactID: "x"}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("Complete on failed = %v, want ErrInvalidTransition", err)
	}
	if _, err := store.Claim(ctx, id); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("Claim on failed = %v, want ErrInvalidTransition", err)
	}

	job, _ := store.Get(ctx, id)
	if job.State != domain.JobStateFailed {
		t.Fatalf("State = %q, want failed", job.State)
	}
	if job.Error == nil || job.Error.Message == "" {
		t.Fatalf("failed job must keep a non-empty error, got %+v", job.Error)
	}
}

func TestGetUnknownJob(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get unknown = %v, want ErrNotFound", err)
	}
	if _, err := store.Claim(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Claim unknown = %v, want ErrNotFound", err)
	}
}
