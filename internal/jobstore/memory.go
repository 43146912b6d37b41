package jobstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"deckgen/internal/domain"
)

// MemoryStore is an in-process Store for tests and single-node development.
// Each job carries its own mutex so transitions on different jobs never
// contend; the outer lock only guards the map itself.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*memoryJob
}

type memoryJob struct {
	mu  sync.Mutex
	job domain.Job
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]*memoryJob)}
}

func (s *MemoryStore) Create(ctx context.Context, req domain.GenerationRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	now := time.Now().UTC()
	id := uuid.NewString()
	rec := &memoryJob{job: domain.Job{
		ID:        id,
		State:     domain.JobStatePending,
		Request:   req,
		CreatedAt: now,
		UpdatedAt: now,
	}}
	s.mu.Lock()
	s.jobs[id] = rec
	s.mu.Unlock()
	return id, nil
}

func (s *MemoryStore) Claim(ctx context.Context, id string) (*domain.Job, error) {
	rec, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.job.State != domain.JobStatePending {
		return nil, domain.ErrInvalidTransition
	}
	rec.job.State = domain.JobStateRunning
	rec.job.UpdatedAt = time.Now().UTC()
	snapshot := rec.job
	return &snapshot, nil
}

func (s *MemoryStore) Complete(ctx context.Context, id string, res domain.Result) error {
	rec, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.job.State != domain.JobStateRunning {
		return domain.ErrInvalidTransition
	}
	rec.job.State = domain.JobStateSucceeded
	rec.job.Result = &res
	rec.job.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) Fail(ctx context.Context, id string, jobErr domain.JobError) error {
	rec, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.job.State != domain.JobStateRunning {
		return domain.ErrInvalidTransition
	}
	rec.job.State = domain.JobStateFailed
	rec.job.Error = &jobErr
	rec.job.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.Job, error) {
	rec, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.mu.Lock()
	snapshot := rec.job
	rec.mu.Unlock()
	return &snapshot, nil
}

func (s *MemoryStore) lookup(ctx context.Context, id string) (*memoryJob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	rec, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

var _ Store = (*MemoryStore)(nil)
