// Package jobstore owns the authoritative job state machine. All state
// transitions go through a Store; no other component mutates job state.
package jobstore

import (
	"context"

	"deckgen/internal/domain"
)

// Store persists jobs and enforces the lifecycle
// pending → running → succeeded|failed.
//
// Claim is the mutual-exclusion gate between competing workers: it atomically
// moves a pending job to running and returns domain.ErrInvalidTransition for
// anything not currently pending, so at most one claim ever wins per job.
// Complete and Fail only apply to running jobs; terminal states are
// immutable. Get is a read-only snapshot safe to call concurrently with any
// transition.
type Store interface {
	Create(ctx context.Context, req domain.GenerationRequest) (string, error)
	Claim(ctx context.Context, id string) (*domain.Job, error)
	Complete(ctx context.Context, id string, res domain.Result) error
	Fail(ctx context.Context, id string, jobErr domain.JobError) error
	Get(ctx context.Context, id string) (*domain.Job, error)
}
