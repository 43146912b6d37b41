package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"deckgen/internal/domain"
)

// PostgresStore implements Store on a jobs table. Transitions are single
// conditional UPDATE statements, so the row lock is the per-job critical
// section and claims on different jobs never serialize against each other.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a job store backed by PostgreSQL.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const jobsSchema = `
CREATE TABLE IF NOT EXISTS jobs (
    id         UUID PRIMARY KEY,
    state      TEXT NOT NULL,
    request    JSONB NOT NULL,
    result     JSONB,
    error      JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// EnsureSchema creates the jobs table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, jobsSchema); err != nil {
		return fmt.Errorf("ensure jobs schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, req domain.GenerationRequest) (string, error) {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	id := uuid.NewString()
	query := `
INSERT INTO jobs (id, state, request)
VALUES ($1, $2, $3);
`
	if _, err := s.pool.Exec(ctx, query, id, domain.JobStatePending, reqJSON); err != nil {
		return "", fmt.Errorf("insert job: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) Claim(ctx context.Context, id string) (*domain.Job, error) {
	query := `
UPDATE jobs
SET state = $2, updated_at = now()
WHERE id = $1 AND state = $3
RETURNING id, state, request, result, error, created_at, updated_at;
`
	row := s.pool.QueryRow(ctx, query, id, domain.JobStateRunning, domain.JobStatePending)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.missOrConflict(ctx, id)
		}
		return nil, err
	}
	return job, nil
}

func (s *PostgresStore) Complete(ctx context.Context, id string, res domain.Result) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return s.finish(ctx, id, domain.JobStateSucceeded, "result", payload)
}

func (s *PostgresStore) Fail(ctx context.Context, id string, jobErr domain.JobError) error {
	payload, err := json.Marshal(jobErr)
	if err != nil {
		return fmt.Errorf("encode error: %w", err)
	}
	return s.finish(ctx, id, domain.JobStateFailed, "error", payload)
}

func (s *PostgresStore) finish(ctx context.Context, id string, state domain.JobState, column string, payload []byte) error {
	// column is one of the two fixed names above, never user input.
	query := fmt.Sprintf(`
UPDATE jobs
SET state = $2, %s = $3, updated_at = now()
WHERE id = $1 AND state = $4;
`, column)
	tag, err := s.pool.Exec(ctx, query, id, state, payload, domain.JobStateRunning)
	if err != nil {
		return fmt.Errorf("update job state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.missOrConflict(ctx, id)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*domain.Job, error) {
	query := `
SELECT id, state, request, result, error, created_at, updated_at
FROM jobs
WHERE id = $1;
`
	job, err := scanJob(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

// missOrConflict distinguishes an unknown id from a conditional update that
// lost to the job's current state.
func (s *PostgresStore) missOrConflict(ctx context.Context, id string) error {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1);`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check job existence: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrInvalidTransition
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var (
		job       domain.Job
		reqJSON   []byte
		resJSON   []byte
		errJSON   []byte
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&job.ID, &job.State, &reqJSON, &resJSON, &errJSON, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(reqJSON, &job.Request); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	if len(resJSON) > 0 {
		job.Result = &domain.Result{}
		if err := json.Unmarshal(resJSON, job.Result); err != nil {
			return nil, fmt.Errorf("decode result: %w", err)
		}
	}
	if len(errJSON) > 0 {
		job.Error = &domain.JobError{}
		if err := json.Unmarshal(errJSON, job.Error); err != nil {
			return nil, fmt.Errorf("decode error: %w", err)
		}
	}
	job.CreatedAt = createdAt
	job.UpdatedAt = updatedAt
	return &job, nil
}

var _ Store = (*PostgresStore)(nil)
