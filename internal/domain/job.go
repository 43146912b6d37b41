package domain

import "time"

// JobState enumerates the job lifecycle states.
type JobState string

const (
	JobStatePending   JobState = "pending"
	JobStateRunning   JobState = "running"
	JobStateSucceeded JobState = "succeeded"
	JobStateFailed    JobState = "failed"
)

// Terminal reports whether the state admits no further transitions.
func (s JobState) Terminal() bool {
	return s == JobStateSucceeded || s == JobStateFailed
}

// ErrorKind classifies job failures for the status surface.
type ErrorKind string

const (
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindSynthesis  ErrorKind = "synthesis"
	ErrorKindEncoding   ErrorKind = "encoding"
)

// Result is the payload of a succeeded job.
type Result struct {
	ArtifactID string `json:"artifact_id"`
	FileURL    string `json:"file_url"`
	Message    string `json:"message"`
}

// JobError is the payload of a failed job.
type JobError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// Job is one tracked unit of asynchronous presentation-generation work. The
// job store exclusively owns State; Result is present only on succeeded jobs
// and Error only on failed ones.
type Job struct {
	ID        string
	State     JobState
	Request   GenerationRequest
	Result    *Result
	Error     *JobError
	CreatedAt time.Time
	UpdatedAt time.Time
}
