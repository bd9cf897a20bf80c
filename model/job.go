package model

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the state of an analysis job.
// COMPLETED and FAILED are terminal.
type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

// Job tracks the lifecycle of one analysis invocation
type Job struct {
	ID         uuid.UUID  `json:"id"`
	Status     JobStatus  `json:"status"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// JobEvent is emitted to observers on job start, completion and failure
type JobEvent struct {
	Type      string    `json:"type"`
	JobID     uuid.UUID `json:"job_id"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Data      Metadata  `json:"data,omitempty"`
}

const (
	JobEventTypeMatrix = "matrix"

	JobEventStatusStarted   = "started"
	JobEventStatusCompleted = "completed"
	JobEventStatusFailed    = "failed"
)
