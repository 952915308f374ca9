// Package jobs defines the asynchronous sync-run job model used by the
// dashboard API: a POST enqueues a SyncJob, a single worker executes it, and
// the job store tracks its lifecycle for status polling.
package jobs

import (
	"context"
	"time"

	"github.com/finwatch/uptrack/internal/sync"
)

// JobStatus represents the current status of a sync job.
type JobStatus string

const (
	// JobStatusPending indicates the job is waiting for the worker.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates a sync cycle is in progress.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the cycle finished (possibly with
	// per-phase errors recorded in the result).
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the cycle hit a terminal store error.
	JobStatusFailed JobStatus = "failed"
)

// SyncJob is one requested sync cycle. Jobs never retry automatically; a
// failed cycle is re-run by enqueueing a new job.
type SyncJob struct {
	JobID       string           `json:"job_id"`
	Status      JobStatus        `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	StartedAt   *time.Time       `json:"started_at,omitempty"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	Error       string           `json:"error,omitempty"`
	Result      *sync.SyncResult `json:"result,omitempty"`
}

// Publisher enqueues sync jobs.
type Publisher interface {
	PublishSync(ctx context.Context, job *SyncJob) error
	Close() error
}

// JobHandler executes one sync job.
type JobHandler func(ctx context.Context, job *SyncJob) error

// Consumer runs the worker that drains the queue. The in-memory
// implementation uses exactly one worker, which is what keeps concurrent
// sync cycles from ever running against the same store.
type Consumer interface {
	Start(ctx context.Context, handler JobHandler) error
	Stop(ctx context.Context) error
}

// JobStore tracks job state for status polling.
type JobStore interface {
	SaveJob(ctx context.Context, job *SyncJob) error
	GetJob(ctx context.Context, jobID string) (*SyncJob, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*SyncJob, error)
}

// JobFilter narrows ListJobs results.
type JobFilter struct {
	Status JobStatus
	Limit  int
}
