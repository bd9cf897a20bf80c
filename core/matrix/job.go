package matrix

import (
	"time"

	"github.com/google/uuid"
	"github.com/scenlens/matrixer/model"
)

// EventSink receives job lifecycle events. Implementations must not block;
// slow observers should buffer internally.
type EventSink interface {
	Publish(event model.JobEvent)
}

// ResultSink persists completed analysis results
type ResultSink interface {
	SaveResult(result *model.MatrixAnalysisResult) error
}

// newJob creates a job in PENDING state
func newJob() *model.Job {
	return &model.Job{
		ID:        uuid.New(),
		Status:    model.JobStatusPending,
		CreatedAt: time.Now(),
	}
}

// startJob transitions PENDING to PROCESSING
func startJob(job *model.Job) {
	now := time.Now()
	job.Status = model.JobStatusProcessing
	job.StartedAt = &now
}

// completeJob transitions PROCESSING to the terminal COMPLETED state
func completeJob(job *model.Job) {
	now := time.Now()
	job.Status = model.JobStatusCompleted
	job.FinishedAt = &now
}

// failJob transitions PROCESSING to the terminal FAILED state, storing the
// error text
func failJob(job *model.Job, err error) {
	now := time.Now()
	job.Status = model.JobStatusFailed
	job.Error = err.Error()
	job.FinishedAt = &now
}

// emit publishes a lifecycle event if an event sink is configured
func (p *Processor) emit(job *model.Job, status string, data model.Metadata) {
	if p.events == nil {
		return
	}
	p.events.Publish(model.JobEvent{
		Type:      model.JobEventTypeMatrix,
		JobID:     job.ID,
		Status:    status,
		Timestamp: time.Now(),
		Data:      data,
	})
}
