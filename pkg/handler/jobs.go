package handler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yumyai/rbhsum/logger"
	"github.com/yumyai/rbhsum/pkg/model"
)

// JobStatus represents the lifecycle of a background request.
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Job keeps track of a search or summarization while it runs.
type Job struct {
	ID        string           `json:"id"`
	Kind      string           `json:"kind"`
	Status    JobStatus        `json:"status"`
	ResultID  string           `json:"result_id,omitempty"`
	Report    *model.RunReport `json:"report,omitempty"`
	Error     string           `json:"error,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	done chan struct{}
}

// Finished reports whether the job reached a final state.
func (j Job) Finished() bool {
	return j.Status == JobCompleted || j.Status == JobFailed
}

// JobFunc is the body of a job. It returns the id of what it produced.
type JobFunc func(ctx context.Context, job *JobHandle) (string, error)

// JobHandle lets a running job attach a report to itself.
type JobHandle struct {
	m  *JobManager
	id string
}

func (h *JobHandle) ID() string { return h.id }

func (h *JobHandle) SetReport(report *model.RunReport) {
	h.m.updateJob(h.id, func(job *Job) {
		job.Report = report
	})
}

// JobManager stores job states indexed by job ID.
type JobManager struct {
	mu   sync.RWMutex
	jobs map[string]*Job
	ctx  context.Context
}

// NewJobManager constructs a job manager with no jobs. Jobs started by it
// are cancelled when ctx is done.
func NewJobManager(ctx context.Context) *JobManager {
	return &JobManager{
		jobs: make(map[string]*Job),
		ctx:  ctx,
	}
}

// NewJob registers a queued job of the given kind.
func (m *JobManager) NewJob(kind string) *Job {
	now := time.Now()
	job := &Job{
		ID:        uuid.NewString(),
		Kind:      kind,
		Status:    JobQueued,
		CreatedAt: now,
		UpdatedAt: now,
		done:      make(chan struct{}),
	}

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()
	return job
}

// Start registers a job and runs fn in its own goroutine.
func (m *JobManager) Start(kind string, fn JobFunc) Job {
	job := m.NewJob(kind)
	snapshot := *job

	go func() {
		defer func() {
			if p := recover(); p != nil {
				logger.Error("Job panicked", zap.String("job_id", job.ID), zap.Any("panic", p))
				m.FailJob(job.ID, fmt.Errorf("internal error: %v", p))
			}
		}()

		m.SetRunning(job.ID)
		resultID, err := fn(m.ctx, &JobHandle{m: m, id: job.ID})
		if err != nil {
			logger.Warn("Job failed", zap.String("job_id", job.ID), zap.String("kind", kind), zap.Error(err))
			m.FailJob(job.ID, err)
			return
		}
		logger.Info("Job completed", zap.String("job_id", job.ID), zap.String("kind", kind), zap.String("result_id", resultID))
		m.CompleteJob(job.ID, resultID)
	}()
	return snapshot
}

// SetRunning marks the job as running.
func (m *JobManager) SetRunning(jobID string) {
	m.updateJob(jobID, func(job *Job) {
		job.Status = JobRunning
	})
}

// CompleteJob stores the produced id and marks the job complete.
func (m *JobManager) CompleteJob(jobID string, resultID string) {
	m.finishJob(jobID, func(job *Job) {
		job.Status = JobCompleted
		job.ResultID = resultID
	})
}

// FailJob records a failure and attaches a user-facing error message.
func (m *JobManager) FailJob(jobID string, err error) {
	m.finishJob(jobID, func(job *Job) {
		job.Status = JobFailed
		job.Error = err.Error()
	})
}

// GetJob fetches a copy of a job by ID.
func (m *JobManager) GetJob(jobID string) (Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// Wait blocks until the job finishes or ctx is done.
func (m *JobManager) Wait(ctx context.Context, jobID string) (Job, error) {
	m.mu.RLock()
	job, ok := m.jobs[jobID]
	m.mu.RUnlock()
	if !ok {
		return Job{}, fmt.Errorf("job %s not found", jobID)
	}

	select {
	case <-job.done:
	case <-ctx.Done():
		return Job{}, ctx.Err()
	}
	snapshot, _ := m.GetJob(jobID)
	return snapshot, nil
}

func (m *JobManager) updateJob(jobID string, update func(job *Job)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return
	}

	update(job)
	job.UpdatedAt = time.Now()
}

func (m *JobManager) finishJob(jobID string, update func(job *Job)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok || job.Finished() {
		return
	}

	update(job)
	job.UpdatedAt = time.Now()
	close(job.done)
}
