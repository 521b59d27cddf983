package queue

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/throneclash/video-service/internal/video"
)

// Job status constants
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
	JobStatusPublished  = "published"
)

var (
	// ErrJobNotFound is returned when a job id is not present in the queue
	ErrJobNotFound = errors.New("job not found")
)

// Job represents one video-creation request tracked from submission to a
// terminal state. Jobs are mutated exclusively through Queue.UpdateStatus.
type Job struct {
	JobID       string
	Template    string
	Params      video.Params
	Status      string
	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	Error       string
	Result      map[string]interface{}
}

// NewJob creates a job in PENDING state
func NewJob(jobID, template string, params video.Params) *Job {
	return &Job{
		JobID:     jobID,
		Template:  template,
		Params:    params,
		Status:    JobStatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

// snapshot converts the job to its API representation. Caller must hold the
// queue lock.
func (j *Job) snapshot() map[string]interface{} {
	formatTime := func(t *time.Time) interface{} {
		if t == nil {
			return nil
		}
		return t.Format(time.RFC3339)
	}

	var errField interface{}
	if j.Error != "" {
		errField = j.Error
	}

	var resultField interface{}
	if j.Result != nil {
		resultField = j.Result
	}

	return map[string]interface{}{
		"job_id":       j.JobID,
		"template":     j.Template,
		"status":       j.Status,
		"created_at":   j.CreatedAt.Format(time.RFC3339),
		"started_at":   formatTime(j.StartedAt),
		"completed_at": formatTime(j.CompletedAt),
		"error":        errField,
		"result":       resultField,
	}
}

// Queue is the in-memory registry of jobs, keyed by job id. Jobs are retained
// for the process lifetime; there is no eviction.
type Queue struct {
	mu     sync.RWMutex
	jobs   map[string]*Job
	logger *slog.Logger
}

// New creates an empty job queue
func New(logger *slog.Logger) *Queue {
	return &Queue{
		jobs:   make(map[string]*Job),
		logger: logger,
	}
}

// Add registers a job in the queue
func (q *Queue) Add(job *Job) {
	q.mu.Lock()
	q.jobs[job.JobID] = job
	q.mu.Unlock()

	q.logger.Info("Job added to queue",
		slog.String("job_id", job.JobID),
		slog.String("template", job.Template),
	)
}

// Get returns the job for the given id
func (q *Queue) Get(jobID string) (*Job, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	job, ok := q.jobs[jobID]
	if !ok {
		return nil, ErrJobNotFound
	}
	return job, nil
}

// Snapshot returns the API representation of a single job
func (q *Queue) Snapshot(jobID string) (map[string]interface{}, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	job, ok := q.jobs[jobID]
	if !ok {
		return nil, ErrJobNotFound
	}
	return job.snapshot(), nil
}

// UpdateStatus moves a job to a new status and records the associated
// timestamps: started_at on the first transition into PROCESSING,
// completed_at on the first transition into COMPLETED, FAILED or PUBLISHED.
// Both are set at most once.
func (q *Queue) UpdateStatus(jobID, status string, errMsg string, result map[string]interface{}) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, ok := q.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}

	job.Status = status

	now := time.Now().UTC()
	if status == JobStatusProcessing && job.StartedAt == nil {
		job.StartedAt = &now
	}
	if isTerminalStatus(status) && job.CompletedAt == nil {
		job.CompletedAt = &now
	}

	if errMsg != "" {
		job.Error = errMsg
	}
	if result != nil {
		job.Result = result
	}

	q.logger.Info("Job status updated",
		slog.String("job_id", jobID),
		slog.String("status", status),
	)
	return nil
}

// List returns job snapshots optionally filtered by status, truncated to
// limit. The returned total counts all matches before truncation; a zero
// limit yields an empty page.
func (q *Queue) List(statusFilter string, limit int) (int, []map[string]interface{}) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	matches := make([]map[string]interface{}, 0, len(q.jobs))
	for _, job := range q.jobs {
		if statusFilter != "" && job.Status != statusFilter {
			continue
		}
		matches = append(matches, job.snapshot())
	}

	total := len(matches)
	if limit >= 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return total, matches
}

func isTerminalStatus(status string) bool {
	switch status {
	case JobStatusCompleted, JobStatusFailed, JobStatusPublished:
		return true
	}
	return false
}
