// Package api — asynchronous Monte Carlo job tracking.
package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/pkg/models"
)

// JobStatus is the lifecycle state of an asynchronous job.
type JobStatus string

const (
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// Job is one asynchronous Monte Carlo run. Clients poll it by id or follow
// its progress over the WebSocket stream.
type Job struct {
	ID        string                    `json:"job_id"`
	Status    JobStatus                 `json:"status"`
	Progress  float64                   `json:"progress"` // fraction of paths simulated, 0..1
	Result    *models.RiskMeasureResult `json:"result,omitempty"`
	Error     string                    `json:"error,omitempty"`
	CreatedAt time.Time                 `json:"created_at"`
}

// maxJobs bounds the in-memory job history. Oldest jobs are evicted first,
// finished or not.
const maxJobs = 100

// jobStore tracks asynchronous jobs in memory.
type jobStore struct {
	mu    sync.Mutex
	jobs  map[string]*Job
	order []string // creation order, for eviction
}

func newJobStore() *jobStore {
	return &jobStore{jobs: make(map[string]*Job)}
}

// create registers a new running job and returns a snapshot of it.
func (js *jobStore) create() Job {
	js.mu.Lock()
	defer js.mu.Unlock()

	job := &Job{
		ID:        uuid.NewString(),
		Status:    JobRunning,
		CreatedAt: time.Now().UTC(),
	}
	js.jobs[job.ID] = job
	js.order = append(js.order, job.ID)

	for len(js.order) > maxJobs {
		delete(js.jobs, js.order[0])
		js.order = js.order[1:]
	}
	return *job
}

// get returns a snapshot of a job, so callers never share memory with the
// goroutine updating it.
func (js *jobStore) get(id string) (Job, bool) {
	js.mu.Lock()
	defer js.mu.Unlock()
	job, ok := js.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

func (js *jobStore) setProgress(id string, done, total int) {
	js.mu.Lock()
	defer js.mu.Unlock()
	if job, ok := js.jobs[id]; ok && job.Status == JobRunning {
		job.Progress = float64(done) / float64(total)
	}
}

func (js *jobStore) complete(id string, result *models.RiskMeasureResult) {
	js.mu.Lock()
	defer js.mu.Unlock()
	if job, ok := js.jobs[id]; ok {
		job.Status = JobDone
		job.Progress = 1
		job.Result = result
	}
}

func (js *jobStore) fail(id string, err error) {
	js.mu.Lock()
	defer js.mu.Unlock()
	if job, ok := js.jobs[id]; ok {
		job.Status = JobFailed
		job.Error = err.Error()
	}
}
