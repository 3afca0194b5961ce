package handler

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DownloadJobStatus represents the lifecycle of a map download.
type DownloadJobStatus string

const (
	DownloadJobQueued    DownloadJobStatus = "queued"
	DownloadJobRunning   DownloadJobStatus = "running"
	DownloadJobCompleted DownloadJobStatus = "completed"
	DownloadJobFailed    DownloadJobStatus = "failed"
)

// DownloadJob keeps track of one background download.
type DownloadJob struct {
	ID        string
	MapID     string
	Reload    bool
	Status    DownloadJobStatus
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DownloadJobManager stores download job states indexed by job ID.
type DownloadJobManager struct {
	mu   sync.RWMutex
	jobs map[string]*DownloadJob
	// running deduplicates jobs per map: a second request joins the first.
	running map[string]string
}

func NewDownloadJobManager() *DownloadJobManager {
	return &DownloadJobManager{
		jobs:    make(map[string]*DownloadJob),
		running: make(map[string]string),
	}
}

// NewJob registers a queued job for mapID. If a job for the same map is still
// queued or running, that job is returned instead and created is false.
func (m *DownloadJobManager) NewJob(mapID string, reload bool) (job DownloadJob, created bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.running[mapID]; ok {
		return *m.jobs[id], false
	}

	now := time.Now()
	j := &DownloadJob{
		ID:        uuid.NewString(),
		MapID:     mapID,
		Reload:    reload,
		Status:    DownloadJobQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.jobs[j.ID] = j
	m.running[mapID] = j.ID
	return *j, true
}

func (m *DownloadJobManager) SetRunning(jobID string) {
	m.updateJob(jobID, func(job *DownloadJob) {
		job.Status = DownloadJobRunning
	})
}

func (m *DownloadJobManager) CompleteJob(jobID string) {
	m.updateJob(jobID, func(job *DownloadJob) {
		job.Status = DownloadJobCompleted
		delete(m.running, job.MapID)
	})
}

// FailJob records a failure and attaches a user-facing error message.
func (m *DownloadJobManager) FailJob(jobID string, err error) {
	m.updateJob(jobID, func(job *DownloadJob) {
		job.Status = DownloadJobFailed
		job.Error = err.Error()
		delete(m.running, job.MapID)
	})
}

// GetJob returns a copy of the job.
func (m *DownloadJobManager) GetJob(jobID string) (DownloadJob, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return DownloadJob{}, false
	}
	return *job, true
}

func (m *DownloadJobManager) updateJob(jobID string, update func(job *DownloadJob)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return
	}

	update(job)
	job.UpdatedAt = time.Now()
}
