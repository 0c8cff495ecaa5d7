package export

import (
	"sort"
	"sync"
	"time"

	"github.com/cryptadb/crypta/internal/domain"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
	JobStatusCancelled JobStatus = "CANCELLED"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Job is one queued directory export. Progress fields are written by the
// worker and read by status polling.
type Job struct {
	ID           uuid.UUID         `json:"id"`
	Base         domain.EntityKind `json:"base"`
	Format       Format            `json:"format"`
	Status       JobStatus         `json:"status"`
	RowsExported int               `json:"rowsExported"`
	FilePath     string            `json:"-"`
	FileMimeType string            `json:"fileMimeType,omitempty"`
	FileByteSize int64             `json:"fileByteSize,omitempty"`
	Error        string            `json:"error,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
	DownloadURL  string            `json:"downloadUrl,omitempty"`
}

// registry tracks jobs in memory. Exports are short-lived artifacts; a
// restart discards both the files and the bookkeeping.
type registry struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*Job
	now  func() time.Time
}

func newRegistry(now func() time.Time) *registry {
	return &registry{jobs: make(map[uuid.UUID]*Job), now: now}
}

func (r *registry) create(base domain.EntityKind, format Format) Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	job := &Job{
		ID:        uuid.New(),
		Base:      base,
		Format:    format,
		Status:    JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.jobs[job.ID] = job
	return *job
}

func (r *registry) get(id uuid.UUID) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// list returns jobs newest first, optionally filtered by status.
func (r *registry) list(statuses []JobStatus) []Job {
	wanted := make(map[JobStatus]bool, len(statuses))
	for _, s := range statuses {
		wanted[s] = true
	}

	r.mu.RLock()
	out := make([]Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		if len(wanted) > 0 && !wanted[job.Status] {
			continue
		}
		out = append(out, *job)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() > out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// transition moves a job between statuses only when it is in one of the
// expected states, so a cancel racing a completion never resurrects a job.
func (r *registry) transition(id uuid.UUID, from []JobStatus, apply func(*Job)) (Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return Job{}, false
	}
	allowed := false
	for _, s := range from {
		if job.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return *job, false
	}
	apply(job)
	job.UpdatedAt = r.now()
	return *job, true
}
