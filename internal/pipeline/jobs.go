package pipeline

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"time"
)

// JobStatus represents the state of one report file within a run.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusExtracting JobStatus = "extracting"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusSkipped    JobStatus = "skipped"
)

// Job tracks the extraction of a single report file.
type Job struct {
	Institution string
	Filename    string
	Path        string
	Year        string

	Status JobStatus
	Phase  string

	ContentHash string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Duration    time.Duration

	errors []string
}

// NewJob queues a report file for an institution under its year label.
func NewJob(institution, path, year string) *Job {
	now := time.Now()
	return &Job{
		Institution: institution,
		Filename:    filepath.Base(path),
		Path:        path,
		Year:        year,
		Status:      StatusQueued,
		Phase:       "queued",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// SetStatus updates the job status and phase.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.errors = append(j.errors, err)
	j.UpdatedAt = time.Now()
}

// Fail records err and marks the job failed in the given phase.
func (j *Job) Fail(phase string, err error) {
	j.AddError(err.Error())
	j.SetStatus(StatusFailed, phase)
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	Institution string    `json:"institution"`
	Filename    string    `json:"filename"`
	Year        string    `json:"year"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	ContentHash string    `json:"content_hash,omitempty"`
	DurationMs  int64     `json:"duration_ms"`
	Errors      []string  `json:"errors"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	errs := make([]string, len(j.errors))
	copy(errs, j.errors)
	return JobSnapshot{
		Institution: j.Institution,
		Filename:    j.Filename,
		Year:        j.Year,
		Status:      j.Status,
		Phase:       j.Phase,
		ContentHash: j.ContentHash,
		DurationMs:  j.Duration.Milliseconds(),
		Errors:      errs,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
