package jobs

import (
	"time"

	"brickforge/internal/parts"
)

// Status represents the lifecycle of a processing job.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"

	// StatusUnknown is the sentinel reported for set numbers that were never
	// submitted in this process's lifetime. It is a valid answer, not an
	// error, and is distinct from failed.
	StatusUnknown Status = "unknown"
)

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Active reports whether the job is queued or running.
func (s Status) Active() bool {
	return s == StatusQueued || s == StatusProcessing
}

// Record tracks one asynchronous processing run for a set. Records live in
// memory for the lifetime of the process and are lost on restart; durable
// completion state is the metadata document on disk.
type Record struct {
	ID          string                 `json:"job_id"`
	SetNumber   string                 `json:"set_number"`
	Status      Status                 `json:"status"`
	Progress    int                    `json:"progress"`
	Message     string                 `json:"message"`
	StartedAt   time.Time              `json:"started_at"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	Stats       *parts.ConversionStats `json:"stats,omitempty"`
}
