package jobs

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"brickforge/internal/logging"
	"brickforge/internal/parts"
)

// Registry is the in-memory job table, keyed by set number. All access goes
// through the mutex; callers always receive snapshot copies, never pointers
// into the table.
type Registry struct {
	mu     sync.RWMutex
	byID   map[string]*Record
	logger *slog.Logger
}

// NewRegistry constructs an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		byID:   make(map[string]*Record),
		logger: logging.NewComponentLogger(logger, "jobs"),
	}
}

// Begin registers a new queued job for the set and returns its snapshot.
// If an active job already exists for the set, Begin returns that job's
// snapshot and false.
func (r *Registry) Begin(setNumber string) (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byID[setNumber]; ok && existing.Status.Active() {
		return *existing, false
	}

	record := &Record{
		ID:        uuid.New().String(),
		SetNumber: setNumber,
		Status:    StatusQueued,
		Progress:  0,
		Message:   "Queued for processing",
		StartedAt: time.Now().UTC(),
	}
	r.byID[setNumber] = record

	r.logger.Info("job queued",
		logging.String("job_id", record.ID),
		logging.String("set", setNumber),
	)
	return *record, true
}

// Discard removes a queued job that never made it onto the work queue.
// Jobs that have progressed past queued are left alone.
func (r *Registry) Discard(setNumber string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record, ok := r.byID[setNumber]; ok && record.Status == StatusQueued {
		delete(r.byID, setNumber)
	}
}

// MarkProcessing transitions a job from queued to processing.
func (r *Registry) MarkProcessing(setNumber string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.byID[setNumber]
	if !ok || record.Status.Terminal() {
		return
	}
	record.Status = StatusProcessing
	record.Message = "Processing started"
}

// Update records progress on a running job, last write wins. Terminal jobs
// are immutable.
func (r *Registry) Update(setNumber string, progress int, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.byID[setNumber]
	if !ok || record.Status.Terminal() {
		return
	}
	if progress >= 0 {
		record.Progress = progress
	}
	if message != "" {
		record.Message = message
	}
}

// Complete moves a job to the completed terminal state with its final stats.
func (r *Registry) Complete(setNumber string, stats parts.ConversionStats, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.byID[setNumber]
	if !ok || record.Status.Terminal() {
		return
	}
	now := time.Now().UTC()
	record.Status = StatusCompleted
	record.Progress = 100
	record.Message = message
	record.CompletedAt = &now
	record.Stats = &stats

	r.logger.Info("job completed",
		logging.String("job_id", record.ID),
		logging.String("set", setNumber),
		logging.Int("converted", stats.Converted),
		logging.Int("failed", stats.Failed),
	)
}

// Fail moves a job to the failed terminal state.
func (r *Registry) Fail(setNumber string, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.byID[setNumber]
	if !ok || record.Status.Terminal() {
		return
	}
	now := time.Now().UTC()
	record.Status = StatusFailed
	record.Message = message
	record.CompletedAt = &now

	r.logger.Warn("job failed",
		logging.String("job_id", record.ID),
		logging.String("set", setNumber),
		logging.String("reason", message),
	)
}

// Get returns a snapshot of the job for a set. Sets never submitted in this
// process report StatusUnknown.
func (r *Registry) Get(setNumber string) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.byID[setNumber]
	if !ok {
		return Record{SetNumber: setNumber, Status: StatusUnknown}, false
	}
	return *record, true
}
