package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"brickforge/internal/converting"
	"brickforge/internal/jobs"
	"brickforge/internal/logging"
	"brickforge/internal/metadata"
	"brickforge/internal/parts"
	"brickforge/internal/services"
	"brickforge/internal/services/rebrickable"
)

// Submission outcomes surfaced to the API layer.
var (
	// ErrAlreadyProcessed means the set's metadata document already exists on
	// disk; the submission is a no-op.
	ErrAlreadyProcessed = errors.New("set already processed")
	// ErrAlreadyInProgress means an active job for the set is queued or
	// running in this process.
	ErrAlreadyInProgress = errors.New("set already being processed")
	// ErrQueueFull means the bounded work queue has no room; the caller
	// should retry later.
	ErrQueueFull = errors.New("processing queue full")
	// ErrNotRunning means the worker pool has not started or is shutting
	// down.
	ErrNotRunning = errors.New("pipeline not running")
)

// Provider fetches set metadata and inventory from the catalog service.
type Provider interface {
	FetchSetData(ctx context.Context, setNumber string) (*rebrickable.SetData, error)
}

// Converter runs the per-part conversion loop for a set.
type Converter interface {
	ConvertSet(ctx context.Context, setNumber string, entries []parts.Entry, opts converting.Options) (parts.ConversionStats, error)
}

// Manager owns the processing pipeline: it gates submissions, queues work,
// and runs a fixed pool of workers that take each set from catalog fetch
// through metadata persistence to part conversion.
type Manager struct {
	provider     Provider
	converter    Converter
	store        *metadata.Store
	registry     *jobs.Registry
	logger       *slog.Logger
	skipExisting bool
	workers      int

	queue chan string
	wg    sync.WaitGroup

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
}

// Config tunes the manager's worker pool.
type Config struct {
	Workers       int
	QueueCapacity int
	SkipExisting  bool
}

// NewManager constructs a stopped manager; call Start before submitting.
func NewManager(provider Provider, converter Converter, store *metadata.Store, registry *jobs.Registry, cfg Config, logger *slog.Logger) *Manager {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueCapacity < 1 {
		cfg.QueueCapacity = 1
	}
	return &Manager{
		provider:     provider,
		converter:    converter,
		store:        store,
		registry:     registry,
		logger:       logging.NewComponentLogger(logger, "pipeline"),
		skipExisting: cfg.SkipExisting,
		queue:        make(chan string, cfg.QueueCapacity),
		workers:      cfg.Workers,
	}
}

// Start launches the worker pool. Calling Start twice is a no-op.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return
	}
	m.started = true

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	for i := 0; i < m.workers; i++ {
		m.wg.Add(1)
		go m.worker(runCtx)
	}
	m.logger.Info("pipeline started", logging.Int("workers", m.workers))
}

// Stop drains the queue, cancels in-flight work, and waits for workers to
// exit. The manager cannot be restarted. The queue is closed under the same
// mutex Submit holds while sending, so a submission racing shutdown is
// rejected instead of panicking on a closed channel.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return
	}
	m.started = false
	close(m.queue)
	cancel := m.cancel
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
	m.logger.Info("pipeline stopped")
}

// Submit requests asynchronous processing of a set. It returns the queued
// job record on acceptance, or one of ErrAlreadyProcessed,
// ErrAlreadyInProgress, ErrQueueFull, ErrNotRunning.
func (m *Manager) Submit(setNumber string) (jobs.Record, error) {
	if m.store.Exists(setNumber) {
		return jobs.Record{}, ErrAlreadyProcessed
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return jobs.Record{}, ErrNotRunning
	}

	record, ok := m.registry.Begin(setNumber)
	if !ok {
		return record, ErrAlreadyInProgress
	}

	select {
	case m.queue <- setNumber:
		return record, nil
	default:
		m.registry.Discard(setNumber)
		return jobs.Record{}, ErrQueueFull
	}
}

// Status reports the in-memory job record for a set.
func (m *Manager) Status(setNumber string) jobs.Record {
	record, _ := m.registry.Get(setNumber)
	return record
}

func (m *Manager) worker(ctx context.Context) {
	defer m.wg.Done()
	for setNumber := range m.queue {
		if ctx.Err() != nil {
			m.registry.Fail(setNumber, "daemon shutting down")
			continue
		}
		m.process(ctx, setNumber)
	}
}

// process runs one set end to end. Each stage failure lands the job in the
// failed state with a human-readable reason; a panic in any stage is
// contained the same way so one bad set cannot take a worker down.
func (m *Manager) process(ctx context.Context, setNumber string) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("panic while processing set",
				logging.String("set", setNumber),
				logging.Any("panic", r),
			)
			m.registry.Fail(setNumber, fmt.Sprintf("internal error: %v", r))
		}
	}()

	m.registry.MarkProcessing(setNumber)
	ctx = services.WithSetNumber(ctx, setNumber)
	if record, ok := m.registry.Get(setNumber); ok {
		ctx = services.WithJobID(ctx, record.ID)
	}
	m.registry.Update(setNumber, 10, "Fetching set data")

	data, err := m.provider.FetchSetData(ctx, setNumber)
	if err != nil {
		m.registry.Fail(setNumber, "fetching set data failed: "+err.Error())
		return
	}

	m.registry.Update(setNumber, 30, "Writing set metadata")
	record, err := m.store.Create(setNumber, metadata.InfoFromProvider(data.Info), data.Parts)
	if err != nil {
		m.registry.Fail(setNumber, "writing set metadata failed: "+err.Error())
		return
	}

	m.registry.Update(setNumber, 50, "Converting parts to STL")
	stats, err := m.converter.ConvertSet(ctx, setNumber, record.Parts, converting.Options{
		SkipExisting: m.skipExisting,
		Progress: func(done, total int, _ string) {
			if total > 0 {
				m.registry.Update(setNumber, 50+done*50/total, "Converting parts to STL")
			}
		},
	})
	if err != nil {
		m.registry.Fail(setNumber, "conversion aborted: "+err.Error())
		return
	}

	m.registry.Complete(setNumber, stats, stats.Summary())
}
