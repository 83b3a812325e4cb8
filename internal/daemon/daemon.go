package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"brickforge/internal/config"
	"brickforge/internal/logging"
	"brickforge/internal/pipeline"
)

const lockFileName = "brickforged.lock"

// Daemon owns the long-running process: the singleton lock, the pipeline
// worker pool, and the HTTP API server.
type Daemon struct {
	cfg     *config.Config
	manager *pipeline.Manager
	server  *APIServer
	logger  *slog.Logger

	lock    *flock.Flock
	running atomic.Bool
}

// New wires a daemon from its already-constructed parts.
func New(cfg *config.Config, manager *pipeline.Manager, server *APIServer, logger *slog.Logger) *Daemon {
	return &Daemon{
		cfg:     cfg,
		manager: manager,
		server:  server,
		logger:  logging.NewComponentLogger(logger, "daemon"),
	}
}

// Start acquires the singleton lock, then starts the pipeline and API server.
// A second daemon on the same log directory fails fast instead of racing the
// first over the sets directory.
func (d *Daemon) Start(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return fmt.Errorf("daemon already started")
	}

	lockPath := filepath.Join(d.cfg.Paths.LogDir, lockFileName)
	d.lock = flock.New(lockPath)
	locked, err := d.lock.TryLock()
	if err != nil {
		d.running.Store(false)
		return fmt.Errorf("acquire daemon lock: %w", err)
	}
	if !locked {
		d.running.Store(false)
		return fmt.Errorf("another daemon instance holds %s", lockPath)
	}

	d.manager.Start(ctx)
	if err := d.server.Start(); err != nil {
		d.manager.Stop()
		d.releaseLock()
		d.running.Store(false)
		return err
	}

	d.logger.Info("daemon started", logging.String("bind", d.cfg.Paths.APIBind))
	return nil
}

// Stop shuts down the API server, drains the pipeline, and releases the lock.
func (d *Daemon) Stop(ctx context.Context) {
	if !d.running.CompareAndSwap(true, false) {
		return
	}

	d.server.Stop(ctx)
	d.manager.Stop()
	d.releaseLock()
	d.logger.Info("daemon stopped")
}

func (d *Daemon) releaseLock() {
	if d.lock != nil {
		if err := d.lock.Unlock(); err != nil {
			d.logger.Warn("failed to release daemon lock", logging.Error(err))
		}
	}
}
