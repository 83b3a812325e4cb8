package daemon

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"brickforge/internal/colors"
	"brickforge/internal/jobs"
	"brickforge/internal/metadata"
	"brickforge/internal/pipeline"
	"brickforge/internal/testsupport"
)

func newTestDaemon(t *testing.T) *Daemon {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store, err := metadata.NewStore(cfg.Paths.SetsDir, colors.Empty(), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	registry := jobs.NewRegistry(nil)
	manager := pipeline.NewManager(stubProvider{}, stubConverter{}, store, registry, pipeline.Config{Workers: 1, QueueCapacity: 4}, nil)
	server := NewAPIServer(cfg.Paths.APIBind, manager, store, stubValidator{}, nil)
	return New(cfg, manager, server, nil)
}

func TestDaemonStartStopReleasesLock(t *testing.T) {
	d := newTestDaemon(t)

	ctx := context.Background()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	d.Stop(ctx)

	// After a clean stop the lock is free for the next process.
	lock := flock.New(filepath.Join(d.cfg.Paths.LogDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	if !locked {
		t.Fatal("daemon lock still held after Stop")
	}
	_ = lock.Unlock()
}

func TestDaemonStartIsExclusive(t *testing.T) {
	first := newTestDaemon(t)
	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer first.Stop(ctx)

	if err := first.Start(ctx); err == nil {
		t.Fatal("second Start on a running daemon must fail")
	} else if !strings.Contains(err.Error(), "already started") {
		t.Fatalf("unexpected error: %v", err)
	}
}
