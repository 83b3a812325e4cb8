package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"brickforge/internal/colors"
	"brickforge/internal/converting"
	"brickforge/internal/jobs"
	"brickforge/internal/metadata"
	"brickforge/internal/parts"
	"brickforge/internal/services"
	"brickforge/internal/services/rebrickable"
)

type fakeProvider struct {
	err     error
	panics  bool
	release chan struct{}
}

func (f *fakeProvider) FetchSetData(ctx context.Context, setNumber string) (*rebrickable.SetData, error) {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.panics {
		panic("provider exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	return &rebrickable.SetData{
		SetNumber: setNumber,
		Info:      rebrickable.SetInfo{SetNum: setNumber, Name: "Test Set", Year: 2013, NumParts: 2, ThemeID: 52},
		Parts: []rebrickable.SetPart{
			{Part: rebrickable.PartRef{PartNum: "3024"}, Color: rebrickable.ColorRef{ID: 0, Name: "Black", RGB: "05131D"}, Quantity: 2},
			{Part: rebrickable.PartRef{PartNum: "3894"}, Color: rebrickable.ColorRef{ID: 72, Name: "Dark Bluish Gray", RGB: "6C6E68"}, Quantity: 1},
		},
	}, nil
}

type fakeConverter struct{}

func (fakeConverter) ConvertSet(_ context.Context, _ string, entries []parts.Entry, opts converting.Options) (parts.ConversionStats, error) {
	unique := parts.Deduplicate(entries)
	for i, entry := range unique {
		if opts.Progress != nil {
			opts.Progress(i+1, len(unique), entry.PartNum)
		}
	}
	return parts.ConversionStats{Total: len(unique), Converted: len(unique), FailedParts: []parts.FailedPart{}}, nil
}

func newManager(t *testing.T, provider Provider, cfg Config) (*Manager, *metadata.Store, *jobs.Registry) {
	t.Helper()
	store, err := metadata.NewStore(t.TempDir(), colors.Empty(), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	registry := jobs.NewRegistry(nil)
	manager := NewManager(provider, fakeConverter{}, store, registry, cfg, nil)
	return manager, store, registry
}

func waitTerminal(t *testing.T, registry *jobs.Registry, setNumber string) jobs.Record {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		record, _ := registry.Get(setNumber)
		if record.Status.Terminal() {
			return record
		}
		select {
		case <-deadline:
			t.Fatalf("job for %s never reached a terminal state: %+v", setNumber, record)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestSubmitProcessesSetToCompletion(t *testing.T) {
	manager, store, registry := newManager(t, &fakeProvider{}, Config{Workers: 1, QueueCapacity: 4})
	manager.Start(context.Background())
	defer manager.Stop()

	record, err := manager.Submit("10245-1")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if record.Status != jobs.StatusQueued {
		t.Fatalf("submitted status = %s", record.Status)
	}

	final := waitTerminal(t, registry, "10245-1")
	if final.Status != jobs.StatusCompleted {
		t.Fatalf("final status = %s (%s)", final.Status, final.Message)
	}
	if final.Progress != 100 || final.Stats == nil || final.Stats.Converted != 2 {
		t.Fatalf("unexpected final record: %+v", final)
	}

	if !store.Exists("10245-1") {
		t.Fatal("metadata not persisted")
	}
	meta, err := store.Load("10245-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.Name != "Test Set" || meta.TotalParts != 2 {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}

func TestSubmitRejectsAlreadyProcessedSet(t *testing.T) {
	manager, store, _ := newManager(t, &fakeProvider{}, Config{Workers: 1, QueueCapacity: 4})
	manager.Start(context.Background())
	defer manager.Stop()

	if _, err := store.Create("10245-1", metadata.SetInfo{Name: "Done"}, nil); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := manager.Submit("10245-1"); !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("err = %v, want ErrAlreadyProcessed", err)
	}
}

func TestSubmitRejectsInFlightDuplicate(t *testing.T) {
	provider := &fakeProvider{release: make(chan struct{})}
	manager, _, _ := newManager(t, provider, Config{Workers: 1, QueueCapacity: 4})
	manager.Start(context.Background())

	if _, err := manager.Submit("10245-1"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := manager.Submit("10245-1"); !errors.Is(err, ErrAlreadyInProgress) {
		t.Fatalf("err = %v, want ErrAlreadyInProgress", err)
	}

	close(provider.release)
	manager.Stop()
}

func TestSubmitRejectsWhenQueueFull(t *testing.T) {
	provider := &fakeProvider{release: make(chan struct{})}
	manager, _, registry := newManager(t, provider, Config{Workers: 1, QueueCapacity: 1})
	manager.Start(context.Background())

	// First submission occupies the worker, second fills the queue.
	if _, err := manager.Submit("1111-1"); err != nil {
		t.Fatalf("Submit 1111-1: %v", err)
	}
	// Give the worker a moment to pull the first set off the queue.
	deadline := time.After(2 * time.Second)
	for {
		if record, _ := registry.Get("1111-1"); record.Status == jobs.StatusProcessing {
			break
		}
		select {
		case <-deadline:
			t.Fatal("worker never picked up first set")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if _, err := manager.Submit("2222-1"); err != nil {
		t.Fatalf("Submit 2222-1: %v", err)
	}

	_, err := manager.Submit("3333-1")
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("err = %v, want ErrQueueFull", err)
	}
	// The rejected set must be resubmittable once there is room.
	if record, _ := registry.Get("3333-1"); record.Status != jobs.StatusUnknown {
		t.Fatalf("rejected submission left a record: %+v", record)
	}

	close(provider.release)
	manager.Stop()
}

func TestProviderFailureMarksJobFailed(t *testing.T) {
	provider := &fakeProvider{err: services.Wrap(services.ErrNotFound, "rebrickable", "set_info", "set 9999-1 not found", nil)}
	manager, store, registry := newManager(t, provider, Config{Workers: 1, QueueCapacity: 4})
	manager.Start(context.Background())
	defer manager.Stop()

	if _, err := manager.Submit("9999-1"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	final := waitTerminal(t, registry, "9999-1")
	if final.Status != jobs.StatusFailed {
		t.Fatalf("final status = %s", final.Status)
	}
	if final.Message == "" {
		t.Fatal("failure message missing")
	}
	if store.Exists("9999-1") {
		t.Fatal("failed set must not leave metadata behind")
	}
}

func TestWorkerPanicIsContained(t *testing.T) {
	manager, _, registry := newManager(t, &fakeProvider{panics: true}, Config{Workers: 1, QueueCapacity: 4})
	manager.Start(context.Background())
	defer manager.Stop()

	if _, err := manager.Submit("10245-1"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	final := waitTerminal(t, registry, "10245-1")
	if final.Status != jobs.StatusFailed {
		t.Fatalf("final status = %s", final.Status)
	}

	// The worker must survive the panic and handle the next set.
	if _, err := manager.Submit("7181-1"); err != nil {
		t.Fatalf("Submit after panic: %v", err)
	}
}

func TestSubmitRejectedBeforeStartAndAfterStop(t *testing.T) {
	manager, _, registry := newManager(t, &fakeProvider{}, Config{Workers: 1, QueueCapacity: 4})

	if _, err := manager.Submit("10245-1"); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("err before Start = %v, want ErrNotRunning", err)
	}

	manager.Start(context.Background())
	manager.Stop()

	// A submission racing shutdown must be rejected, never sent on the
	// closed queue.
	if _, err := manager.Submit("10245-1"); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("err after Stop = %v, want ErrNotRunning", err)
	}
	if record, _ := registry.Get("10245-1"); record.Status != jobs.StatusUnknown {
		t.Fatalf("rejected submission left a record: %+v", record)
	}
}

func TestStatusReportsUnknownForUnsubmittedSet(t *testing.T) {
	manager, _, _ := newManager(t, &fakeProvider{}, Config{Workers: 1, QueueCapacity: 4})
	record := manager.Status("0000-1")
	if record.Status != jobs.StatusUnknown {
		t.Fatalf("status = %s, want unknown", record.Status)
	}
}
