package converting

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"brickforge/internal/colors"
	"brickforge/internal/metadata"
	"brickforge/internal/parts"
	"brickforge/internal/services"
)

// fakeBackend converts by writing a stub file, except for part numbers listed
// in missing or failing.
type fakeBackend struct {
	missing map[string]bool
	failing map[string]error

	converted []string
}

func (f *fakeBackend) Convert(_ context.Context, partNum, destPath string) error {
	if f.missing[partNum] {
		return services.Wrap(services.ErrNotFound, "ldraw", "convert", "source asset not found", nil)
	}
	if err := f.failing[partNum]; err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(destPath, []byte("solid\nendsolid\n"), 0o644); err != nil {
		return err
	}
	f.converted = append(f.converted, partNum)
	return nil
}

func newFixture(t *testing.T, backend Backend) *Orchestrator {
	t.Helper()
	store, err := metadata.NewStore(t.TempDir(), colors.Empty(), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return New(backend, store, nil)
}

func sampleEntries() []parts.Entry {
	return []parts.Entry{
		{PartNum: "3024", ColorID: "0", Quantity: 6},
		{PartNum: "3024", ColorID: "4", Quantity: 2},
		{PartNum: "3894", ColorID: "72", Quantity: 4},
		{PartNum: "3001", ColorID: "0", Quantity: 1},
	}
}

func TestConvertSetCountsOutcomes(t *testing.T) {
	backend := &fakeBackend{
		missing: map[string]bool{"3894": true},
		failing: map[string]error{
			"3001": services.Wrap(services.ErrTimeout, "ldraw", "convert", "part 3001 exceeded 1m0s", context.DeadlineExceeded),
		},
	}
	orch := newFixture(t, backend)

	stats, err := orch.ConvertSet(context.Background(), "10245-1", sampleEntries(), Options{SkipExisting: true})
	if err != nil {
		t.Fatalf("ConvertSet: %v", err)
	}

	if stats.Total != 3 {
		t.Fatalf("total = %d, want 3 unique parts", stats.Total)
	}
	if stats.Converted != 1 || stats.Missing != 1 || stats.Failed != 1 || stats.Skipped != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if !stats.Consistent() {
		t.Fatalf("stats invariant violated: %+v", stats)
	}

	reasons := map[string]string{}
	for _, failed := range stats.FailedParts {
		reasons[failed.PartNum] = failed.Reason
	}
	if reasons["3894"] != "source asset not found" {
		t.Fatalf("missing part reason = %q", reasons["3894"])
	}
	if reasons["3001"] != "conversion timed out" {
		t.Fatalf("timeout reason = %q", reasons["3001"])
	}
}

func TestConvertSetContinuesAfterFailures(t *testing.T) {
	backend := &fakeBackend{failing: map[string]error{
		"3024": services.Wrap(services.ErrExternalTool, "ldraw", "convert", "boom", nil),
	}}
	orch := newFixture(t, backend)

	stats, err := orch.ConvertSet(context.Background(), "10245-1", sampleEntries(), Options{})
	if err != nil {
		t.Fatalf("ConvertSet: %v", err)
	}
	// 3894 and 3001 must still be attempted after 3024 fails.
	if stats.Converted != 2 || stats.Failed != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if len(backend.converted) != 2 {
		t.Fatalf("later parts not processed: %v", backend.converted)
	}
}

func TestConvertSetSecondRunSkipsEverything(t *testing.T) {
	backend := &fakeBackend{}
	store, err := metadata.NewStore(t.TempDir(), colors.Empty(), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	orch := New(backend, store, nil)

	first, err := orch.ConvertSet(context.Background(), "10245-1", sampleEntries(), Options{SkipExisting: true})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Converted != first.Total {
		t.Fatalf("first run should convert everything: %+v", first)
	}

	second, err := orch.ConvertSet(context.Background(), "10245-1", sampleEntries(), Options{SkipExisting: true})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Converted != 0 || second.Skipped != second.Total {
		t.Fatalf("second run not idempotent: %+v", second)
	}
}

func TestConvertSetReportsProgressInFirstSeenOrder(t *testing.T) {
	backend := &fakeBackend{}
	orch := newFixture(t, backend)

	var order []string
	_, err := orch.ConvertSet(context.Background(), "10245-1", sampleEntries(), Options{
		Progress: func(done, total int, partNum string) {
			if total != 3 {
				t.Errorf("total = %d, want 3", total)
			}
			order = append(order, partNum)
		},
	})
	if err != nil {
		t.Fatalf("ConvertSet: %v", err)
	}
	want := []string{"3024", "3894", "3001"}
	if len(order) != len(want) {
		t.Fatalf("progress calls = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

// cancelingBackend converts its first part, then gets canceled mid-call on
// the second and reports the context error the way the converter does.
type cancelingBackend struct {
	cancel context.CancelFunc
	calls  int
}

func (b *cancelingBackend) Convert(ctx context.Context, partNum, destPath string) error {
	b.calls++
	if b.calls > 1 {
		b.cancel()
		return ctx.Err()
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(destPath, []byte("solid\nendsolid\n"), 0o644)
}

func TestConvertSetStopsOnCancellationMidPart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	backend := &cancelingBackend{cancel: cancel}
	orch := newFixture(t, backend)

	stats, err := orch.ConvertSet(ctx, "10245-1", sampleEntries(), Options{})
	if err == nil {
		t.Fatal("expected an interruption error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	// The cancellation must not be counted as a per-part tool failure.
	if stats.Failed != 0 || stats.Missing != 0 {
		t.Fatalf("cancellation counted as failure: %+v", stats)
	}
	if stats.Converted != 1 {
		t.Fatalf("converted = %d, want 1 before interruption", stats.Converted)
	}
}

func TestConvertSetEmptyParts(t *testing.T) {
	orch := newFixture(t, &fakeBackend{})
	stats, err := orch.ConvertSet(context.Background(), "10245-1", nil, Options{SkipExisting: true})
	if err != nil {
		t.Fatalf("ConvertSet: %v", err)
	}
	if stats.Total != 0 || !stats.Consistent() {
		t.Fatalf("unexpected stats for empty input: %+v", stats)
	}
}
