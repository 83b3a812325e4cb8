package metadata

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"brickforge/internal/colors"
	"brickforge/internal/services"
	"brickforge/internal/services/rebrickable"
)

func testTable() *colors.Table {
	return colors.NewTable(map[string]colors.Color{
		"0":  {Name: "Black", RGB: "05131D"},
		"4":  {Name: "Red", RGB: "C91A09"},
		"40": {Name: "Trans-Black", RGB: "635F52", Transparent: true},
	})
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), testTable(), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func sampleParts() []rebrickable.SetPart {
	return []rebrickable.SetPart{
		{Part: rebrickable.PartRef{PartNum: "3024"}, Color: rebrickable.ColorRef{ID: 0}, Quantity: 6},
		{Part: rebrickable.PartRef{PartNum: "3024"}, Color: rebrickable.ColorRef{ID: 4}, Quantity: 2},
		{Part: rebrickable.PartRef{PartNum: "3894"}, Color: rebrickable.ColorRef{ID: 72, Name: "Dark Bluish Gray", RGB: "6C6E68"}, Quantity: 4},
	}
}

func TestCreateResolvesColorsAndCounts(t *testing.T) {
	store := newTestStore(t)

	record, err := store.Create("10245-1", SetInfo{Name: "Santa's Workshop", Released: "2014", Inventory: "883", Theme: "206"}, sampleParts())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if record.TotalParts != 3 {
		t.Fatalf("total_parts = %d, want 3 (raw entry count)", record.TotalParts)
	}
	if record.UniqueParts != 2 {
		t.Fatalf("unique_parts = %d, want 2", record.UniqueParts)
	}
	if record.Parts[0].ColorName != "Black" || record.Parts[1].ColorName != "Red" {
		t.Fatalf("table colors not resolved: %+v", record.Parts[:2])
	}
	// Color 72 is not in the table; the provider's inline values apply.
	if record.Parts[2].ColorName != "Dark Bluish Gray" || record.Parts[2].ColorRGB != "6C6E68" {
		t.Fatalf("provider fallback color lost: %+v", record.Parts[2])
	}
}

// total_parts intentionally counts inventory entries, not physical pieces:
// 6+2+4 pieces collapse to 3 entries.
func TestCreateCountsRawEntriesNotQuantities(t *testing.T) {
	store := newTestStore(t)
	record, err := store.Create("10245-1", SetInfo{}, sampleParts())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if record.TotalParts == 12 {
		t.Fatal("total_parts must not sum quantities")
	}
	if record.TotalParts != 3 {
		t.Fatalf("total_parts = %d, want 3", record.TotalParts)
	}
}

func TestCreateWritesDurableJSON(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Create("10245-1", SetInfo{Name: "Santa's Workshop"}, sampleParts()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	path := store.MetadataPath("10245-1")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read metadata: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("metadata not valid JSON: %v", err)
	}
	for _, field := range []string{"set_number", "name", "released", "inventory", "theme", "total_parts", "unique_parts", "parts"} {
		if _, ok := doc[field]; !ok {
			t.Fatalf("metadata missing field %q", field)
		}
	}

	// No temp files may remain next to the document.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read set dir: %v", err)
	}
	for _, entry := range entries {
		if entry.Name() != metadataFileName {
			t.Fatalf("unexpected leftover file %q", entry.Name())
		}
	}
}

func TestLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	created, err := store.Create("10245-1", SetInfo{Name: "Santa's Workshop"}, sampleParts())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	loaded, err := store.Load("10245-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Name != created.Name || len(loaded.Parts) != len(created.Parts) {
		t.Fatalf("round trip mismatch: %+v vs %+v", loaded, created)
	}
}

func TestLoadMissingSet(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Load("0000-1")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExistsGate(t *testing.T) {
	store := newTestStore(t)
	if store.Exists("10245-1") {
		t.Fatal("set should not exist before Create")
	}
	if _, err := store.Create("10245-1", SetInfo{}, sampleParts()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !store.Exists("10245-1") {
		t.Fatal("set should exist after Create")
	}
}

func TestSTLPaths(t *testing.T) {
	store := newTestStore(t)
	path := store.STLPath("10245-1", "3024")
	if filepath.Base(path) != "3024.stl" {
		t.Fatalf("unexpected artifact name: %s", path)
	}
	if store.STLExists("10245-1", "3024") {
		t.Fatal("artifact should not exist yet")
	}
	if err := os.MkdirAll(store.STLDir("10245-1"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("solid\n"), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	if !store.STLExists("10245-1", "3024") {
		t.Fatal("artifact presence not detected")
	}
}

func TestListSkipsInvalidDirectories(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Create("10245-1", SetInfo{Name: "Santa's Workshop"}, sampleParts()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// A directory without metadata must not appear in listings.
	if err := os.MkdirAll(store.SetDir("junk"), 0o755); err != nil {
		t.Fatalf("mkdir junk: %v", err)
	}

	sets, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sets) != 1 || sets[0].SetNumber != "10245-1" {
		t.Fatalf("unexpected listing: %+v", sets)
	}
}

func TestInfoFromProvider(t *testing.T) {
	info := InfoFromProvider(rebrickable.SetInfo{Name: "Santa's Workshop", Year: 2014, NumParts: 883, ThemeID: 206})
	if info.Released != "2014" || info.Inventory != "883" || info.Theme != "206" {
		t.Fatalf("unexpected mapping: %+v", info)
	}
}
