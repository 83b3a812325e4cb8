package colors

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Color describes one entry in the lookup table.
type Color struct {
	Name        string
	RGB         string
	Transparent bool
}

// Table maps Rebrickable color ids to display attributes. It is loaded once
// at startup and read-only afterwards.
type Table struct {
	byID map[string]Color
}

// NewTable builds a table from an explicit mapping (used in tests).
func NewTable(entries map[string]Color) *Table {
	byID := make(map[string]Color, len(entries))
	for id, color := range entries {
		byID[id] = color
	}
	return &Table{byID: byID}
}

// Empty returns a table with no entries. Lookups always miss, which pushes
// callers onto the provider-inline color fallback.
func Empty() *Table {
	return &Table{byID: map[string]Color{}}
}

// LoadTable reads a Rebrickable colors.csv dump (header: id,name,rgb,is_trans).
func LoadTable(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open colors csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read colors header: %w", err)
	}

	idx := map[string]int{}
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"id", "name", "rgb", "is_trans"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("colors csv missing %q column", required)
		}
	}

	byID := map[string]Color{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read colors row: %w", err)
		}
		id := strings.TrimSpace(record[idx["id"]])
		if id == "" {
			continue
		}
		byID[id] = Color{
			Name:        record[idx["name"]],
			RGB:         record[idx["rgb"]],
			Transparent: strings.EqualFold(strings.TrimSpace(record[idx["is_trans"]]), "true"),
		}
	}

	return &Table{byID: byID}, nil
}

// Lookup returns the color for id, if present.
func (t *Table) Lookup(id string) (Color, bool) {
	if t == nil {
		return Color{}, false
	}
	color, ok := t.byID[id]
	return color, ok
}

// Len returns the number of loaded colors.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byID)
}
