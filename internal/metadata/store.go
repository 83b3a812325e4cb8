package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"brickforge/internal/colors"
	"brickforge/internal/logging"
	"brickforge/internal/parts"
	"brickforge/internal/services"
	"brickforge/internal/services/rebrickable"
)

// SetInfo is the set-level metadata handed to Create, already mapped to the
// durable string fields.
type SetInfo struct {
	Name      string
	Released  string
	Inventory string
	Theme     string
}

// InfoFromProvider maps provider set metadata onto the durable fields.
func InfoFromProvider(info rebrickable.SetInfo) SetInfo {
	return SetInfo{
		Name:      info.Name,
		Released:  strconv.Itoa(info.Year),
		Inventory: strconv.Itoa(info.NumParts),
		Theme:     strconv.Itoa(info.ThemeID),
	}
}

// SetMetadata is the durable record for one processed set, stored as a single
// JSON document. Its presence on disk is the authoritative signal that the
// set has been processed.
type SetMetadata struct {
	SetNumber   string        `json:"set_number"`
	Name        string        `json:"name"`
	Released    string        `json:"released"`
	Inventory   string        `json:"inventory"`
	Theme       string        `json:"theme"`
	TotalParts  int           `json:"total_parts"`
	UniqueParts int           `json:"unique_parts"`
	Parts       []parts.Entry `json:"parts"`
}

// Store persists set metadata and resolves generated-artifact paths.
type Store struct {
	setsDir string
	colors  *colors.Table
	logger  *slog.Logger
}

// NewStore constructs a metadata store rooted at setsDir.
func NewStore(setsDir string, table *colors.Table, logger *slog.Logger) (*Store, error) {
	setsDir = strings.TrimSpace(setsDir)
	if setsDir == "" {
		return nil, errors.New("sets directory required")
	}
	if table == nil {
		table = colors.Empty()
	}
	return &Store{
		setsDir: setsDir,
		colors:  table,
		logger:  logging.NewComponentLogger(logger, "metadata"),
	}, nil
}

// Create normalizes a raw provider parts list into a SetMetadata record and
// writes it durably. Color ids missing from the lookup table fall back to the
// provider's inline color attributes; this degrades gracefully rather than
// failing the set.
func (s *Store) Create(setNumber string, info SetInfo, rawParts []rebrickable.SetPart) (*SetMetadata, error) {
	entries := make([]parts.Entry, 0, len(rawParts))
	missingColors := map[string]struct{}{}

	for _, raw := range rawParts {
		colorID := strconv.Itoa(raw.Color.ID)
		quantity := raw.Quantity
		if quantity < 1 {
			quantity = 1
		}

		entry := parts.Entry{
			PartNum:  raw.Part.PartNum,
			ColorID:  colorID,
			Quantity: quantity,
			IsSpare:  raw.IsSpare,
		}
		if color, ok := s.colors.Lookup(colorID); ok {
			entry.ColorName = color.Name
			entry.ColorRGB = color.RGB
			entry.IsTransparent = color.Transparent
		} else {
			missingColors[colorID] = struct{}{}
			entry.ColorName = raw.Color.Name
			entry.ColorRGB = raw.Color.RGB
			entry.IsTransparent = raw.Color.IsTrans
		}
		entries = append(entries, entry)
	}

	if len(missingColors) > 0 {
		ids := make([]string, 0, len(missingColors))
		for id := range missingColors {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		s.logger.Warn("color ids missing from lookup table, using provider values",
			logging.String("set", setNumber),
			logging.String("color_ids", strings.Join(ids, ",")),
		)
	}

	record := &SetMetadata{
		SetNumber: setNumber,
		Name:      info.Name,
		Released:  info.Released,
		Inventory: info.Inventory,
		Theme:     info.Theme,
		// Raw inventory entry count, not the quantity sum; color variants of
		// one part count separately here.
		TotalParts:  len(entries),
		UniqueParts: parts.CountUnique(entries),
		Parts:       entries,
	}

	if err := s.write(record); err != nil {
		return nil, err
	}

	s.logger.Info("set metadata written",
		logging.String("set", setNumber),
		logging.Int("total_parts", record.TotalParts),
		logging.Int("unique_parts", record.UniqueParts),
	)
	return record, nil
}

func (s *Store) write(record *SetMetadata) error {
	setDir := s.SetDir(record.SetNumber)
	if err := os.MkdirAll(setDir, 0o755); err != nil {
		return fmt.Errorf("create set directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	// Temp-then-rename so a crashed write can never be read as valid metadata.
	tmp, err := os.CreateTemp(setDir, ".set.json.*")
	if err != nil {
		return fmt.Errorf("create temp metadata: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write metadata: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close metadata: %w", err)
	}
	if err := os.Rename(tmpPath, s.MetadataPath(record.SetNumber)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename metadata: %w", err)
	}
	return nil
}

// Load reads the durable record for a set.
func (s *Store) Load(setNumber string) (*SetMetadata, error) {
	data, err := os.ReadFile(s.MetadataPath(setNumber))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "metadata", "load", "set "+setNumber+" not processed", nil)
		}
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	var record SetMetadata
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parse metadata for set %s: %w", setNumber, err)
	}
	return &record, nil
}

// Exists reports whether a set has already been processed. This is the
// idempotency gate for submissions.
func (s *Store) Exists(setNumber string) bool {
	info, err := os.Stat(s.MetadataPath(setNumber))
	return err == nil && !info.IsDir()
}

// List loads metadata for every processed set, sorted by set number.
// Directories without valid metadata are skipped.
func (s *Store) List() ([]*SetMetadata, error) {
	entries, err := os.ReadDir(s.setsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read sets directory: %w", err)
	}

	var sets []*SetMetadata
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		record, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		sets = append(sets, record)
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].SetNumber < sets[j].SetNumber })
	return sets, nil
}
