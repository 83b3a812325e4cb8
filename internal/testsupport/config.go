package testsupport

import (
	"path/filepath"
	"testing"

	"brickforge/internal/config"
)

// NewConfig returns a validated configuration rooted in per-test temp
// directories, with a throwaway API key so validation passes offline.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()

	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.SetsDir = filepath.Join(root, "sets")
	cfg.Paths.LDrawDir = filepath.Join(root, "ldraw")
	cfg.Paths.LogDir = filepath.Join(root, "logs")
	cfg.Paths.ColorsCSV = filepath.Join(root, "colors.csv")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Rebrickable.APIKey = "test"

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}
