package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteColorsCSV writes a Rebrickable-style colors table with the given data
// rows (each "id,name,rgb,is_trans") and returns its path.
func WriteColorsCSV(t *testing.T, dir string, rows ...string) string {
	t.Helper()

	path := filepath.Join(dir, "colors.csv")
	content := "id,name,rgb,is_trans\n" + strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write colors csv: %v", err)
	}
	return path
}

// WriteSourceAsset drops a placeholder part source file into an LDraw-style
// library layout and returns the library root.
func WriteSourceAsset(t *testing.T, libraryDir, fileName string) string {
	t.Helper()

	partsDir := filepath.Join(libraryDir, "parts")
	if err := os.MkdirAll(partsDir, 0o755); err != nil {
		t.Fatalf("create parts dir: %v", err)
	}
	path := filepath.Join(partsDir, fileName)
	if err := os.WriteFile(path, []byte("0 placeholder part\n"), 0o644); err != nil {
		t.Fatalf("write source asset: %v", err)
	}
	return libraryDir
}
