package metadata

import (
	"os"
	"path/filepath"
)

const metadataFileName = ".set.json"

// SetDir returns the directory holding everything for one set.
func (s *Store) SetDir(setNumber string) string {
	return filepath.Join(s.setsDir, setNumber)
}

// MetadataPath returns the path of the durable metadata document for a set.
func (s *Store) MetadataPath(setNumber string) string {
	return filepath.Join(s.SetDir(setNumber), metadataFileName)
}

// STLDir returns the directory holding generated meshes for a set.
func (s *Store) STLDir(setNumber string) string {
	return filepath.Join(s.SetDir(setNumber), "stls")
}

// STLPath returns the artifact path for one part of a set.
func (s *Store) STLPath(setNumber, partNum string) string {
	return filepath.Join(s.STLDir(setNumber), partNum+".stl")
}

// STLExists reports whether the mesh artifact for a part is present. Presence
// is the skip-existing signal for reprocessing.
func (s *Store) STLExists(setNumber, partNum string) bool {
	info, err := os.Stat(s.STLPath(setNumber, partNum))
	return err == nil && !info.IsDir()
}
