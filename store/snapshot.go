// Package store persists the document as a single whole-state binary
// snapshot file. There is no append log, no versioning, and no atomic
// rename: the file is simply overwritten, trading durability edge cases for
// a layout that is trivial to inspect and to hydrate from.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	defaultDirName  = ".float-liner"
	defaultFileName = "data.liner"
)

// ErrNotExist reports that no snapshot has been written yet. Distinct from
// read failures so startup can fall back silently.
var ErrNotExist = errors.New("store: snapshot does not exist")

// Store reads and writes the snapshot file.
type Store struct {
	path string
}

// New creates a store for the given snapshot path.
func New(path string) *Store {
	return &Store{path: path}
}

// DefaultPath places the snapshot under the per-user data directory,
// falling back to the working directory when no home is resolvable.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, defaultDirName, defaultFileName)
}

// Path returns the snapshot file location.
func (s *Store) Path() string { return s.path }

// Load reads the snapshot bytes. A missing file returns ErrNotExist; any
// other failure is wrapped with the path for context.
func (s *Store) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, s.path)
		}
		return nil, fmt.Errorf("store: read snapshot %s: %w", s.path, err)
	}
	return data, nil
}

// Save overwrites the snapshot with the given full state, creating the data
// directory if needed. In-memory state stays valid when the write fails.
func (s *Store) Save(state []byte) error {
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("store: create data dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.path, state, 0o644); err != nil {
		return fmt.Errorf("store: write snapshot %s: %w", s.path, err)
	}
	return nil
}
