// Package artifacts persists walk-forward and DSR result artifacts by
// name. It is a thin interface over whatever backing store the host
// chooses (local file, Postgres); the core evaluator itself never
// writes to disk.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"

	ioatomic "github.com/sawpanic/ictcore/internal/io"
)

// Store persists and retrieves a named run's artifact bytes. Names
// are opaque identifiers (e.g. "experiments/BTCUSD-20260101.json");
// the core assigns no meaning to them beyond grouping a run's output.
type Store interface {
	Save(name string, data []byte) error
	Load(name string) ([]byte, error)
	List(prefix string) ([]string, error)
}

// FileStore is a local-filesystem Store rooted at Dir, writing every
// artifact atomically (run output is conventionally persisted under
// experiments/), grounded on internal/artifacts/manifest.IO's
// backup-then-write pattern but simplified to the core's
// single-writer-per-run use.
type FileStore struct {
	Dir string
}

// NewFileStore returns a FileStore rooted at dir, creating it if
// necessary.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create artifact dir %s: %w", dir, err)
	}
	return &FileStore{Dir: dir}, nil
}

func (f *FileStore) path(name string) string {
	return filepath.Join(f.Dir, name)
}

// Save writes data to name, via a temp-file-then-rename so a reader
// never observes a partially written artifact.
func (f *FileStore) Save(name string, data []byte) error {
	return ioatomic.WriteFileAtomic(f.path(name), data)
}

// Load reads name's bytes back.
func (f *FileStore) Load(name string) ([]byte, error) {
	data, err := os.ReadFile(f.path(name))
	if err != nil {
		return nil, fmt.Errorf("load artifact %s: %w", name, err)
	}
	return data, nil
}

// List returns every artifact name under Dir whose path (relative to
// Dir) starts with prefix.
func (f *FileStore) List(prefix string) ([]string, error) {
	var names []string
	err := filepath.Walk(f.Dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(f.Dir, path)
		if err != nil {
			return err
		}
		if prefix == "" || filepathHasPrefix(rel, prefix) {
			names = append(names, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list artifacts under %s: %w", f.Dir, err)
	}
	return names, nil
}

func filepathHasPrefix(path, prefix string) bool {
	return len(path) >= len(prefix) && path[:len(prefix)] == prefix
}
