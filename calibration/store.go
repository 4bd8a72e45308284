package calibration

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store persists the calibration profile as an opaque blob. The storage
// medium is the caller's concern; the manager only needs load/save/clear.
type Store interface {
	// Load returns the persisted blob, or (nil, nil) when nothing has
	// been saved yet
	Load() ([]byte, error)

	// Save writes the blob, replacing any previous one
	Save(data []byte) error

	// Clear removes the persisted blob
	Clear() error
}

// FileStore keeps the calibration blob in a single file
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the blob; a missing file is not an error
func (fs *FileStore) Load() ([]byte, error) {
	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading calibration file: %w", err)
	}
	return data, nil
}

// Save writes the blob, creating parent directories as needed
func (fs *FileStore) Save(data []byte) error {
	if dir := filepath.Dir(fs.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating calibration dir: %w", err)
		}
	}

	if err := os.WriteFile(fs.path, data, 0o644); err != nil {
		return fmt.Errorf("writing calibration file: %w", err)
	}
	return nil
}

// Clear removes the file; a missing file is not an error
func (fs *FileStore) Clear() error {
	err := os.Remove(fs.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing calibration file: %w", err)
	}
	return nil
}

// MemoryStore keeps the calibration blob in memory. Useful in tests and
// for sessions that should not persist anything.
type MemoryStore struct {
	data []byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (ms *MemoryStore) Load() ([]byte, error) {
	if ms.data == nil {
		return nil, nil
	}
	out := make([]byte, len(ms.data))
	copy(out, ms.data)
	return out, nil
}

func (ms *MemoryStore) Save(data []byte) error {
	ms.data = make([]byte, len(data))
	copy(ms.data, data)
	return nil
}

func (ms *MemoryStore) Clear() error {
	ms.data = nil
	return nil
}
