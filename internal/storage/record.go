package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned by Get when the record has never been written.
var ErrNotFound = errors.New("record not found")

// Record is a single opaque persisted record.
type Record interface {
	// Get returns the stored bytes, or ErrNotFound.
	Get() ([]byte, error)

	// Set overwrites the whole record.
	Set(data []byte) error

	// Location describes where the record lives, for diagnostics.
	Location() string
}

// FileRecord stores a record as a single file.
//
// SECURITY: records hold client secrets and access tokens. Files are written
// with 0600 and the parent directory is created with 0700.
type FileRecord struct {
	path string
}

// NewFileRecord returns a file-backed record at path.
func NewFileRecord(path string) *FileRecord {
	return &FileRecord{path: path}
}

// Get reads the record file.
func (r *FileRecord) Get() ([]byte, error) {
	// #nosec G304 -- path comes from configuration, not request input
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", r.path, err)
	}
	return data, nil
}

// Set writes the record atomically: a temp file in the same directory is
// renamed over the target so readers never observe a partial record.
func (r *FileRecord) Set(data []byte) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", r.path, err)
	}
	return nil
}

// Location returns the file path.
func (r *FileRecord) Location() string {
	return r.path
}

// Path returns the file path. Used by watchers.
func (r *FileRecord) Path() string {
	return r.path
}

// MemoryRecord is an in-memory Record.
type MemoryRecord struct {
	mu   sync.RWMutex
	data []byte
	set  bool
	name string
}

// NewMemoryRecord returns an empty in-memory record.
func NewMemoryRecord(name string) *MemoryRecord {
	return &MemoryRecord{name: name}
}

// Get returns a copy of the stored bytes.
func (r *MemoryRecord) Get() ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.set {
		return nil, ErrNotFound
	}
	out := make([]byte, len(r.data))
	copy(out, r.data)
	return out, nil
}

// Set stores a copy of data.
func (r *MemoryRecord) Set(data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = make([]byte, len(data))
	copy(r.data, data)
	r.set = true
	return nil
}

// Location returns a pseudo location for diagnostics.
func (r *MemoryRecord) Location() string {
	return "memory://" + r.name
}
