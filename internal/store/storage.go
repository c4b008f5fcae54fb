package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ataboada/clinica-core/internal/model"
)

// Storage is the persistence collaborator. Implementations load the whole
// state graph once at startup and durably save it after every mutation.
type Storage interface {
	LoadAll(ctx context.Context) (*model.Snapshot, error)
	SaveAll(ctx context.Context, snap *model.Snapshot) error
}

// MemoryStorage keeps the snapshot in memory only. Used by tests and by the
// API when no database or data file is configured.
type MemoryStorage struct {
	mu   sync.Mutex
	snap *model.Snapshot
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// LoadAll returns the last saved snapshot, or an empty one.
func (m *MemoryStorage) LoadAll(ctx context.Context) (*model.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		return &model.Snapshot{}, nil
	}
	return m.snap.Clone(), nil
}

// SaveAll retains a copy of the snapshot.
func (m *MemoryStorage) SaveAll(ctx context.Context, snap *model.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap.Clone()
	return nil
}

// FileStorage persists the snapshot as a JSON document on disk.
type FileStorage struct {
	path string
}

// NewFileStorage creates a storage writing to path. The parent directory is
// created on first save.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// LoadAll reads the snapshot file. A missing file yields an empty snapshot.
func (f *FileStorage) LoadAll(ctx context.Context) (*model.Snapshot, error) {
	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return &model.Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", f.path, err)
	}
	var snap model.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", f.path, err)
	}
	return &snap, nil
}

// SaveAll writes the snapshot atomically via a temp file and rename.
func (f *FileStorage) SaveAll(ctx context.Context, snap *model.Snapshot) error {
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode snapshot: %w", err)
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".clinica-*.json")
	if err != nil {
		return fmt.Errorf("store: temp file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("store: write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: rename snapshot: %w", err)
	}
	return nil
}
