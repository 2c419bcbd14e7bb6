// Package draft persists the in-progress questionnaire so an interrupted
// session can pick up where it left off.
package draft

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotFound is returned by a backend when no value exists for a key.
var ErrNotFound = errors.New("draft: not found")

// Backend is a key-value store of serialized drafts.
type Backend interface {
	Save(key string, data []byte) error
	Load(key string) ([]byte, error)
	Delete(key string) error
	Exists(key string) (bool, error)
}

// FileBackend keeps one JSON file per key inside a state directory.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a backend rooted at dir.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

func (b *FileBackend) path(key string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(key)
	return filepath.Join(b.dir, name+".json")
}

// Save writes data through a temp file so a crash never leaves half a draft.
func (b *FileBackend) Save(key string, data []byte) error {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("draft: ensure dir: %w", err)
	}
	tmp, err := os.CreateTemp(b.dir, ".draft-*")
	if err != nil {
		return fmt.Errorf("draft: temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("draft: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("draft: close: %w", err)
	}
	if err := os.Rename(tmpName, b.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("draft: rename: %w", err)
	}
	return nil
}

// Load reads the stored bytes for key.
func (b *FileBackend) Load(key string) ([]byte, error) {
	data, err := os.ReadFile(b.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("draft: read: %w", err)
	}
	return data, nil
}

// Delete removes key. Missing keys are not an error.
func (b *FileBackend) Delete(key string) error {
	if err := os.Remove(b.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("draft: delete: %w", err)
	}
	return nil
}

// Exists reports whether a file is present for key.
func (b *FileBackend) Exists(key string) (bool, error) {
	_, err := os.Stat(b.path(key))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("draft: stat: %w", err)
}

// MemoryBackend holds drafts in process memory.
type MemoryBackend struct {
	mu     sync.Mutex
	values map[string][]byte

	// FailWith, when set, is returned from every Save.
	FailWith error
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string][]byte)}
}

func (b *MemoryBackend) Save(key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailWith != nil {
		return b.FailWith
	}
	b.values[key] = append([]byte(nil), data...)
	return nil
}

func (b *MemoryBackend) Load(key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (b *MemoryBackend) Delete(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.values, key)
	return nil
}

func (b *MemoryBackend) Exists(key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.values[key]
	return ok, nil
}
