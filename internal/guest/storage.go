package guest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Storage is a persistent string key/value store for the guest identity
type Storage interface {
	// Get returns the value and whether the key was present
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// Persistent reports whether values survive between calls. Services backed by a
	// non-persistent storage return the placeholder identity.
	Persistent() bool
}

// MemoryStorage keeps values in process memory
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStorage creates an empty memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStorage) Persistent() bool { return true }

// NoopStorage stores nothing
type NoopStorage struct{}

func (NoopStorage) Get(string) (string, bool, error) { return "", false, nil }
func (NoopStorage) Set(string, string) error         { return nil }
func (NoopStorage) Persistent() bool                 { return false }

// FileStorage keeps values in a YAML file. Writes are read-modify-write without locking.
type FileStorage struct {
	path string
}

// NewFileStorage creates a storage backed by the YAML file at path
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (f *FileStorage) Get(key string) (string, bool, error) {
	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (f *FileStorage) Set(key, value string) error {
	values, err := f.load()
	if err != nil {
		return err
	}
	values[key] = value

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode guest storage: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create guest storage directory: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write guest storage: %w", err)
	}
	return nil
}

func (f *FileStorage) Persistent() bool { return true }

func (f *FileStorage) load() (map[string]string, error) {
	values := make(map[string]string)
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read guest storage: %w", err)
	}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to decode guest storage: %w", err)
	}
	if values == nil {
		values = make(map[string]string)
	}
	return values, nil
}
