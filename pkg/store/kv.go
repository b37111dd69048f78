package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/peterbourgon/diskv/v3"
)

// ErrNotFound is returned by a KV when the key has never been written.
var ErrNotFound = errors.New("store: key not found")

// KV is the durable key/value storage the report store and session flag
// are persisted to.
type KV interface {
	Read(key string) ([]byte, error)
	Write(key string, val []byte) error
	Erase(key string) error
}

// DiskKV keeps each key in its own file under a base directory.
type DiskKV struct {
	d        *diskv.Diskv
	basePath string
}

var _ KV = (*DiskKV)(nil)

// NewDiskKV opens a diskv store rooted at basePath, creating it if needed.
func NewDiskKV(basePath string) (*DiskKV, error) {
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o700); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &DiskKV{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			TempDir:           filepath.Join(basePath, ".tmp"),
			AdvancedTransform: flatTransform,
			InverseTransform:  flatInverseTransform,
			FilePerm:          0o600,
			PathPerm:          0o700,
		}),
		basePath: basePath,
	}, nil
}

// BasePath returns the directory backing the store.
func (k *DiskKV) BasePath() string {
	return k.basePath
}

func (k *DiskKV) Read(key string) ([]byte, error) {
	val, err := k.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return val, nil
}

func (k *DiskKV) Write(key string, val []byte) error {
	return k.d.Write(key, val)
}

func (k *DiskKV) Erase(key string) error {
	if !k.d.Has(key) {
		return nil
	}
	return k.d.Erase(key)
}

func flatTransform(s string) *diskv.PathKey {
	return &diskv.PathKey{
		Path:     []string{},
		FileName: s,
	}
}

func flatInverseTransform(pathKey *diskv.PathKey) string {
	return pathKey.FileName
}

// MemoryKV is a process-local KV. It backs sessions that must not outlive
// the running program.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

var _ KV = (*MemoryKV)(nil)

// NewMemoryKV returns an empty in-memory KV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Read(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), val...), nil
}

func (m *MemoryKV) Write(key string, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), val...)
	return nil
}

func (m *MemoryKV) Erase(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
