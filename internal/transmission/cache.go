package transmission

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// CacheStore is the single-slot disaster-recovery cache: it holds at most
// the last successful exchange (transmission key ‖ response ciphertext) and
// serves it when the network is unavailable. Staleness is the caller's
// explicit risk.
type CacheStore interface {
	// Save overwrites the slot. Last writer wins.
	Save(data []byte) error

	// Load returns the slot content, or an error when the slot is empty.
	Load() ([]byte, error)

	// Purge empties the slot.
	Purge() error
}

// DefaultCacheFileName is the file used when caching is enabled without an
// explicit CacheStore.
const DefaultCacheFileName = "ksm_cache.bin"

// fileCache persists the slot in a single file, written through a temp file
// and rename so a crash cannot leave a torn slot.
type fileCache struct {
	path string
	mu   sync.Mutex
}

// NewFileCache returns a file-backed [CacheStore] at path.
func NewFileCache(path string) CacheStore {
	return &fileCache{path: path}
}

func (c *fileCache) Save(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".ksm-cache-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err = tmp.Write(data); err == nil {
		err = tmp.Chmod(0o600)
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func (c *fileCache) Load() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errNoCache
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errNoCache
	}
	return data, nil
}

func (c *fileCache) Purge() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := os.Remove(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// memoryCache is an in-process slot used by tests and short-lived callers.
type memoryCache struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryCache returns an in-memory [CacheStore].
func NewMemoryCache() CacheStore {
	return &memoryCache{}
}

func (c *memoryCache) Save(data []byte) error {
	c.mu.Lock()
	c.data = append([]byte(nil), data...)
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Load() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.data) == 0 {
		return nil, errNoCache
	}
	return append([]byte(nil), c.data...), nil
}

func (c *memoryCache) Purge() error {
	c.mu.Lock()
	c.data = nil
	c.mu.Unlock()
	return nil
}
