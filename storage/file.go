package storage

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// fileStorage persists the credential as a JSON object of string values in a
// single config file. Binary values are base64url-encoded. Writes go through
// a temp file and rename so a crash never leaves a half-written credential.
type fileStorage struct {
	path string

	mu     sync.RWMutex
	values map[ConfigKey]string
}

// NewFileStorage opens (or lazily creates) the JSON config file at path and
// returns a [KeyValueStore] over it. The file is created with 0600
// permissions on first save.
func NewFileStorage(path string) (KeyValueStore, error) {
	fs := &fileStorage{path: path, values: make(map[ConfigKey]string)}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (f *fileStorage) load() error {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &f.values); err != nil {
		return fmt.Errorf("parse config file %s: %w", f.path, err)
	}
	return nil
}

// flush writes the whole value map atomically. Caller holds the write lock.
func (f *fileStorage) flush() error {
	data, err := json.MarshalIndent(f.values, "", "    ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".ksm-config-*")
	if err != nil {
		return fmt.Errorf("write config file: %w", err)
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
		return fmt.Errorf("write config file: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace config file: %w", err)
	}
	return nil
}

func (f *fileStorage) GetString(key ConfigKey) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	value, ok := f.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (f *fileStorage) SaveString(key ConfigKey, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values[key] = value
	return f.flush()
}

func (f *fileStorage) GetBytes(key ConfigKey) ([]byte, error) {
	value, err := f.GetString(key)
	if err != nil {
		return nil, err
	}
	raw, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return raw, nil
}

func (f *fileStorage) SaveBytes(key ConfigKey, value []byte) error {
	return f.SaveString(key, base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(value))
}

func (f *fileStorage) Delete(key ConfigKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.values[key]; !ok {
		return nil
	}
	delete(f.values, key)
	return f.flush()
}
