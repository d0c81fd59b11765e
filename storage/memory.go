package storage

import (
	"sync"

	"github.com/awnumar/memguard"
)

// memoryStorage keeps credential values sealed in memguard enclaves so the
// plaintext is encrypted at rest in process memory and protected from
// swapping. Intended for tests and short-lived processes that bootstrap from
// a token each run.
type memoryStorage struct {
	mu     sync.RWMutex
	values map[ConfigKey]*memguard.Enclave
}

// NewMemoryStorage returns an in-memory [KeyValueStore] backed by memguard
// enclaves.
func NewMemoryStorage() KeyValueStore {
	return &memoryStorage{values: make(map[ConfigKey]*memguard.Enclave)}
}

func (m *memoryStorage) GetString(key ConfigKey) (string, error) {
	b, err := m.GetBytes(key)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (m *memoryStorage) SaveString(key ConfigKey, value string) error {
	return m.SaveBytes(key, []byte(value))
}

func (m *memoryStorage) GetBytes(key ConfigKey) ([]byte, error) {
	m.mu.RLock()
	enclave, ok := m.values[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	buf, err := enclave.Open()
	if err != nil {
		return nil, err
	}
	defer buf.Destroy()

	return append([]byte(nil), buf.Bytes()...), nil
}

func (m *memoryStorage) SaveBytes(key ConfigKey, value []byte) error {
	// NewEnclave wipes its input, so seal a copy.
	enclave := memguard.NewEnclave(append([]byte(nil), value...))

	m.mu.Lock()
	m.values[key] = enclave
	m.mu.Unlock()
	return nil
}

func (m *memoryStorage) Delete(key ConfigKey) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}
