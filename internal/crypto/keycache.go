package crypto

import (
	"crypto/ecdsa"
	"sync"
)

// KeyCache memoizes imported public keys by key id. It is owned by a single
// transmission client instance and invalidated on rebinding, replacing the
// process-wide key map older implementations carried.
type KeyCache struct {
	mu   sync.RWMutex
	keys map[string]*ecdsa.PublicKey
}

// NewKeyCache returns an empty cache.
func NewKeyCache() *KeyCache {
	return &KeyCache{keys: make(map[string]*ecdsa.PublicKey)}
}

// Get returns the key imported under id, importing and caching raw on first
// use. raw must be a 65-byte uncompressed point.
func (c *KeyCache) Get(id string, raw []byte) (*ecdsa.PublicKey, error) {
	c.mu.RLock()
	key, ok := c.keys[id]
	c.mu.RUnlock()
	if ok {
		return key, nil
	}

	key, err := ImportPublicKey(raw)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.keys[id] = key
	c.mu.Unlock()
	return key, nil
}

// Invalidate drops every cached key.
func (c *KeyCache) Invalidate() {
	c.mu.Lock()
	c.keys = make(map[string]*ecdsa.PublicKey)
	c.mu.Unlock()
}
