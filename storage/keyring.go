package storage

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// keyringStorage stores each credential value as a separate entry in the OS
// secret store (macOS Keychain, Windows Credential Manager, freedesktop
// Secret Service). service namespaces the entries, so distinct applications
// on the same machine do not collide.
type keyringStorage struct {
	service string
}

// NewKeyringStorage returns a [KeyValueStore] over the OS secret store under
// the given service name.
func NewKeyringStorage(service string) KeyValueStore {
	return &keyringStorage{service: service}
}

func (k *keyringStorage) GetString(key ConfigKey) (string, error) {
	value, err := keyring.Get(k.service, string(key))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("keyring get %s: %w", key, err)
	}
	return value, nil
}

func (k *keyringStorage) SaveString(key ConfigKey, value string) error {
	if err := keyring.Set(k.service, string(key), value); err != nil {
		return fmt.Errorf("keyring set %s: %w", key, err)
	}
	return nil
}

func (k *keyringStorage) GetBytes(key ConfigKey) ([]byte, error) {
	value, err := k.GetString(key)
	if err != nil {
		return nil, err
	}
	raw, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return raw, nil
}

func (k *keyringStorage) SaveBytes(key ConfigKey, value []byte) error {
	return k.SaveString(key, base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(value))
}

func (k *keyringStorage) Delete(key ConfigKey) error {
	err := keyring.Delete(k.service, string(key))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring delete %s: %w", key, err)
	}
	return nil
}
