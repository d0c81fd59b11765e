// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keeper Security, Inc.

// Package storage defines the KeyValueStore contract the SDK persists its
// credential through, together with the shipped backends: process memory
// (memguard-sealed), plain and encrypted config files, the OS keyring, and
// SQLite.
package storage

import "errors"

//go:generate mockgen -source=storage.go -destination=../internal/mock/storage_mock.go -package=mock

// ErrNotFound is returned by Get operations when the key has no value.
var ErrNotFound = errors.New("config value not found")

// ConfigKey names one entry of the stored credential.
type ConfigKey string

// The well-known credential keys. ClientKey holds the one-time token secret
// and is deleted after the first successful bind; AppKey appears only after
// that bind succeeds.
const (
	KeyClientID          ConfigKey = "clientId"
	KeyClientKey         ConfigKey = "clientKey"
	KeyPrivateKey        ConfigKey = "privateKey"
	KeyAppKey            ConfigKey = "appKey"
	KeyHostname          ConfigKey = "hostname"
	KeyServerPublicKeyID ConfigKey = "serverPublicKeyId"
	KeyOwnerPublicKey    ConfigKey = "appOwnerPublicKey"
)

// KeyValueStore is the opaque get/set/delete contract for named credential
// values. Implementations must be safe for concurrent readers with a single
// writer; writes replace the value atomically.
type KeyValueStore interface {
	// GetString returns the value stored under key, or [ErrNotFound].
	GetString(key ConfigKey) (string, error)

	// SaveString stores value under key, replacing any previous value.
	SaveString(key ConfigKey, value string) error

	// GetBytes returns the binary value stored under key, or [ErrNotFound].
	GetBytes(key ConfigKey) ([]byte, error)

	// SaveBytes stores a binary value under key.
	SaveBytes(key ConfigKey, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key ConfigKey) error
}

// KMSClient is the narrow contract a cloud key-management adapter must
// satisfy to wrap the encrypted config blob. Vendor adapters live outside
// this module.
type KMSClient interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}
