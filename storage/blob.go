package storage

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/argon2"

	"github.com/Keeper-Security/secrets-manager-sub004/internal/crypto"
)

// Local encrypted blob format: a 2-byte 0xFFFF header followed by four
// parts, each prefixed with a 2-byte big-endian length:
//
//	wrapped data key ‖ nonce ‖ tag ‖ ciphertext
//
// Field order and big-endian length encoding are fixed; other consumers of
// the format rely on them. A part longer than 65535 bytes cannot be
// represented and is rejected on write.

var blobHeader = [2]byte{0xFF, 0xFF}

var errBlobFormat = errors.New("malformed encrypted config blob")

// keyProtector wraps and unwraps the random data key protecting the blob.
type keyProtector interface {
	Wrap(dek []byte) ([]byte, error)
	Unwrap(wrapped []byte) ([]byte, error)
}

// kmsProtector delegates key wrapping to a cloud KMS adapter.
type kmsProtector struct {
	client KMSClient
}

func (p kmsProtector) Wrap(dek []byte) ([]byte, error) { return p.client.Encrypt(dek) }

func (p kmsProtector) Unwrap(wrapped []byte) ([]byte, error) { return p.client.Decrypt(wrapped) }

// passphraseProtector derives the wrapping key from a passphrase with
// Argon2id (1 iteration, 64 MiB, 4 threads) and a per-write random salt kept
// in front of the wrapped key.
type passphraseProtector struct {
	passphrase string
}

const passphraseSaltLen = 16

func (p passphraseProtector) kek(salt []byte) []byte {
	return argon2.IDKey([]byte(p.passphrase), salt, 1, 64*1024, 4, 32)
}

func (p passphraseProtector) Wrap(dek []byte) ([]byte, error) {
	salt := make([]byte, passphraseSaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	sealed, err := crypto.AesGcmEncrypt(p.kek(salt), dek)
	if err != nil {
		return nil, err
	}
	return append(salt, sealed...), nil
}

func (p passphraseProtector) Unwrap(wrapped []byte) ([]byte, error) {
	if len(wrapped) <= passphraseSaltLen {
		return nil, errBlobFormat
	}
	return crypto.AesGcmDecrypt(p.kek(wrapped[:passphraseSaltLen]), wrapped[passphraseSaltLen:])
}

// protectedFileStorage is a [KeyValueStore] over the encrypted blob file.
// Every flush generates a fresh data key; the previous blob is replaced
// atomically.
type protectedFileStorage struct {
	path      string
	protector keyProtector

	mu     sync.RWMutex
	values map[ConfigKey]string
}

// NewProtectedFileStorage opens an encrypted config blob at path whose data
// key is wrapped by the given KMS adapter.
func NewProtectedFileStorage(path string, kms KMSClient) (KeyValueStore, error) {
	return newProtectedFileStorage(path, kmsProtector{client: kms})
}

// NewPassphraseFileStorage opens an encrypted config blob at path whose data
// key is wrapped under an Argon2id-derived key from passphrase.
func NewPassphraseFileStorage(path, passphrase string) (KeyValueStore, error) {
	return newProtectedFileStorage(path, passphraseProtector{passphrase: passphrase})
}

func newProtectedFileStorage(path string, protector keyProtector) (KeyValueStore, error) {
	ps := &protectedFileStorage{path: path, protector: protector, values: make(map[ConfigKey]string)}
	if err := ps.load(); err != nil {
		return nil, err
	}
	return ps, nil
}

func (p *protectedFileStorage) load() error {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read encrypted config: %w", err)
	}

	wrappedKey, nonce, tag, ciphertext, err := splitBlob(data)
	if err != nil {
		return err
	}

	dek, err := p.protector.Unwrap(wrappedKey)
	if err != nil {
		return fmt.Errorf("unwrap config key: %w", err)
	}

	// Reassemble the nonce-prefixed, tag-suffixed GCM blob.
	sealed := make([]byte, 0, len(nonce)+len(ciphertext)+len(tag))
	sealed = append(sealed, nonce...)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := crypto.AesGcmDecrypt(dek, sealed)
	if err != nil {
		return fmt.Errorf("decrypt config: %w", err)
	}

	if err := json.Unmarshal(plaintext, &p.values); err != nil {
		return fmt.Errorf("parse decrypted config: %w", err)
	}
	return nil
}

// flush re-encrypts the value map under a fresh data key and atomically
// replaces the blob file. Caller holds the write lock.
func (p *protectedFileStorage) flush() error {
	plaintext, err := json.Marshal(p.values)
	if err != nil {
		return err
	}

	dek, err := crypto.Random(crypto.AESKeySize)
	if err != nil {
		return err
	}
	sealed, err := crypto.AesGcmEncrypt(dek, plaintext)
	if err != nil {
		return err
	}
	wrappedKey, err := p.protector.Wrap(dek)
	if err != nil {
		return fmt.Errorf("wrap config key: %w", err)
	}

	nonce := sealed[:12]
	tag := sealed[len(sealed)-16:]
	ciphertext := sealed[12 : len(sealed)-16]

	blob, err := joinBlob(wrappedKey, nonce, tag, ciphertext)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(p.path), ".ksm-blob-*")
	if err != nil {
		return fmt.Errorf("write encrypted config: %w", err)
	}
	tmpName := tmp.Name()
	if _, err = tmp.Write(blob); err == nil {
		err = tmp.Chmod(0o600)
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write encrypted config: %w", err)
	}
	if err := os.Rename(tmpName, p.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace encrypted config: %w", err)
	}
	return nil
}

func joinBlob(parts ...[]byte) ([]byte, error) {
	out := []byte{blobHeader[0], blobHeader[1]}
	for _, part := range parts {
		if len(part) > 0xFFFF {
			return nil, fmt.Errorf("%w: part of %d bytes exceeds length prefix", errBlobFormat, len(part))
		}
		var prefix [2]byte
		binary.BigEndian.PutUint16(prefix[:], uint16(len(part)))
		out = append(out, prefix[:]...)
		out = append(out, part...)
	}
	return out, nil
}

func splitBlob(blob []byte) (wrappedKey, nonce, tag, ciphertext []byte, err error) {
	if len(blob) < 2 || blob[0] != blobHeader[0] || blob[1] != blobHeader[1] {
		return nil, nil, nil, nil, errBlobFormat
	}

	rest := blob[2:]
	var parts [][]byte
	for len(rest) > 0 {
		if len(rest) < 2 {
			return nil, nil, nil, nil, errBlobFormat
		}
		n := int(binary.BigEndian.Uint16(rest[:2]))
		rest = rest[2:]
		if len(rest) < n {
			return nil, nil, nil, nil, errBlobFormat
		}
		parts = append(parts, rest[:n])
		rest = rest[n:]
	}
	if len(parts) != 4 {
		return nil, nil, nil, nil, errBlobFormat
	}
	return parts[0], parts[1], parts[2], parts[3], nil
}

func (p *protectedFileStorage) GetString(key ConfigKey) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	value, ok := p.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (p *protectedFileStorage) SaveString(key ConfigKey, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.values[key] = value
	return p.flush()
}

func (p *protectedFileStorage) GetBytes(key ConfigKey) ([]byte, error) {
	value, err := p.GetString(key)
	if err != nil {
		return nil, err
	}
	raw, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return raw, nil
}

func (p *protectedFileStorage) SaveBytes(key ConfigKey, value []byte) error {
	return p.SaveString(key, base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(value))
}

func (p *protectedFileStorage) Delete(key ConfigKey) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.values[key]; !ok {
		return nil
	}
	delete(p.values, key)
	return p.flush()
}
