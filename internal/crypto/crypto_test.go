// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keeper Security, Inc.

package crypto

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keeper-Security/secrets-manager-sub004/models"
)

func TestPrivateKeyExportImportRoundTrip(t *testing.T) {
	key, err := GenerateKeyPair()
	require.NoError(t, err)

	der, err := ExportPrivateKey(key)
	require.NoError(t, err)

	restored, err := ImportPrivateKey(der)
	require.NoError(t, err)
	assert.True(t, key.Equal(restored))
}

func TestPublicKeyWireFormat(t *testing.T) {
	key, err := GenerateKeyPair()
	require.NoError(t, err)

	raw := PublicKeyBytes(&key.PublicKey)
	require.Len(t, raw, 65)
	assert.EqualValues(t, 0x04, raw[0])

	restored, err := ImportPublicKey(raw)
	require.NoError(t, err)
	assert.True(t, key.PublicKey.Equal(restored))
}

func TestImportPublicKeyRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{name: "empty", raw: nil},
		{name: "short", raw: []byte{0x04, 0x01, 0x02}},
		{name: "wrong prefix", raw: bytes.Repeat([]byte{0x02}, 65)},
		{name: "not on curve", raw: append([]byte{0x04}, bytes.Repeat([]byte{0xFF}, 64)...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportPublicKey(tt.raw)
			assert.Error(t, err)
		})
	}
}

func TestSharedSecretIsSymmetric(t *testing.T) {
	alice, err := GenerateKeyPair()
	require.NoError(t, err)
	bob, err := GenerateKeyPair()
	require.NoError(t, err)

	ab, err := SharedSecret(alice, &bob.PublicKey)
	require.NoError(t, err)
	ba, err := SharedSecret(bob, &alice.PublicKey)
	require.NoError(t, err)

	assert.Equal(t, ab, ba)
	assert.Len(t, SymmetricKeyFromShared(ab), AESKeySize)
}

func TestAesGcmRoundTrip(t *testing.T) {
	key, err := Random(AESKeySize)
	require.NoError(t, err)
	plaintext := []byte(`{"title":"My Login 1"}`)

	blob, err := AesGcmEncrypt(key, plaintext)
	require.NoError(t, err)
	// nonce + ciphertext + tag
	assert.Len(t, blob, 12+len(plaintext)+16)

	decrypted, err := AesGcmDecrypt(key, blob)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestAesGcmEncryptIsNonDeterministic(t *testing.T) {
	key, err := Random(AESKeySize)
	require.NoError(t, err)

	a, err := AesGcmEncrypt(key, []byte("same"))
	require.NoError(t, err)
	b, err := AesGcmEncrypt(key, []byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestAesGcmDecryptDetectsTampering(t *testing.T) {
	key, err := Random(AESKeySize)
	require.NoError(t, err)
	blob, err := AesGcmEncrypt(key, []byte("payload"))
	require.NoError(t, err)

	blob[len(blob)-1] ^= 0x01

	_, err = AesGcmDecrypt(key, blob)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrAuthTagMismatch))

	var cryptoErr *models.CryptoError
	assert.True(t, errors.As(err, &cryptoErr))
}

func TestAesGcmDecryptRejectsShortBlob(t *testing.T) {
	key, err := Random(AESKeySize)
	require.NoError(t, err)
	_, err = AesGcmDecrypt(key, []byte{0x01, 0x02, 0x03})
	assert.Error(t, err)
}

func TestSignVerify(t *testing.T) {
	key, err := GenerateKeyPair()
	require.NoError(t, err)
	data := []byte("wrapped-key-and-ciphertext")

	sig, err := Sign(key, data)
	require.NoError(t, err)

	assert.True(t, Verify(&key.PublicKey, data, sig))
	assert.False(t, Verify(&key.PublicKey, []byte("other"), sig))

	other, err := GenerateKeyPair()
	require.NoError(t, err)
	assert.False(t, Verify(&other.PublicKey, data, sig))
}

func TestHmacSha512(t *testing.T) {
	a := HmacSha512([]byte("secret"), []byte("KEEPER_CLIENT_ID"))
	b := HmacSha512([]byte("secret"), []byte("KEEPER_CLIENT_ID"))
	c := HmacSha512([]byte("other"), []byte("KEEPER_CLIENT_ID"))

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestBase64URL(t *testing.T) {
	data := []byte{0xFB, 0xEF, 0xFF, 0x00, 0x01}
	encoded := Base64URLEncode(data)
	assert.NotContains(t, encoded, "+")
	assert.NotContains(t, encoded, "/")
	assert.NotContains(t, encoded, "=")

	decoded, err := Base64URLDecode(encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)

	// Padded input is accepted too.
	padded, err := Base64URLDecode("AQID")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, padded)
}

func TestRandom(t *testing.T) {
	a, err := Random(32)
	require.NoError(t, err)
	b, err := Random(32)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestGenerateUID(t *testing.T) {
	uid := GenerateUID()
	decoded, err := Base64URLDecode(uid)
	require.NoError(t, err)
	assert.Len(t, decoded, 16)
	assert.NotEqual(t, uid, GenerateUID())
}

func TestKeyCacheReimportsAfterInvalidate(t *testing.T) {
	cache := NewKeyCache()
	key, err := GenerateKeyPair()
	require.NoError(t, err)
	raw := PublicKeyBytes(&key.PublicKey)

	first, err := cache.Get("10", raw)
	require.NoError(t, err)
	second, err := cache.Get("10", raw)
	require.NoError(t, err)
	assert.Same(t, first, second)

	cache.Invalidate()
	third, err := cache.Get("10", raw)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.True(t, first.Equal(third))
}
