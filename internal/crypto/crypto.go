// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keeper Security, Inc.

// Package crypto holds the stateless cryptographic primitives of the
// secrets-manager protocol: P-256 key handling, ECDH agreement, AES-256-GCM,
// ECDSA signatures over SHA-256, HMAC-SHA512 and the base64url codec.
//
// Every failure is wrapped as a [models.CryptoError]; primitive failures are
// terminal and never retried.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/google/uuid"

	"github.com/Keeper-Security/secrets-manager-sub004/models"
)

const (
	// AESKeySize is the length of every symmetric key in the protocol.
	AESKeySize = 32

	gcmNonceSize = 12

	// publicKeyLen is the length of an uncompressed P-256 point:
	// 0x04 ‖ X (32 bytes) ‖ Y (32 bytes).
	publicKeyLen = 65
)

// GenerateKeyPair creates a fresh P-256 key pair.
func GenerateKeyPair() (*ecdsa.PrivateKey, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, models.NewCryptoError("ec keygen", err)
	}
	return key, nil
}

// ExportPrivateKey serializes a private key to PKCS#8 DER for storage.
func ExportPrivateKey(key *ecdsa.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, models.NewCryptoError("export private key", err)
	}
	return der, nil
}

// ImportPrivateKey parses a PKCS#8 DER blob back into a P-256 private key.
func ImportPrivateKey(der []byte) (*ecdsa.PrivateKey, error) {
	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, models.NewCryptoError("import private key", err)
	}
	key, ok := parsed.(*ecdsa.PrivateKey)
	if !ok || key.Curve != elliptic.P256() {
		return nil, models.NewCryptoError("import private key", errors.New("not a P-256 key"))
	}
	return key, nil
}

// PublicKeyBytes exports a public key as a 65-byte uncompressed point, the
// form used on the wire for ephemeral and client bind keys.
func PublicKeyBytes(pub *ecdsa.PublicKey) []byte {
	out := make([]byte, publicKeyLen)
	out[0] = 0x04
	pub.X.FillBytes(out[1:33])
	pub.Y.FillBytes(out[33:65])
	return out
}

// ImportPublicKey parses a 65-byte uncompressed P-256 point.
func ImportPublicKey(raw []byte) (*ecdsa.PublicKey, error) {
	if len(raw) != publicKeyLen || raw[0] != 0x04 {
		return nil, models.NewCryptoError("import public key",
			fmt.Errorf("malformed point: %d bytes", len(raw)))
	}

	x := new(big.Int).SetBytes(raw[1:33])
	y := new(big.Int).SetBytes(raw[33:65])
	curve := elliptic.P256()
	if !curve.IsOnCurve(x, y) {
		return nil, models.NewCryptoError("import public key", errors.New("point not on curve"))
	}

	return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil
}

// SharedSecret runs ECDH between priv and peer and returns the 32-byte
// X coordinate of the shared point.
func SharedSecret(priv *ecdsa.PrivateKey, peer *ecdsa.PublicKey) ([]byte, error) {
	ePriv, err := priv.ECDH()
	if err != nil {
		return nil, models.NewCryptoError("ecdh", err)
	}
	ePub, err := peer.ECDH()
	if err != nil {
		return nil, models.NewCryptoError("ecdh", err)
	}
	shared, err := ePriv.ECDH(ePub)
	if err != nil {
		return nil, models.NewCryptoError("ecdh", err)
	}
	return shared, nil
}

// SymmetricKeyFromShared derives the AES key that wraps a transmission key:
// SHA-256 of the ECDH shared secret.
func SymmetricKeyFromShared(shared []byte) []byte {
	sum := sha256.Sum256(shared)
	return sum[:]
}

// AesGcmEncrypt seals plaintext with a random 12-byte nonce prepended to the
// output and the 16-byte authentication tag appended:
// blob = nonce ‖ ciphertext ‖ tag.
func AesGcmEncrypt(key, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcmNonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, models.NewCryptoError("aes-gcm nonce", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// AesGcmDecrypt opens a blob produced by [AesGcmEncrypt]. A tag mismatch
// yields a [models.CryptoError] wrapping [models.ErrAuthTagMismatch]; no
// partial plaintext is ever returned.
func AesGcmDecrypt(key, blob []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(blob) < gcmNonceSize {
		return nil, models.NewCryptoError("aes-gcm decrypt", errors.New("ciphertext too short"))
	}
	nonce, ciphertext := blob[:gcmNonceSize], blob[gcmNonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, models.NewCryptoError("aes-gcm decrypt", models.ErrAuthTagMismatch)
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, models.NewCryptoError("aes cipher", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, models.NewCryptoError("aes-gcm", err)
	}
	return gcm, nil
}

// Sign produces an ASN.1 DER ECDSA signature over SHA-256(data).
func Sign(priv *ecdsa.PrivateKey, data []byte) ([]byte, error) {
	digest := sha256.Sum256(data)
	sig, err := ecdsa.SignASN1(rand.Reader, priv, digest[:])
	if err != nil {
		return nil, models.NewCryptoError("ecdsa sign", err)
	}
	return sig, nil
}

// Verify reports whether sig is a valid signature of data under pub.
func Verify(pub *ecdsa.PublicKey, data, sig []byte) bool {
	digest := sha256.Sum256(data)
	return ecdsa.VerifyASN1(pub, digest[:], sig)
}

// HmacSha512 computes HMAC-SHA512(key, data). The client identifier is
// derived this way from the one-time token secret.
func HmacSha512(key, data []byte) []byte {
	mac := hmac.New(sha512.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// Random returns n bytes from the OS CSPRNG.
func Random(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, models.NewCryptoError("random", err)
	}
	return buf, nil
}

// GenerateUID returns a new 16-byte record or file identifier in base64url
// form.
func GenerateUID() string {
	id := uuid.New()
	return Base64URLEncode(id[:])
}

// Base64URLEncode encodes raw bytes the way the protocol ships binary
// values: URL-safe alphabet, no padding.
func Base64URLEncode(data []byte) string {
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(data)
}

// Base64URLDecode accepts both padded and unpadded URL-safe input.
func Base64URLDecode(s string) ([]byte, error) {
	if data, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(s); err == nil {
		return data, nil
	}
	return base64.URLEncoding.DecodeString(s)
}
