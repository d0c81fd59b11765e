// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keeper Security, Inc.

package models

import (
	"errors"
	"fmt"
)

// Error taxonomy of the SDK. Callers match broad classes with [errors.As]
// (e.g. *ServerError) and specific conditions with [errors.Is] against the
// sentinels below. Error strings carry UIDs, result codes and notation
// fragments but never key material.

// Sentinels for the server result codes the SDK distinguishes. A
// [ServerError] unwraps to one of these so transport-agnostic handling via
// errors.Is stays possible.
var (
	ErrBadRequest       = errors.New("bad request")
	ErrInvalidClient    = errors.New("invalid client")
	ErrSignatureInvalid = errors.New("signature invalid")
	ErrUIDNotFound      = errors.New("uid not found")
	ErrAccessDenied     = errors.New("access denied")
	ErrThrottled        = errors.New("throttled")

	// ErrAuthTagMismatch marks an AES-GCM open failure. It is terminal:
	// decryption never returns partial plaintext and is never retried.
	ErrAuthTagMismatch = errors.New("authentication tag mismatch")

	// ErrCredentialBound is returned when a bootstrap is attempted over a
	// storage that already holds a bound credential.
	ErrCredentialBound = errors.New("credential already bound")
)

// CryptoError wraps any cryptographic-primitive failure: malformed keys,
// tag mismatches, failed signatures. Always fatal, never retried.
type CryptoError struct {
	// Op names the failing primitive, e.g. "aes-gcm decrypt".
	Op  string
	Err error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("crypto: %s: %v", e.Op, e.Err)
}

func (e *CryptoError) Unwrap() error { return e.Err }

// NewCryptoError wraps err as a terminal crypto failure for primitive op.
func NewCryptoError(op string, err error) *CryptoError {
	return &CryptoError{Op: op, Err: err}
}

// NetworkError wraps a transport-level failure (connection, TLS, timeout, or
// an undecodable response). Recoverable through the disaster-recovery cache
// when the caller opted into caching; surfaced otherwise.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network: %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a structured non-2xx response from the vault. Kind is one
// of the sentinels above (or nil for result codes the SDK has no mapping
// for) and is exposed through Unwrap for errors.Is matching.
type ServerError struct {
	StatusCode int
	ResultCode string
	Message    string
	Kind       error
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server: %s (http %d): %s", e.ResultCode, e.StatusCode, e.Message)
}

func (e *ServerError) Unwrap() error { return e.Kind }

// NotationError is a local failure while parsing or resolving a keeper://
// notation URI: grammar violation, missing or ambiguous record/field,
// out-of-bounds index, or a projection against a non-structured value.
// Never retried.
type NotationError struct {
	// Notation is the offending URI or the offending fragment of it.
	Notation string
	Reason   string
}

func (e *NotationError) Error() string {
	return fmt.Sprintf("notation %q: %s", e.Notation, e.Reason)
}

// NewNotationError builds a NotationError for the given URI fragment.
func NewNotationError(notation, format string, args ...interface{}) *NotationError {
	return &NotationError{Notation: notation, Reason: fmt.Sprintf(format, args...)}
}
