// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keeper Security, Inc.

package secretsmanager

import (
	"context"
	"crypto/ecdsa"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keeper-Security/secrets-manager-sub004/internal/crypto"
	"github.com/Keeper-Security/secrets-manager-sub004/storage"
)

// fakeVault plays the server end to end: it opens the request envelope,
// builds an encrypted secrets response with one record, and delivers the
// wrapped app key on the first exchange.
type fakeVault struct {
	t      *testing.T
	priv   *ecdsa.PrivateKey
	appKey []byte

	// clientKey wraps the app key on the binding exchange.
	clientKey []byte
	bound     bool
}

func (v *fakeVault) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wrapped, err := base64.StdEncoding.DecodeString(r.Header.Get("TransmissionKey"))
	require.NoError(v.t, err)
	ephPub, err := crypto.ImportPublicKey(wrapped[:65])
	require.NoError(v.t, err)
	shared, err := crypto.SharedSecret(v.priv, ephPub)
	require.NoError(v.t, err)
	transmissionKey, err := crypto.AesGcmDecrypt(crypto.SymmetricKeyFromShared(shared), wrapped[65:])
	require.NoError(v.t, err)

	body, err := io.ReadAll(r.Body)
	require.NoError(v.t, err)
	_, err = crypto.AesGcmDecrypt(transmissionKey, body)
	require.NoError(v.t, err)

	recordKey, err := crypto.Random(crypto.AESKeySize)
	require.NoError(v.t, err)
	payload, err := json.Marshal(map[string]interface{}{
		"title": "Prod DB",
		"type":  "databaseCredentials",
		"fields": []map[string]interface{}{
			{"type": "login", "value": []interface{}{"svc"}},
			{"type": "password", "value": []interface{}{"p@ss"}},
		},
	})
	require.NoError(v.t, err)

	seal := func(key, plain []byte) string {
		blob, err := crypto.AesGcmEncrypt(key, plain)
		require.NoError(v.t, err)
		return crypto.Base64URLEncode(blob)
	}

	resp := map[string]interface{}{
		"records": []map[string]interface{}{
			{
				"recordUid": "prodDbRecordUid000001",
				"recordKey": seal(v.appKey, recordKey),
				"data":      seal(recordKey, payload),
				"revision":  1,
			},
		},
	}
	if !v.bound {
		resp["encryptedAppKey"] = seal(v.clientKey, v.appKey)
		resp["appOwnerPublicKey"] = crypto.Base64URLEncode(crypto.PublicKeyBytes(&v.priv.PublicKey))
		v.bound = true
	}

	out, err := json.Marshal(resp)
	require.NoError(v.t, err)
	sealed, err := crypto.AesGcmEncrypt(transmissionKey, out)
	require.NoError(v.t, err)
	w.WriteHeader(http.StatusOK)
	w.Write(sealed)
}

func TestClientEndToEnd(t *testing.T) {
	priv, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	appKey, err := crypto.Random(crypto.AESKeySize)
	require.NoError(t, err)
	clientKey, err := crypto.Random(32)
	require.NoError(t, err)

	vault := &fakeVault{t: t, priv: priv, appKey: appKey, clientKey: clientKey}
	ts := httptest.NewServer(vault)
	defer ts.Close()

	store := storage.NewMemoryStorage()
	sm, err := New(Options{
		Token:    crypto.Base64URLEncode(clientKey),
		Hostname: ts.URL,
		Config:   store,
		LogLevel: "error",
		serverPublicKeys: map[string]string{
			"10": crypto.Base64URLEncode(crypto.PublicKeyBytes(&priv.PublicKey)),
		},
	})
	require.NoError(t, err)

	// First fetch binds the app key and decrypts the record hierarchy.
	records, err := sm.GetSecrets(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Prod DB", records[0].Title)
	assert.Equal(t, "p@ss", records[0].Password())

	// The one-time secret is gone, the app key persisted.
	_, err = store.GetBytes(storage.KeyClientKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	got, err := store.GetBytes(storage.KeyAppKey)
	require.NoError(t, err)
	assert.Equal(t, appKey, got)

	// The owner public key delivered on bind is kept for creation flows.
	ownerPub, err := store.GetString(storage.KeyOwnerPublicKey)
	require.NoError(t, err)
	assert.Equal(t, crypto.Base64URLEncode(crypto.PublicKeyBytes(&priv.PublicKey)), ownerPub)

	// Notation resolves against a fresh fetch.
	values, err := sm.GetNotation(context.Background(), "keeper://prodDbRecordUid000001/field/password")
	require.NoError(t, err)
	assert.Equal(t, []string{"p@ss"}, values)

	byTitle, err := sm.GetSecretByTitle(context.Background(), "Prod DB")
	require.NoError(t, err)
	assert.Equal(t, "prodDbRecordUid000001", byTitle.UID)
}
