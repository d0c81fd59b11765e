// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keeper Security, Inc.

package records

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keeper-Security/secrets-manager-sub004/internal/crypto"
	"github.com/Keeper-Security/secrets-manager-sub004/internal/logger"
	"github.com/Keeper-Security/secrets-manager-sub004/models"
)

// sealB64 encrypts value under key and returns the base64url blob.
func sealB64(t *testing.T, key, value []byte) string {
	t.Helper()
	sealed, err := crypto.AesGcmEncrypt(key, value)
	require.NoError(t, err)
	return crypto.Base64URLEncode(sealed)
}

// sealedRecord builds one RecordResponse whose record key is wrapped with
// parentKey.
func sealedRecord(t *testing.T, parentKey []byte, uid string, data map[string]interface{}) (models.RecordResponse, []byte) {
	t.Helper()
	recordKey, err := crypto.Random(crypto.AESKeySize)
	require.NoError(t, err)

	payload, err := json.Marshal(data)
	require.NoError(t, err)

	return models.RecordResponse{
		RecordUID: uid,
		RecordKey: sealB64(t, parentKey, recordKey),
		Data:      sealB64(t, recordKey, payload),
		Revision:  3,
	}, recordKey
}

func newAppKey(t *testing.T) []byte {
	t.Helper()
	key, err := crypto.Random(crypto.AESKeySize)
	require.NoError(t, err)
	return key
}

func TestDecodeRecords(t *testing.T) {
	appKey := newAppKey(t)
	codec := NewCodec(logger.Nop())

	rr, _ := sealedRecord(t, appKey, "recUid1", map[string]interface{}{
		"title": "My Login 1",
		"type":  "login",
		"notes": "a note",
		"fields": []map[string]interface{}{
			{"type": "login", "value": []interface{}{"user@example.com"}},
			{"type": "password", "value": []interface{}{"hunter2"}},
		},
	})

	secrets, err := codec.Decode(&models.SecretsResponse{
		Records:   []models.RecordResponse{rr},
		ExpiresOn: 1767225600000,
	}, appKey)
	require.NoError(t, err)

	require.Len(t, secrets.Records, 1)
	record := secrets.Records[0]
	assert.Equal(t, "recUid1", record.UID)
	assert.Equal(t, int64(3), record.Revision)
	assert.Equal(t, "My Login 1", record.Title)
	assert.Equal(t, "login", record.Type)
	assert.Equal(t, "hunter2", record.Password())
	assert.Len(t, record.RecordKey, crypto.AESKeySize)
	assert.Equal(t, 2026, secrets.ExpiresOn.UTC().Year())
}

func TestDecodeAppData(t *testing.T) {
	appKey := newAppKey(t)
	codec := NewCodec(logger.Nop())

	appData, err := json.Marshal(models.AppInfo{Title: "CI Secrets", Type: "app"})
	require.NoError(t, err)

	secrets, err := codec.Decode(&models.SecretsResponse{
		AppData:  sealB64(t, appKey, appData),
		Warnings: []string{"expires soon"},
	}, appKey)
	require.NoError(t, err)
	assert.Equal(t, "CI Secrets", secrets.AppInfo.Title)
	assert.Equal(t, []string{"expires soon"}, secrets.Warnings)
}

func TestDecodeExcludesCorruptedRecords(t *testing.T) {
	appKey := newAppKey(t)
	codec := NewCodec(logger.Nop())

	good, _ := sealedRecord(t, appKey, "goodUid", map[string]interface{}{"title": "Good"})
	bad, _ := sealedRecord(t, appKey, "badUid", map[string]interface{}{"title": "Bad"})
	bad.RecordKey = crypto.Base64URLEncode([]byte("garbage-not-a-gcm-blob"))

	secrets, err := codec.Decode(&models.SecretsResponse{
		Records: []models.RecordResponse{bad, good},
	}, appKey)
	require.NoError(t, err)

	require.Len(t, secrets.Records, 1)
	assert.Equal(t, "goodUid", secrets.Records[0].UID)
}

func TestDecodeFolderRecordsAreFlattened(t *testing.T) {
	appKey := newAppKey(t)
	codec := NewCodec(logger.Nop())

	folderKey, err := crypto.Random(crypto.AESKeySize)
	require.NoError(t, err)
	rr, _ := sealedRecord(t, folderKey, "folderRecUid", map[string]interface{}{"title": "In Folder"})

	secrets, err := codec.Decode(&models.SecretsResponse{
		Folders: []models.FolderResponse{
			{
				FolderUID: "folderUid1",
				FolderKey: sealB64(t, appKey, folderKey),
				Records:   []models.RecordResponse{rr},
			},
		},
	}, appKey)
	require.NoError(t, err)

	require.Len(t, secrets.Folders, 1)
	assert.Equal(t, folderKey, secrets.Folders[0].FolderKey)
	require.Len(t, secrets.Folders[0].Records, 1)

	// Folder records are also reachable through the flat record list.
	require.Len(t, secrets.Records, 1)
	assert.Equal(t, "folderRecUid", secrets.Records[0].UID)
	assert.Equal(t, "folderUid1", secrets.Records[0].FolderUID)
}

func TestDecodeFiles(t *testing.T) {
	appKey := newAppKey(t)
	codec := NewCodec(logger.Nop())

	rr, recordKey := sealedRecord(t, appKey, "recUid1", map[string]interface{}{"title": "With File"})

	fileKey, err := crypto.Random(crypto.AESKeySize)
	require.NoError(t, err)
	meta, err := json.Marshal(models.FileMeta{Name: "cert.pem", Size: 42, Type: "application/x-pem-file"})
	require.NoError(t, err)

	rr.Files = []models.FileResponse{
		{
			FileUID: "fileUid1",
			FileKey: sealB64(t, recordKey, fileKey),
			Data:    sealB64(t, fileKey, meta),
			URL:     "https://files.example/download/1",
		},
	}

	secrets, err := codec.Decode(&models.SecretsResponse{
		Records: []models.RecordResponse{rr},
	}, appKey)
	require.NoError(t, err)

	require.Len(t, secrets.Records, 1)
	require.Len(t, secrets.Records[0].Files, 1)
	file := secrets.Records[0].Files[0]
	assert.Equal(t, "fileUid1", file.UID)
	assert.Equal(t, "cert.pem", file.Name)
	assert.Equal(t, int64(42), file.Size)
	assert.Equal(t, fileKey, file.FileKey)
	assert.Equal(t, "https://files.example/download/1", file.URL)
}

func TestEncryptRecordRoundTrip(t *testing.T) {
	appKey := newAppKey(t)
	codec := NewCodec(logger.Nop())

	rr, recordKey := sealedRecord(t, appKey, "recUid1", map[string]interface{}{
		"title": "Before",
		"fields": []map[string]interface{}{
			{"type": "password", "value": []interface{}{"old"}},
		},
	})
	secrets, err := codec.Decode(&models.SecretsResponse{
		Records: []models.RecordResponse{rr},
	}, appKey)
	require.NoError(t, err)
	record := secrets.Records[0]

	record.Title = "After"
	record.SetPassword("new")

	sealed, err := codec.EncryptRecord(record)
	require.NoError(t, err)

	blob, err := crypto.Base64URLDecode(sealed)
	require.NoError(t, err)
	plaintext, err := crypto.AesGcmDecrypt(recordKey, blob)
	require.NoError(t, err)

	reparsed := &models.Record{RecordKey: recordKey}
	require.NoError(t, reparsed.ParseRecordData(plaintext))
	assert.Equal(t, "After", reparsed.Title)
	assert.Equal(t, "new", reparsed.Password())
}

func TestPrepareCreateWrapsKeyForAppAndFolder(t *testing.T) {
	appKey := newAppKey(t)
	folderKey, err := crypto.Random(crypto.AESKeySize)
	require.NoError(t, err)
	codec := NewCodec(logger.Nop())

	record := &models.Record{
		Title: "New Secret",
		Type:  "login",
		Fields: []*models.Field{
			{Type: "password", Value: []interface{}{"p"}},
		},
	}

	payload, err := codec.PrepareCreate(record, "folderUid1", folderKey, appKey)
	require.NoError(t, err)

	assert.NotEmpty(t, record.UID)
	assert.Equal(t, record.UID, payload.RecordUID)
	assert.Equal(t, "folderUid1", payload.FolderUID)

	// Both wrappings must unwrap to the same fresh record key.
	appWrapped, err := crypto.Base64URLDecode(payload.RecordKey)
	require.NoError(t, err)
	fromApp, err := crypto.AesGcmDecrypt(appKey, appWrapped)
	require.NoError(t, err)

	folderWrapped, err := crypto.Base64URLDecode(payload.FolderKey)
	require.NoError(t, err)
	fromFolder, err := crypto.AesGcmDecrypt(folderKey, folderWrapped)
	require.NoError(t, err)

	assert.Equal(t, fromApp, fromFolder)
	assert.Equal(t, record.RecordKey, fromApp)

	// The sealed data decrypts under that key.
	dataBlob, err := crypto.Base64URLDecode(payload.Data)
	require.NoError(t, err)
	plaintext, err := crypto.AesGcmDecrypt(fromApp, dataBlob)
	require.NoError(t, err)
	assert.Contains(t, string(plaintext), "New Secret")
}
