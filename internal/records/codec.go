// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keeper Security, Inc.

// Package records decrypts and parses the key hierarchy of a vault
// response: the app key unlocks record and folder keys, record keys unlock
// record payloads and file keys, file keys unlock file metadata and content.
package records

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Keeper-Security/secrets-manager-sub004/internal/crypto"
	"github.com/Keeper-Security/secrets-manager-sub004/internal/logger"
	"github.com/Keeper-Security/secrets-manager-sub004/models"
)

// Codec walks the key hierarchy in both directions: decode for responses,
// encode for update and create payloads.
type Codec struct {
	log *logger.Logger
}

// NewCodec returns a codec logging through log (never nil; use logger.Nop
// for silence).
func NewCodec(log *logger.Logger) *Codec {
	if log == nil {
		log = logger.Nop()
	}
	return &Codec{log: log}
}

// Decode decrypts a secrets response into the data model. A record that
// fails to decrypt is excluded from the result and logged with its UID;
// corrupted records are filtered, never zero-filled, and never fail the
// whole batch.
func (c *Codec) Decode(resp *models.SecretsResponse, appKey []byte) (*models.KeeperSecrets, error) {
	secrets := &models.KeeperSecrets{}

	if resp.AppData != "" {
		appData, err := decryptB64(appKey, resp.AppData)
		if err != nil {
			return nil, fmt.Errorf("decrypt app data: %w", err)
		}
		if err := json.Unmarshal(appData, &secrets.AppInfo); err != nil {
			return nil, fmt.Errorf("parse app data: %w", err)
		}
	}

	if resp.ExpiresOn > 0 {
		secrets.ExpiresOn = time.UnixMilli(resp.ExpiresOn)
	}
	secrets.Warnings = resp.Warnings

	for i := range resp.Records {
		rr := &resp.Records[i]
		record, err := c.decodeRecord(appKey, rr, "")
		if err != nil {
			c.log.Warn().Str("record_uid", rr.RecordUID).Err(err).Msg("record excluded: decryption failed")
			continue
		}
		secrets.Records = append(secrets.Records, record)
	}

	for i := range resp.Folders {
		fr := &resp.Folders[i]
		folder, err := c.decodeFolder(appKey, fr)
		if err != nil {
			c.log.Warn().Str("folder_uid", fr.FolderUID).Err(err).Msg("folder excluded: decryption failed")
			continue
		}
		secrets.Folders = append(secrets.Folders, folder)
		// Folder records participate in the flat record set too.
		secrets.Records = append(secrets.Records, folder.Records...)
	}

	return secrets, nil
}

// decodeRecord unwraps one record with parentKey, which is the app key for
// directly shared records and the folder key for folder records.
func (c *Codec) decodeRecord(parentKey []byte, rr *models.RecordResponse, folderUID string) (*models.Record, error) {
	recordKey, err := decryptB64(parentKey, rr.RecordKey)
	if err != nil {
		return nil, fmt.Errorf("record key: %w", err)
	}

	payload, err := decryptB64(recordKey, rr.Data)
	if err != nil {
		return nil, fmt.Errorf("record data: %w", err)
	}

	record := &models.Record{
		UID:            rr.RecordUID,
		Revision:       rr.Revision,
		FolderUID:      folderUID,
		InnerFolderUID: rr.InnerFolderUID,
		RecordKey:      recordKey,
	}
	if err := record.ParseRecordData(payload); err != nil {
		return nil, fmt.Errorf("record payload: %w", err)
	}

	for i := range rr.Files {
		file, ferr := c.decodeFile(recordKey, &rr.Files[i])
		if ferr != nil {
			c.log.Warn().
				Str("record_uid", rr.RecordUID).
				Str("file_uid", rr.Files[i].FileUID).
				Err(ferr).
				Msg("file excluded: decryption failed")
			continue
		}
		record.Files = append(record.Files, file)
	}

	return record, nil
}

func (c *Codec) decodeFolder(appKey []byte, fr *models.FolderResponse) (*models.Folder, error) {
	folderKey, err := decryptB64(appKey, fr.FolderKey)
	if err != nil {
		return nil, fmt.Errorf("folder key: %w", err)
	}

	folder := &models.Folder{
		UID:       fr.FolderUID,
		ParentUID: fr.ParentUID,
		FolderKey: folderKey,
	}

	for i := range fr.Records {
		rr := &fr.Records[i]
		record, err := c.decodeRecord(folderKey, rr, fr.FolderUID)
		if err != nil {
			c.log.Warn().Str("record_uid", rr.RecordUID).Err(err).Msg("record excluded: decryption failed")
			continue
		}
		folder.Records = append(folder.Records, record)
	}

	return folder, nil
}

// decodeFile unwraps a file descriptor with the owning record's key. The
// binary content stays behind file.URL until fetched.
func (c *Codec) decodeFile(recordKey []byte, fr *models.FileResponse) (*models.KeeperFile, error) {
	fileKey, err := decryptB64(recordKey, fr.FileKey)
	if err != nil {
		return nil, fmt.Errorf("file key: %w", err)
	}

	metaBytes, err := decryptB64(fileKey, fr.Data)
	if err != nil {
		return nil, fmt.Errorf("file data: %w", err)
	}
	var meta models.FileMeta
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, fmt.Errorf("file meta: %w", err)
	}

	return &models.KeeperFile{
		UID:          fr.FileUID,
		FileKey:      fileKey,
		Name:         meta.Name,
		Title:        meta.Title,
		Type:         meta.Type,
		Size:         meta.Size,
		LastModified: meta.LastModified,
		URL:          fr.URL,
		ThumbnailURL: fr.ThumbnailURL,
	}, nil
}

// EncryptRecord re-serializes a record's typed view and seals it under the
// record's own key, producing the base64url data blob of an update payload.
func (c *Codec) EncryptRecord(record *models.Record) (string, error) {
	if len(record.RecordKey) != crypto.AESKeySize {
		return "", fmt.Errorf("record %s has no record key", record.UID)
	}

	payload, err := record.MarshalRecordData()
	if err != nil {
		return "", fmt.Errorf("marshal record %s: %w", record.UID, err)
	}
	sealed, err := crypto.AesGcmEncrypt(record.RecordKey, payload)
	if err != nil {
		return "", err
	}
	return crypto.Base64URLEncode(sealed), nil
}

// PrepareCreate generates a fresh UID and record key for record, seals the
// payload, and wraps the key for both the application and the destination
// folder. The returned payload still lacks clientId and clientVersion.
func (c *Codec) PrepareCreate(record *models.Record, folderUID string, folderKey, appKey []byte) (*models.CreatePayload, error) {
	recordKey, err := crypto.Random(crypto.AESKeySize)
	if err != nil {
		return nil, err
	}
	record.UID = crypto.GenerateUID()
	record.RecordKey = recordKey

	data, err := c.EncryptRecord(record)
	if err != nil {
		return nil, err
	}

	wrappedForApp, err := crypto.AesGcmEncrypt(appKey, recordKey)
	if err != nil {
		return nil, err
	}

	payload := &models.CreatePayload{
		RecordUID: record.UID,
		RecordKey: crypto.Base64URLEncode(wrappedForApp),
		FolderUID: folderUID,
		Data:      data,
	}

	if len(folderKey) == crypto.AESKeySize {
		wrappedForFolder, err := crypto.AesGcmEncrypt(folderKey, recordKey)
		if err != nil {
			return nil, err
		}
		payload.FolderKey = crypto.Base64URLEncode(wrappedForFolder)
	}

	return payload, nil
}

// decryptB64 base64url-decodes and AES-GCM-decrypts one hierarchy value.
func decryptB64(key []byte, value string) ([]byte, error) {
	blob, err := crypto.Base64URLDecode(value)
	if err != nil {
		return nil, fmt.Errorf("base64: %w", err)
	}
	return crypto.AesGcmDecrypt(key, blob)
}
