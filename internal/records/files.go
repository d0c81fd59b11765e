// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keeper Security, Inc.

package records

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/Keeper-Security/secrets-manager-sub004/internal/crypto"
	"github.com/Keeper-Security/secrets-manager-sub004/models"
)

// FileTransfer moves encrypted file content over plain HTTPS. Download and
// upload URLs are pre-signed by the server, so requests carry no envelope
// and no signature.
type FileTransfer struct {
	http *resty.Client
}

// NewFileTransfer returns a transfer helper over http. A nil client gets a
// default resty client.
func NewFileTransfer(http *resty.Client) *FileTransfer {
	if http == nil {
		http = resty.New()
	}
	return &FileTransfer{http: http}
}

// Download fetches file's binary content from its pre-signed URL and
// decrypts it with the file key.
func (t *FileTransfer) Download(ctx context.Context, file *models.KeeperFile) ([]byte, error) {
	if file.URL == "" {
		return nil, fmt.Errorf("file %s has no download URL", file.UID)
	}

	resp, err := t.http.R().SetContext(ctx).Get(file.URL)
	if err != nil {
		return nil, &models.NetworkError{URL: file.URL, Err: err}
	}
	if resp.StatusCode() != 200 {
		return nil, &models.NetworkError{
			URL: file.URL,
			Err: fmt.Errorf("download returned status %d", resp.StatusCode()),
		}
	}

	return crypto.AesGcmDecrypt(file.FileKey, resp.Body())
}

// Upload posts sealed content to the pre-signed target from a file-upload
// exchange. The server replies with target.SuccessStatusCode on success.
func (t *FileTransfer) Upload(ctx context.Context, target *models.FileUploadResponse, sealed []byte) error {
	req := t.http.R().SetContext(ctx)

	var params map[string]string
	if target.Parameters != "" {
		if err := json.Unmarshal([]byte(target.Parameters), &params); err != nil {
			return fmt.Errorf("parse upload parameters: %w", err)
		}
	}
	for k, v := range params {
		req.SetFormData(map[string]string{k: v})
	}
	req.SetFileReader("file", "file", bytes.NewReader(sealed))

	resp, err := req.Post(target.URL)
	if err != nil {
		return &models.NetworkError{URL: target.URL, Err: err}
	}
	want := target.SuccessStatusCode
	if want == 0 {
		want = 201
	}
	if resp.StatusCode() != want {
		return &models.NetworkError{
			URL: target.URL,
			Err: fmt.Errorf("upload returned status %d, want %d", resp.StatusCode(), want),
		}
	}
	return nil
}

// PrepareUpload builds the registration payload for attaching content to
// owner: a fresh file record sealed under a fresh file key, the file key
// wrapped for the application and linked to the owner record, and the owner
// record re-sealed with the new file reference. The returned sealed content
// goes to the pre-signed URL after registration succeeds.
func (c *Codec) PrepareUpload(owner *models.Record, meta models.FileMeta, content []byte, appKey []byte) (*models.FileUploadPayload, []byte, error) {
	fileKey, err := crypto.Random(crypto.AESKeySize)
	if err != nil {
		return nil, nil, err
	}
	fileUID := crypto.GenerateUID()
	meta.Size = int64(len(content))

	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal file meta: %w", err)
	}
	sealedMeta, err := crypto.AesGcmEncrypt(fileKey, metaBytes)
	if err != nil {
		return nil, nil, err
	}
	sealedContent, err := crypto.AesGcmEncrypt(fileKey, content)
	if err != nil {
		return nil, nil, err
	}

	wrappedForApp, err := crypto.AesGcmEncrypt(appKey, fileKey)
	if err != nil {
		return nil, nil, err
	}
	linkKey, err := crypto.AesGcmEncrypt(owner.RecordKey, fileKey)
	if err != nil {
		return nil, nil, err
	}

	// Reference the new file from the owner's fileRef field.
	fileRef := owner.FieldByType("fileRef")
	if fileRef == nil {
		fileRef = &models.Field{Type: "fileRef", Value: []interface{}{}}
		owner.Fields = append(owner.Fields, fileRef)
	}
	fileRef.Value = append(fileRef.Value, fileUID)

	ownerData, err := c.EncryptRecord(owner)
	if err != nil {
		return nil, nil, err
	}

	payload := &models.FileUploadPayload{
		FileRecordUID:   fileUID,
		FileRecordKey:   crypto.Base64URLEncode(wrappedForApp),
		FileRecordData:  crypto.Base64URLEncode(sealedMeta),
		OwnerRecordUID:  owner.UID,
		OwnerRecordData: ownerData,
		LinkKey:         crypto.Base64URLEncode(linkKey),
		FileSize:        int64(len(sealedContent)),
	}
	return payload, sealedContent, nil
}
