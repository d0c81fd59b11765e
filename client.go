// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keeper Security, Inc.

// Package secretsmanager is the client SDK for the Keeper Secrets Manager
// vault. All secrets are encrypted and decrypted on the client; the server
// stores and transports ciphertext it cannot read.
//
// A client is bound once with a one-time token and from then on
// authenticates with the credential persisted in its [storage.KeyValueStore]:
//
//	sm, err := secretsmanager.New(secretsmanager.Options{
//		Token:      "EU:MZ5R...",
//		ConfigFile: "client-config.json",
//	})
//	if err != nil { ... }
//	records, err := sm.GetSecrets(ctx)
package secretsmanager

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/Keeper-Security/secrets-manager-sub004/internal/logger"
	"github.com/Keeper-Security/secrets-manager-sub004/internal/records"
	"github.com/Keeper-Security/secrets-manager-sub004/internal/transmission"
	"github.com/Keeper-Security/secrets-manager-sub004/models"
	"github.com/Keeper-Security/secrets-manager-sub004/notation"
	"github.com/Keeper-Security/secrets-manager-sub004/storage"
	"github.com/Keeper-Security/secrets-manager-sub004/totp"
)

// Client is the facade over the transmission protocol and the record codec.
// Safe for concurrent use.
type Client struct {
	transport *transmission.Client
	codec     *records.Codec
	files     *records.FileTransfer
	log       *logger.Logger
	version   string
}

// New wires a client from opts. When opts.Token is set and the config store
// holds no credential yet, the credential is generated immediately; the
// token itself is not redeemed until the first exchange.
func New(opts Options) (*Client, error) {
	log := opts.buildLogger()

	store := opts.Config
	if store == nil {
		path := opts.ConfigFile
		if path == "" {
			path = "client-config.json"
		}
		var serr error
		store, serr = storage.NewFileStorage(path)
		if serr != nil {
			return nil, serr
		}
	}

	version := opts.ClientVersion
	if version == "" {
		version = defaultClientVersion
	}

	var cache transmission.CacheStore
	if opts.AllowCache && opts.CacheFile != "" {
		cache = transmission.NewFileCache(opts.CacheFile)
	}

	transport, err := transmission.New(transmission.Config{
		Storage:          store,
		Token:            opts.Token,
		Hostname:         opts.Hostname,
		ClientVersion:    version,
		AllowCache:       opts.AllowCache,
		Cache:            cache,
		Timeout:          opts.Timeout,
		ServerPublicKeys: opts.serverPublicKeys,
		Logger:           log,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		transport: transport,
		codec:     records.NewCodec(log),
		files:     records.NewFileTransfer(resty.New()),
		log:       log,
		version:   version,
	}, nil
}

// GetSecrets fetches the flat list of records the application can see,
// optionally narrowed to specific record UIDs.
func (c *Client) GetSecrets(ctx context.Context, uids ...string) ([]*models.Record, error) {
	secrets, err := c.GetSecretsFull(ctx, uids...)
	if err != nil {
		return nil, err
	}
	return secrets.Records, nil
}

// GetSecretsFull fetches records together with folders, application info,
// expiry, and server warnings.
func (c *Client) GetSecretsFull(ctx context.Context, uids ...string) (*models.KeeperSecrets, error) {
	clientID, err := c.transport.ClientID()
	if err != nil {
		return nil, err
	}

	payload := &models.GetPayload{
		ClientVersion:    c.version,
		ClientID:         clientID,
		RequestedRecords: uids,
	}
	if !c.transport.IsBound() {
		pub, perr := c.transport.PublicKey()
		if perr != nil {
			return nil, perr
		}
		payload.PublicKey = pub
	}

	body, err := c.transport.Post(ctx, "get_secret", payload)
	if err != nil {
		return nil, err
	}

	var resp models.SecretsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse get_secret response: %w", err)
	}

	if resp.EncryptedAppKey != "" {
		if err := c.transport.BindAppKey(resp.EncryptedAppKey, resp.AppOwnerPublicKey); err != nil {
			return nil, err
		}
	}
	appKey, err := c.transport.AppKey()
	if err != nil {
		return nil, err
	}

	return c.codec.Decode(&resp, appKey)
}

// GetSecretByTitle returns the single record with the given title. Zero or
// several matches are an error.
func (c *Client) GetSecretByTitle(ctx context.Context, title string) (*models.Record, error) {
	secrets, err := c.GetSecretsFull(ctx)
	if err != nil {
		return nil, err
	}
	matches := secrets.RecordsByTitle(title)
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no record titled %q: %w", title, models.ErrUIDNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%d records titled %q", len(matches), title)
	}
}

// GetNotation resolves a keeper:// notation URI against the vault and
// returns the selected values. File selectors yield the decrypted file
// content as a single value.
func (c *Client) GetNotation(ctx context.Context, text string) ([]string, error) {
	result, err := c.GetNotationResult(ctx, text)
	if err != nil {
		return nil, err
	}
	if result.File != nil {
		content, derr := c.files.Download(ctx, result.File)
		if derr != nil {
			return nil, derr
		}
		return []string{string(content)}, nil
	}
	return result.Values, nil
}

// GetNotationResult resolves a notation URI and returns the structured
// result without downloading file content.
func (c *Client) GetNotationResult(ctx context.Context, text string) (*notation.Result, error) {
	secrets, err := c.GetSecretsFull(ctx)
	if err != nil {
		return nil, err
	}
	return notation.Resolve(secrets, text)
}

// Save pushes a modified record back under its current revision. The server
// rejects the write when the record changed since it was fetched; fetch
// again and retry in that case.
func (c *Client) Save(ctx context.Context, record *models.Record) error {
	clientID, err := c.transport.ClientID()
	if err != nil {
		return err
	}
	data, err := c.codec.EncryptRecord(record)
	if err != nil {
		return err
	}

	payload := &models.UpdatePayload{
		ClientVersion: c.version,
		ClientID:      clientID,
		RecordUID:     record.UID,
		Data:          data,
		Revision:      record.Revision,
	}
	_, err = c.transport.Post(ctx, "update_secret", payload)
	return err
}

// CreateSecret creates record inside the shared folder folderUID. The
// folder must already be shared to the application. Returns the new record
// UID.
func (c *Client) CreateSecret(ctx context.Context, folderUID string, record *models.Record) (string, error) {
	secrets, err := c.GetSecretsFull(ctx)
	if err != nil {
		return "", err
	}
	var folderKey []byte
	for _, folder := range secrets.Folders {
		if folder.UID == folderUID {
			folderKey = folder.FolderKey
			break
		}
	}
	if folderKey == nil {
		return "", fmt.Errorf("folder %s is not shared to this application: %w", folderUID, models.ErrUIDNotFound)
	}

	appKey, err := c.transport.AppKey()
	if err != nil {
		return "", err
	}
	payload, err := c.codec.PrepareCreate(record, folderUID, folderKey, appKey)
	if err != nil {
		return "", err
	}

	clientID, err := c.transport.ClientID()
	if err != nil {
		return "", err
	}
	payload.ClientVersion = c.version
	payload.ClientID = clientID

	if _, err := c.transport.Post(ctx, "create_secret", payload); err != nil {
		return "", err
	}
	return record.UID, nil
}

// DeleteSecrets removes records by UID.
func (c *Client) DeleteSecrets(ctx context.Context, uids ...string) error {
	clientID, err := c.transport.ClientID()
	if err != nil {
		return err
	}
	payload := &models.DeletePayload{
		ClientVersion: c.version,
		ClientID:      clientID,
		RecordUIDs:    uids,
	}
	_, err = c.transport.Post(ctx, "delete_secret", payload)
	return err
}

// UploadFile attaches content to owner as a new file record and re-saves
// the owner with the file reference. Returns the new file UID.
func (c *Client) UploadFile(ctx context.Context, owner *models.Record, meta models.FileMeta, content []byte) (string, error) {
	appKey, err := c.transport.AppKey()
	if err != nil {
		return "", err
	}
	payload, sealed, err := c.codec.PrepareUpload(owner, meta, content, appKey)
	if err != nil {
		return "", err
	}

	clientID, err := c.transport.ClientID()
	if err != nil {
		return "", err
	}
	payload.ClientVersion = c.version
	payload.ClientID = clientID

	body, err := c.transport.Post(ctx, "add_file", payload)
	if err != nil {
		return "", err
	}
	var target models.FileUploadResponse
	if err := json.Unmarshal(body, &target); err != nil {
		return "", fmt.Errorf("parse add_file response: %w", err)
	}

	if err := c.files.Upload(ctx, &target, sealed); err != nil {
		return "", err
	}
	return payload.FileRecordUID, nil
}

// DownloadFile fetches and decrypts one file attachment.
func (c *Client) DownloadFile(ctx context.Context, file *models.KeeperFile) ([]byte, error) {
	return c.files.Download(ctx, file)
}

// GetTotpCode generates the current code for an otpauth:// URL, typically
// taken from a record's oneTimeCode field.
func (c *Client) GetTotpCode(rawURL string) (*totp.Code, error) {
	return totp.Generate(rawURL)
}
