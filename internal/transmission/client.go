// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keeper Security, Inc.

// Package transmission implements the application-layer protocol every
// exchange with the vault goes through: the signed, doubly-encrypted request
// envelope, pinned server public keys, one-time-token bootstrap, and the
// single-slot disaster-recovery cache.
package transmission

import (
	"context"
	"crypto/ecdsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/Keeper-Security/secrets-manager-sub004/internal/crypto"
	"github.com/Keeper-Security/secrets-manager-sub004/internal/logger"
	"github.com/Keeper-Security/secrets-manager-sub004/models"
	"github.com/Keeper-Security/secrets-manager-sub004/storage"
)

const (
	apiBasePath    = "/api/rest/sm/v1/"
	defaultTimeout = 30 * time.Second

	// clientIDTag is the fixed HMAC-SHA512 tag deriving the client
	// identifier from the one-time token secret. Not configurable.
	clientIDTag = "KEEPER_CLIENT_ID"
)

// Config carries the wiring of a transmission client.
type Config struct {
	// Storage holds the bound credential. Required.
	Storage storage.KeyValueStore

	// Token is an optional one-time token "REGION:SECRET" (or bare secret)
	// used to bootstrap a credential when Storage is unbound.
	Token string

	// Hostname is used for bare-secret tokens and overrides nothing once a
	// hostname has been persisted.
	Hostname string

	// ClientVersion identifies this client build to the server.
	ClientVersion string

	// AllowCache opts into the disaster-recovery cache.
	AllowCache bool

	// Cache overrides the cache backing. Defaults to a file next to the
	// working directory when AllowCache is set.
	Cache CacheStore

	// Timeout bounds each HTTP exchange.
	Timeout time.Duration

	// ServerPublicKeys overrides the pinned key table. Tests only.
	ServerPublicKeys map[string]string

	Logger *logger.Logger
}

// Client performs envelope exchanges against one vault on behalf of one
// bound credential. Safe for concurrent use: every call generates its own
// transmission key and ephemeral key pair; the credential is only mutated
// under an exclusive section during bootstrap and app-key binding.
type Client struct {
	http       *resty.Client
	store      storage.KeyValueStore
	keyCache   *crypto.KeyCache
	serverKeys map[string]string
	cache      CacheStore
	allowCache bool
	version    string
	log        *logger.Logger

	// credMu serializes credential mutations (bootstrap, app-key swap).
	credMu sync.Mutex
}

// New wires a transmission client and, when cfg.Token is set and the storage
// is unbound, bootstraps a fresh credential before the first request.
func New(cfg Config) (*Client, error) {
	if cfg.Storage == nil {
		return nil, errors.New("transmission: storage is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}

	keys := cfg.ServerPublicKeys
	if keys == nil {
		keys = serverPublicKeys
	}

	cache := cfg.Cache
	if cfg.AllowCache && cache == nil {
		cache = NewFileCache(DefaultCacheFileName)
	}

	c := &Client{
		http:       resty.New().SetTimeout(cfg.Timeout),
		store:      cfg.Storage,
		keyCache:   crypto.NewKeyCache(),
		serverKeys: keys,
		cache:      cache,
		allowCache: cfg.AllowCache,
		version:    cfg.ClientVersion,
		log:        cfg.Logger,
	}

	if err := c.ensureCredential(cfg.Token, cfg.Hostname); err != nil {
		return nil, err
	}
	return c, nil
}

// ensureCredential bootstraps the credential from a one-time token when the
// storage is unbound. A credential is never regenerated once bound; handing
// in a token that does not belong to the bound credential fails locally,
// while re-binding a used token is rejected by the server with a
// signature-invalid error on the first exchange.
func (c *Client) ensureCredential(token, hostname string) error {
	c.credMu.Lock()
	defer c.credMu.Unlock()

	storedID, err := c.store.GetString(storage.KeyClientID)
	switch {
	case err == nil && storedID != "":
		if token == "" {
			return nil
		}
		secret, _, perr := parseToken(token, hostname)
		if perr != nil {
			return perr
		}
		secretBytes, derr := crypto.Base64URLDecode(secret)
		if derr != nil {
			return fmt.Errorf("decode token secret: %w", derr)
		}
		derivedID := crypto.Base64URLEncode(crypto.HmacSha512(secretBytes, []byte(clientIDTag)))
		if derivedID != storedID {
			return models.ErrCredentialBound
		}
		return nil
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		return err
	}

	if token == "" {
		return errNoCredential
	}

	secret, host, err := parseToken(token, hostname)
	if err != nil {
		return err
	}
	secretBytes, err := crypto.Base64URLDecode(secret)
	if err != nil {
		return fmt.Errorf("decode token secret: %w", err)
	}

	key, err := crypto.GenerateKeyPair()
	if err != nil {
		return err
	}
	keyDER, err := crypto.ExportPrivateKey(key)
	if err != nil {
		return err
	}

	clientID := crypto.Base64URLEncode(crypto.HmacSha512(secretBytes, []byte(clientIDTag)))

	// clientId is written last: its presence marks the credential as bound.
	if err := c.store.SaveBytes(storage.KeyPrivateKey, keyDER); err != nil {
		return err
	}
	if err := c.store.SaveBytes(storage.KeyClientKey, secretBytes); err != nil {
		return err
	}
	if err := c.store.SaveString(storage.KeyHostname, host); err != nil {
		return err
	}
	if err := c.store.SaveString(storage.KeyServerPublicKeyID, defaultKeyID); err != nil {
		return err
	}
	if err := c.store.SaveString(storage.KeyClientID, clientID); err != nil {
		return err
	}

	c.log.Info().Str("hostname", host).Msg("credential bootstrapped from one-time token")
	return nil
}

// ClientID returns the bound client identifier.
func (c *Client) ClientID() (string, error) {
	return c.store.GetString(storage.KeyClientID)
}

// IsBound reports whether the first exchange has completed and the app key
// is held.
func (c *Client) IsBound() bool {
	_, err := c.store.GetBytes(storage.KeyAppKey)
	return err == nil
}

// PublicKey returns the client public key in the base64url wire form used in
// the binding payload.
func (c *Client) PublicKey() (string, error) {
	priv, err := c.privateKey()
	if err != nil {
		return "", err
	}
	return crypto.Base64URLEncode(crypto.PublicKeyBytes(&priv.PublicKey)), nil
}

// AppKey returns the application key received on bind.
func (c *Client) AppKey() ([]byte, error) {
	key, err := c.store.GetBytes(storage.KeyAppKey)
	if err != nil {
		return nil, fmt.Errorf("app key: %w", err)
	}
	return key, nil
}

// BindAppKey decrypts the app key delivered on the first exchange with the
// one-time token secret, persists it, and discards the secret. The
// application owner public key, when the server sent one, is persisted
// alongside for record-creation flows. The swap is atomic per key; the
// imported-key cache is invalidated because binding changes the credential
// generation.
func (c *Client) BindAppKey(encryptedAppKey, ownerPublicKey string) error {
	c.credMu.Lock()
	defer c.credMu.Unlock()

	clientKey, err := c.store.GetBytes(storage.KeyClientKey)
	if err != nil {
		return fmt.Errorf("client key: %w", err)
	}
	blob, err := crypto.Base64URLDecode(encryptedAppKey)
	if err != nil {
		return fmt.Errorf("decode app key: %w", err)
	}
	appKey, err := crypto.AesGcmDecrypt(clientKey, blob)
	if err != nil {
		return err
	}

	if err := c.store.SaveBytes(storage.KeyAppKey, appKey); err != nil {
		return err
	}
	if ownerPublicKey != "" {
		if err := c.store.SaveString(storage.KeyOwnerPublicKey, ownerPublicKey); err != nil {
			return err
		}
	}
	if err := c.store.Delete(storage.KeyClientKey); err != nil {
		return err
	}

	c.keyCache.Invalidate()
	c.log.Info().Msg("application key bound")
	return nil
}

// Post runs one full envelope exchange: payload is serialized, encrypted
// under a fresh transmission key, signed and POSTed; the response body is
// decrypted with the same key. On transport failure the disaster-recovery
// cache answers instead, when enabled and populated.
func (c *Client) Post(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", endpoint, err)
	}

	reqID := uuid.NewString()
	log := c.log.Child("req_id", reqID)

	plaintext, retryKey, err := c.exchange(ctx, log, endpoint, body)
	if retryKey {
		// The server moved us to another pinned key; the new id is already
		// persisted. One retry, never more.
		plaintext, _, err = c.exchange(ctx, log, endpoint, body)
	}

	var netErr *models.NetworkError
	if err != nil && errors.As(err, &netErr) && c.allowCache && c.cache != nil {
		cached, cerr := c.cache.Load()
		if cerr == nil && len(cached) > crypto.AESKeySize {
			recovered, derr := crypto.AesGcmDecrypt(cached[:crypto.AESKeySize], cached[crypto.AESKeySize:])
			if derr == nil {
				log.Warn().Str("endpoint", endpoint).Msg("transport failed, serving disaster-recovery cache")
				return recovered, nil
			}
		}
		return nil, err
	}
	return plaintext, err
}

// exchange performs a single wire round trip. retryKey signals that the
// server demanded a different pinned key and the call should be repeated.
func (c *Client) exchange(ctx context.Context, log *logger.Logger, endpoint string, body []byte) (plaintext []byte, retryKey bool, err error) {
	hostname, err := c.store.GetString(storage.KeyHostname)
	if err != nil {
		return nil, false, fmt.Errorf("hostname: %w", err)
	}
	priv, err := c.privateKey()
	if err != nil {
		return nil, false, err
	}

	keyID, err := c.store.GetString(storage.KeyServerPublicKeyID)
	if err != nil || keyID == "" {
		keyID = defaultKeyID
	}
	rawKey, ok := c.serverKeys[keyID]
	if !ok {
		return nil, false, models.NewCryptoError("server key lookup",
			fmt.Errorf("no pinned server public key with id %s", keyID))
	}
	rawKeyBytes, err := crypto.Base64URLDecode(rawKey)
	if err != nil {
		return nil, false, models.NewCryptoError("server key decode", err)
	}
	serverPub, err := c.keyCache.Get(keyID, rawKeyBytes)
	if err != nil {
		return nil, false, err
	}

	// Fresh call-scoped material: transmission key and ephemeral pair are
	// never shared or pooled across calls.
	transmissionKey, err := crypto.Random(crypto.AESKeySize)
	if err != nil {
		return nil, false, err
	}
	eph, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, false, err
	}
	shared, err := crypto.SharedSecret(eph, serverPub)
	if err != nil {
		return nil, false, err
	}
	sealedKey, err := crypto.AesGcmEncrypt(crypto.SymmetricKeyFromShared(shared), transmissionKey)
	if err != nil {
		return nil, false, err
	}
	wrappedKey := append(crypto.PublicKeyBytes(&eph.PublicKey), sealedKey...)

	ciphertext, err := crypto.AesGcmEncrypt(transmissionKey, body)
	if err != nil {
		return nil, false, err
	}

	// The signature covers exactly wrappedKey ‖ ciphertext.
	signed := make([]byte, 0, len(wrappedKey)+len(ciphertext))
	signed = append(signed, wrappedKey...)
	signed = append(signed, ciphertext...)
	signature, err := crypto.Sign(priv, signed)
	if err != nil {
		return nil, false, err
	}

	url := buildBaseURL(hostname) + apiBasePath + endpoint
	started := time.Now()

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetHeader("PublicKeyId", keyID).
		SetHeader("TransmissionKey", base64.StdEncoding.EncodeToString(wrappedKey)).
		SetHeader("Authorization", "Signature "+base64.StdEncoding.EncodeToString(signature)).
		SetBody(ciphertext).
		Post(url)
	if err != nil {
		log.Warn().Str("endpoint", endpoint).Err(err).Msg("transport failure")
		return nil, false, &models.NetworkError{URL: url, Err: err}
	}

	log.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode()).
		Dur("elapsed", time.Since(started)).
		Msg("exchange completed")

	if resp.StatusCode() != http.StatusOK {
		retry, herr := c.handleErrorStatus(resp, url)
		return nil, retry, herr
	}

	respBody := resp.Body()
	if len(respBody) == 0 {
		return nil, false, nil
	}
	decrypted, err := crypto.AesGcmDecrypt(transmissionKey, respBody)
	if err != nil {
		return nil, false, err
	}

	if c.allowCache && c.cache != nil {
		slot := make([]byte, 0, len(transmissionKey)+len(respBody))
		slot = append(slot, transmissionKey...)
		slot = append(slot, respBody...)
		if cerr := c.cache.Save(slot); cerr != nil {
			log.Warn().Err(cerr).Msg("failed to update disaster-recovery cache")
		}
	}

	return decrypted, false, nil
}

// handleErrorStatus maps a structured non-2xx body to the error taxonomy. A
// "key" result code carries the pinned key id the server wants; the new id
// is persisted and the exchange retried once.
func (c *Client) handleErrorStatus(resp *resty.Response, url string) (retryKey bool, err error) {
	body := resp.Body()

	var serverResp models.ServerErrorResponse
	if jerr := json.Unmarshal(body, &serverResp); jerr != nil || serverResp.Code() == "" {
		return false, &models.NetworkError{
			URL: url,
			Err: fmt.Errorf("http %d: %s", resp.StatusCode(), strings.TrimSpace(string(body))),
		}
	}

	if serverResp.Code() == "key" && serverResp.KeyID > 0 {
		newID := fmt.Sprintf("%d", serverResp.KeyID)
		if _, ok := c.serverKeys[newID]; ok {
			if serr := c.store.SaveString(storage.KeyServerPublicKeyID, newID); serr == nil {
				c.log.Info().Str("key_id", newID).Msg("server rotated pinned public key")
				return true, nil
			}
		}
	}

	return false, mapServerError(resp.StatusCode(), &serverResp)
}

func (c *Client) privateKey() (*ecdsa.PrivateKey, error) {
	der, err := c.store.GetBytes(storage.KeyPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("private key: %w", err)
	}
	return crypto.ImportPrivateKey(der)
}

// buildBaseURL turns a stored hostname into a base URL. A hostname with an
// explicit scheme passes through; everything else is HTTPS.
func buildBaseURL(hostname string) string {
	if strings.Contains(hostname, "://") {
		return strings.TrimSuffix(hostname, "/")
	}
	return "https://" + strings.TrimSuffix(hostname, "/")
}
