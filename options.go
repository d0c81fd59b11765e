// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keeper Security, Inc.

package secretsmanager

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/Keeper-Security/secrets-manager-sub004/internal/config"
	"github.com/Keeper-Security/secrets-manager-sub004/internal/logger"
	"github.com/Keeper-Security/secrets-manager-sub004/storage"
)

// defaultClientVersion identifies this SDK build on the wire.
const defaultClientVersion = "mg16.6.4"

// Options configures a [Client]. The zero value is not usable on its own: a
// first run needs Token set, and every run needs a place to keep the
// credential (Config, or ConfigFile via [OptionsFromEnv]).
type Options struct {
	// Token is the one-time binding token, optionally prefixed with a
	// region code or hostname ("EU:...", "fr10.keepersecurity.fr:...").
	// Ignored once the credential in Config is bound to it.
	Token string

	// Hostname is used when the token carries no region prefix, or to
	// reach a host that is not part of a public region.
	Hostname string

	// Config is the credential store. When nil, a JSON file store at
	// ConfigFile is used.
	Config storage.KeyValueStore

	// ConfigFile is the JSON file store path used when Config is nil.
	// Defaults to "client-config.json".
	ConfigFile string

	// ClientVersion overrides the client version string sent with every
	// request.
	ClientVersion string

	// AllowCache opts into the disaster-recovery response cache: the last
	// successful get_secret response is kept encrypted on disk and served
	// when the network is unreachable.
	AllowCache bool

	// CacheFile overrides the cache slot location.
	CacheFile string

	// Timeout bounds each HTTP exchange. Defaults to 30 seconds.
	Timeout time.Duration

	// LogLevel is a zerolog level name. Defaults to "info". Ignored when
	// Logger is set.
	LogLevel string

	// Logger overrides the built logger entirely.
	Logger *logger.Logger

	// serverPublicKeys overrides the pinned key table in tests.
	serverPublicKeys map[string]string
}

// OptionsFromEnv builds Options from the KSM_* environment variables,
// layered over opts. Environment values win for fields they set.
func OptionsFromEnv(opts Options) (Options, error) {
	settings, err := config.GetSettings(config.Settings{
		Token:        opts.Token,
		Hostname:     opts.Hostname,
		ConfigFile:   opts.ConfigFile,
		CacheEnabled: opts.AllowCache,
		CacheFile:    opts.CacheFile,
		LogLevel:     opts.LogLevel,
	})
	if err != nil {
		return Options{}, err
	}

	opts.Token = settings.Token
	opts.Hostname = settings.Hostname
	opts.ConfigFile = settings.ConfigFile
	opts.AllowCache = settings.CacheEnabled
	opts.CacheFile = settings.CacheFile
	opts.LogLevel = settings.LogLevel
	return opts, nil
}

// buildLogger resolves the logger from Options.
func (o *Options) buildLogger() *logger.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	level, err := zerolog.ParseLevel(o.LogLevel)
	if err != nil || o.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	return logger.New("secretsmanager", level)
}
