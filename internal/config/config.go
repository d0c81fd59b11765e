// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keeper Security, Inc.

package config

// Settings is everything a client needs before its first exchange. All
// fields are optional individually, but a first run needs either a token or
// a previously bound config store.
//
// Struct tags:
//   - env — direct environment variable name for the field (caarlos0/env).
type Settings struct {
	// Token is the one-time binding token, optionally prefixed with a
	// region code or hostname ("EU:...", "fr10.keepersecurity.fr:...").
	// Env: KSM_TOKEN
	Token string `env:"KSM_TOKEN"`

	// Hostname overrides the hostname carried by the token or persisted
	// in the config store.
	// Env: KSM_HOSTNAME
	Hostname string `env:"KSM_HOSTNAME"`

	// ConfigFile is the path of the JSON key-value store holding the
	// bound credential.
	// Env: KSM_CONFIG_FILE
	ConfigFile string `env:"KSM_CONFIG_FILE"`

	// CacheEnabled turns on the disaster-recovery response cache.
	// Env: KSM_CACHE
	CacheEnabled bool `env:"KSM_CACHE"`

	// CacheFile overrides the location of the cache slot.
	// Env: KSM_CACHE_FILE
	CacheFile string `env:"KSM_CACHE_FILE"`

	// LogLevel is a zerolog level name (debug, info, warn, error).
	// Env: KSM_LOG_LEVEL
	LogLevel string `env:"KSM_LOG_LEVEL"`
}

// GetSettings loads and merges client settings in the following priority
// order (last source wins for non-zero fields):
//  1. Programmatic defaults
//  2. Environment variables
//
// Returns the merged Settings or an error if the environment fails to
// parse or the result fails validation.
func GetSettings(defaults Settings) (Settings, error) {
	return newSettingsBuilder().
		withDefaults(defaults).
		withEnv().
		build()
}
