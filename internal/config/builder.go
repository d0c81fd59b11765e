// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keeper Security, Inc.

package config

import (
	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
)

// settingsBuilder accumulates settings from each source in turn. Errors are
// collected and surfaced once by build, so the chain reads without
// intermediate checks.
type settingsBuilder struct {
	settings Settings
	err      error
}

func newSettingsBuilder() *settingsBuilder {
	return &settingsBuilder{}
}

// withDefaults seeds the builder with programmatic defaults. Later sources
// override non-zero fields.
func (b *settingsBuilder) withDefaults(defaults Settings) *settingsBuilder {
	if b.err != nil {
		return b
	}
	b.settings = defaults
	return b
}

// withEnv parses KSM_* environment variables and merges them over the
// current settings. Unset variables leave the existing value in place.
func (b *settingsBuilder) withEnv() *settingsBuilder {
	if b.err != nil {
		return b
	}

	var fromEnv Settings
	if err := env.Parse(&fromEnv); err != nil {
		b.err = err
		return b
	}

	if err := mergo.Merge(&b.settings, fromEnv, mergo.WithOverride); err != nil {
		b.err = err
	}
	return b
}

// build finalizes the chain, applying fallback values for fields no source
// provided.
func (b *settingsBuilder) build() (Settings, error) {
	if b.err != nil {
		return Settings{}, b.err
	}

	if b.settings.ConfigFile == "" {
		b.settings.ConfigFile = "client-config.json"
	}
	if b.settings.LogLevel == "" {
		b.settings.LogLevel = "info"
	}
	return b.settings, nil
}
