// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keeper Security, Inc.

// Package logger provides a thin wrapper around zerolog.Logger used
// throughout the SDK. The wrapper embeds zerolog.Logger, so the full zerolog
// API is available on *Logger. Log entries never contain key material;
// record UIDs and server result codes are the most sensitive values emitted.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// New constructs a *Logger writing JSON to stderr at the given level, tagged
// with a "component" field for filtering.
func New(component string, level zerolog.Level) *Logger {
	l := zerolog.New(os.Stderr).Level(level).With().
		Str("component", component).
		Timestamp().
		Logger()
	return &Logger{l}
}

// NewWriter constructs a *Logger writing to an arbitrary sink. Used by
// embedders that route SDK logs into their own pipeline.
func NewWriter(component string, level zerolog.Level, w io.Writer) *Logger {
	l := zerolog.New(w).Level(level).With().
		Str("component", component).
		Timestamp().
		Logger()
	return &Logger{l}
}

// Nop returns a *Logger that discards all output. Default for tests and for
// embedders that did not opt into logging.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// Child returns a logger inheriting the receiver's fields plus the given
// string field.
func (l *Logger) Child(key, value string) *Logger {
	return &Logger{l.With().Str(key, value).Logger()}
}
