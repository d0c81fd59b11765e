// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keeper Security, Inc.

package models

import (
	"encoding/json"
	"fmt"
)

// Field is the generic typed-value container every record field reduces to:
// a type string, an optional label, and a short ordered value array whose
// element shape depends on the type. Structured field views (see
// field_types.go) are conveniences over this shape, not a separate wire
// format, so field types unknown to the SDK still round-trip intact.
type Field struct {
	Type  string        `json:"type"`
	Label string        `json:"label,omitempty"`
	Value []interface{} `json:"value"`

	// extra captures field-level JSON keys the SDK does not model
	// (required, privacyScreen, enforcement flags, ...) so they survive a
	// parse/marshal round trip.
	extra map[string]json.RawMessage
}

// fieldKnownKeys are the keys the typed Field struct models itself.
var fieldKnownKeys = map[string]bool{"type": true, "label": true, "value": true}

// UnmarshalJSON decodes the modelled keys into the struct and stashes every
// other key verbatim.
func (f *Field) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["type"]; ok {
		if err := json.Unmarshal(v, &f.Type); err != nil {
			return fmt.Errorf("field type: %w", err)
		}
	}
	if v, ok := raw["label"]; ok {
		if err := json.Unmarshal(v, &f.Label); err != nil {
			return fmt.Errorf("field label: %w", err)
		}
	}
	if v, ok := raw["value"]; ok {
		if err := json.Unmarshal(v, &f.Value); err != nil {
			return fmt.Errorf("field value: %w", err)
		}
	}

	for k, v := range raw {
		if fieldKnownKeys[k] {
			continue
		}
		if f.extra == nil {
			f.extra = make(map[string]json.RawMessage)
		}
		f.extra[k] = v
	}

	return nil
}

// MarshalJSON re-emits the modelled keys merged with the captured unknown
// keys. The value array is always present, empty rather than null.
func (f *Field) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(f.extra)+3)
	for k, v := range f.extra {
		out[k] = v
	}

	t, err := json.Marshal(f.Type)
	if err != nil {
		return nil, err
	}
	out["type"] = t

	if f.Label != "" {
		l, err := json.Marshal(f.Label)
		if err != nil {
			return nil, err
		}
		out["label"] = l
	}

	value := f.Value
	if value == nil {
		value = []interface{}{}
	}
	v, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	out["value"] = v

	return json.Marshal(out)
}

// normalize guarantees the never-nil value array invariant after parsing.
func (f *Field) normalize() {
	if f.Value == nil {
		f.Value = []interface{}{}
	}
}

// FirstString returns the first value-array element as a string, or an empty
// string when the array is empty or the element is not a scalar string.
func (f *Field) FirstString() string {
	if len(f.Value) == 0 {
		return ""
	}
	s, _ := f.Value[0].(string)
	return s
}

// Matches reports whether the field's type or label equals name. This is the
// lookup rule used by notation selectors.
func (f *Field) Matches(name string) bool {
	return f.Type == name || f.Label == name
}
