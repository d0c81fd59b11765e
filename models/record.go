// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keeper Security, Inc.

// Package models defines the data model shared by every layer of the
// secrets-manager SDK: decrypted vault records, their generic typed fields,
// attached files, folders, the top-level response envelope, and the error
// taxonomy surfaced to callers.
package models

import (
	"encoding/json"
	"time"
)

// Record is a single decrypted vault record. It is owned by the caller once
// returned; the SDK holds no cross-call cache of records beyond the current
// response.
type Record struct {
	// UID is the record identifier, globally unique within a vault.
	UID string

	// Revision increases monotonically on every update. A Save with a stale
	// revision is rejected by the server, so callers must re-fetch after a
	// successful Save before saving again.
	Revision int64

	// FolderUID is set when the record was shared to the application through
	// a folder rather than directly.
	FolderUID string

	// InnerFolderUID is the subfolder the record lives in, if any.
	InnerFolderUID string

	// RecordKey is the raw AES-256 key protecting this record's payload and
	// its file keys. Needed again when the record is saved or files fetched.
	RecordKey []byte

	// Title, Type and Notes mirror the corresponding payload scalars.
	Title string
	Type  string
	Notes string

	// Fields holds the record's standard fields, Custom the user-defined
	// ones. The two arrays are distinct lookup domains and are never merged.
	Fields []*Field
	Custom []*Field

	// Files lists the file attachments of this record. File content is
	// fetched lazily, not inline in the record payload.
	Files []*KeeperFile

	// RawJSON is the decrypted record payload exactly as received, kept so
	// that unknown payload keys survive a decrypt/encrypt round trip.
	RawJSON []byte
}

// recordData is the wire shape of a decrypted record payload.
type recordData struct {
	Title  string   `json:"title"`
	Type   string   `json:"type"`
	Fields []*Field `json:"fields,omitempty"`
	Custom []*Field `json:"custom,omitempty"`
	Notes  string   `json:"notes,omitempty"`
}

// ParseRecordData populates the record's typed view (Title, Type, Fields,
// Custom, Notes) from the decrypted payload bytes and retains the bytes in
// RawJSON. A value array is never implicitly nil; absence becomes an empty
// array.
func (r *Record) ParseRecordData(raw []byte) error {
	var data recordData
	if err := json.Unmarshal(raw, &data); err != nil {
		return err
	}

	r.RawJSON = append([]byte(nil), raw...)
	r.Title = data.Title
	r.Type = data.Type
	r.Notes = data.Notes
	r.Fields = data.Fields
	r.Custom = data.Custom

	for _, f := range r.Fields {
		f.normalize()
	}
	for _, f := range r.Custom {
		f.normalize()
	}

	return nil
}

// MarshalRecordData serializes the record's typed view back into payload
// bytes for re-encryption. Field-level keys unknown to the SDK are restored
// from the capture made at parse time.
func (r *Record) MarshalRecordData() ([]byte, error) {
	data := recordData{
		Title:  r.Title,
		Type:   r.Type,
		Fields: r.Fields,
		Custom: r.Custom,
		Notes:  r.Notes,
	}
	return json.Marshal(data)
}

// FieldByType returns the first standard field whose type equals fieldType,
// or nil if the record has none.
func (r *Record) FieldByType(fieldType string) *Field {
	for _, f := range r.Fields {
		if f.Type == fieldType {
			return f
		}
	}
	return nil
}

// Password returns the record's password field value, or an empty string if
// the record carries none.
func (r *Record) Password() string {
	if f := r.FieldByType("password"); f != nil {
		return f.FirstString()
	}
	return ""
}

// SetPassword replaces the value of the record's password field. A password
// field is appended if the record does not have one yet.
func (r *Record) SetPassword(password string) {
	if f := r.FieldByType("password"); f != nil {
		f.Value = []interface{}{password}
		return
	}
	r.Fields = append(r.Fields, &Field{Type: "password", Value: []interface{}{password}})
}

// FileByName returns the attachment whose name, title or UID equals name,
// or nil if there is no such file.
func (r *Record) FileByName(name string) *KeeperFile {
	for _, f := range r.Files {
		if f.Name == name || f.Title == name || f.UID == name {
			return f
		}
	}
	return nil
}

// KeeperFile is a file attachment of a record. The binary content lives
// behind URL and is decrypted with the per-file key, separate from the
// record key.
type KeeperFile struct {
	UID          string
	FileKey      []byte
	Name         string
	Title        string
	Type         string
	Size         int64
	LastModified int64
	URL          string
	ThumbnailURL string
}

// Folder is a shared folder returned alongside records. Its key decrypts the
// record keys of the records shared through it.
type Folder struct {
	UID       string
	ParentUID string
	FolderKey []byte
	Records   []*Record
}

// AppInfo describes the secrets-manager application the credential is bound
// to.
type AppInfo struct {
	Title string `json:"title"`
	Type  string `json:"type"`
}

// KeeperSecrets is the top-level decrypted response envelope.
type KeeperSecrets struct {
	Records   []*Record
	Folders   []*Folder
	AppInfo   AppInfo
	ExpiresOn time.Time
	Warnings  []string
}

// RecordByUID returns the record with the given UID, searching both directly
// shared records and records inside folders. Returns nil if absent.
func (s *KeeperSecrets) RecordByUID(uid string) *Record {
	for _, r := range s.Records {
		if r.UID == uid {
			return r
		}
	}
	return nil
}

// RecordsByTitle returns every record whose title exactly equals title.
func (s *KeeperSecrets) RecordsByTitle(title string) []*Record {
	var out []*Record
	for _, r := range s.Records {
		if r.Title == title {
			out = append(out, r)
		}
	}
	return out
}
