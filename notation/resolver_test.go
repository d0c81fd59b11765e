// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keeper Security, Inc.

package notation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keeper-Security/secrets-manager-sub004/models"
)

func fixtureSecrets() *models.KeeperSecrets {
	return &models.KeeperSecrets{
		Records: []*models.Record{
			{
				UID:   "k9qMpcO0aszz9w3li5XbaQ",
				Title: "My Record 1",
				Type:  "login",
				Notes: "My Note 1",
				Fields: []*models.Field{
					{Type: "login", Value: []interface{}{"My Login 1"}},
					{Type: "password", Value: []interface{}{"My Password 1"}},
				},
				Custom: []*models.Field{
					{Type: "text", Label: "My Custom 1", Value: []interface{}{"custom1"}},
					{Type: "phone", Label: "My Custom 2", Value: []interface{}{
						map[string]interface{}{"number": "555-5555555", "ext": "22"},
						map[string]interface{}{"number": "777-7777777", "ext": "77"},
					}},
				},
				Files: []*models.KeeperFile{
					{UID: "fileUid1", Name: "cert.pem", Title: "Certificate"},
				},
			},
			{
				UID:   "A2pMp0O0aszz9w3li5XbaQ",
				Title: "Shared Title",
				Type:  "login",
				Fields: []*models.Field{
					{Type: "login", Value: []interface{}{"second"}},
				},
			},
			{
				UID:    "B3pMp0O0aszz9w3li5XbaQ",
				Title:  "Shared Title",
				Type:   "login",
				Fields: []*models.Field{},
			},
		},
	}
}

func TestResolveSimpleSelectors(t *testing.T) {
	secrets := fixtureSecrets()

	tests := []struct {
		name     string
		notation string
		want     []string
	}{
		{name: "type", notation: "keeper://k9qMpcO0aszz9w3li5XbaQ/type", want: []string{"login"}},
		{name: "title", notation: "keeper://k9qMpcO0aszz9w3li5XbaQ/title", want: []string{"My Record 1"}},
		{name: "notes", notation: "keeper://k9qMpcO0aszz9w3li5XbaQ/notes", want: []string{"My Note 1"}},
		{name: "record by title", notation: "keeper://My Record 1/type", want: []string{"login"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Resolve(secrets, tt.notation)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Values)
		})
	}
}

func TestResolveFieldProjection(t *testing.T) {
	secrets := fixtureSecrets()

	tests := []struct {
		name     string
		notation string
		want     []string
	}{
		{name: "bare field yields first value", notation: "keeper://k9qMpcO0aszz9w3li5XbaQ/field/login", want: []string{"My Login 1"}},
		{name: "explicit zero index", notation: "keeper://k9qMpcO0aszz9w3li5XbaQ/field/login[0]", want: []string{"My Login 1"}},
		{name: "whole array", notation: "keeper://k9qMpcO0aszz9w3li5XbaQ/field/login[]", want: []string{"My Login 1"}},
		{name: "custom field by label", notation: "keeper://k9qMpcO0aszz9w3li5XbaQ/custom_field/My Custom 1", want: []string{"custom1"}},
		{name: "element property", notation: "keeper://k9qMpcO0aszz9w3li5XbaQ/custom_field/phone[0][number]", want: []string{"555-5555555"}},
		{name: "second element property", notation: "keeper://k9qMpcO0aszz9w3li5XbaQ/custom_field/phone[1][number]", want: []string{"777-7777777"}},
		{name: "property of first element", notation: "keeper://k9qMpcO0aszz9w3li5XbaQ/custom_field/phone[number]", want: []string{"555-5555555"}},
		{name: "whole structured element", notation: "keeper://k9qMpcO0aszz9w3li5XbaQ/custom_field/phone[0][]", want: []string{`{"ext":"22","number":"555-5555555"}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Resolve(secrets, tt.notation)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Values)
		})
	}
}

func TestResolveFieldDomainsAreSeparate(t *testing.T) {
	secrets := fixtureSecrets()

	// login lives in fields, not custom fields.
	_, err := Resolve(secrets, "keeper://k9qMpcO0aszz9w3li5XbaQ/custom_field/login")
	require.Error(t, err)

	// phone lives in custom fields, not fields.
	_, err = Resolve(secrets, "keeper://k9qMpcO0aszz9w3li5XbaQ/field/phone")
	require.Error(t, err)
}

func TestResolveFile(t *testing.T) {
	secrets := fixtureSecrets()

	for _, ref := range []string{"cert.pem", "Certificate", "fileUid1"} {
		result, err := Resolve(secrets, "keeper://k9qMpcO0aszz9w3li5XbaQ/file/"+ref)
		require.NoError(t, err)
		require.NotNil(t, result.File)
		assert.Equal(t, "fileUid1", result.File.UID)
		assert.Nil(t, result.Values)
	}

	_, err := Resolve(secrets, "keeper://k9qMpcO0aszz9w3li5XbaQ/file/absent.txt")
	require.Error(t, err)
}

func TestResolveErrors(t *testing.T) {
	secrets := fixtureSecrets()

	tests := []struct {
		name     string
		notation string
	}{
		{name: "record not found", notation: "keeper://NoSuchRecord/title"},
		{name: "ambiguous title", notation: "keeper://Shared Title/type"},
		{name: "field not found", notation: "keeper://k9qMpcO0aszz9w3li5XbaQ/field/url"},
		{name: "index out of bounds", notation: "keeper://k9qMpcO0aszz9w3li5XbaQ/field/login[1]"},
		{name: "property of scalar", notation: "keeper://k9qMpcO0aszz9w3li5XbaQ/field/login[0][missing]"},
		{name: "missing property", notation: "keeper://k9qMpcO0aszz9w3li5XbaQ/custom_field/phone[0][missing]"},
		{name: "property then index", notation: "keeper://k9qMpcO0aszz9w3li5XbaQ/custom_field/phone[number][0]"},
		{name: "whole array then property", notation: "keeper://k9qMpcO0aszz9w3li5XbaQ/custom_field/phone[][number]"},
		{name: "whole array then empty index", notation: "keeper://k9qMpcO0aszz9w3li5XbaQ/custom_field/phone[][]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(secrets, tt.notation)
			require.Error(t, err)

			var nerr *models.NotationError
			assert.True(t, errors.As(err, &nerr))
		})
	}
}

func TestResolveAmbiguousFieldMatch(t *testing.T) {
	secrets := &models.KeeperSecrets{
		Records: []*models.Record{
			{
				UID:   "dupFieldRecordUid0000A",
				Title: "Dup",
				Custom: []*models.Field{
					{Type: "text", Label: "token", Value: []interface{}{"a"}},
					{Type: "secret", Label: "token", Value: []interface{}{"b"}},
				},
			},
		},
	}

	_, err := Resolve(secrets, "keeper://dupFieldRecordUid0000A/custom_field/token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2")
}
