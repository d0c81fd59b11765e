// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keeper Security, Inc.

package notation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keeper-Security/secrets-manager-sub004/internal/crypto"
	"github.com/Keeper-Security/secrets-manager-sub004/models"
)

func TestParseSimpleSelectors(t *testing.T) {
	tests := []struct {
		name     string
		notation string
		record   string
		selector string
	}{
		{name: "with prefix", notation: "keeper://MyRecordUID/title", record: "MyRecordUID", selector: "title"},
		{name: "without prefix", notation: "MyRecordUID/type", record: "MyRecordUID", selector: "type"},
		{name: "notes", notation: "keeper://MyRecordUID/notes", record: "MyRecordUID", selector: "notes"},
		{name: "title lookup by record title", notation: "keeper://My Record/title", record: "My Record", selector: "title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Parse(tt.notation)
			require.NoError(t, err)
			assert.Equal(t, tt.record, parsed.Record.Text.Text)
			assert.Equal(t, tt.selector, parsed.Selector.Text.Text)
			assert.Nil(t, parsed.Selector.Parameter)
		})
	}
}

func TestParsePrefixSection(t *testing.T) {
	parsed, err := Parse("keeper://UID/title")
	require.NoError(t, err)
	assert.True(t, parsed.Prefix.Present)

	parsed, err = Parse("UID/title")
	require.NoError(t, err)
	assert.False(t, parsed.Prefix.Present)
}

func TestParseFieldIndexes(t *testing.T) {
	tests := []struct {
		name      string
		notation  string
		parameter string
		index1    string
		hasIndex1 bool
		index2    string
		hasIndex2 bool
	}{
		{name: "bare field", notation: "keeper://UID/field/login", parameter: "login"},
		{name: "numeric index", notation: "keeper://UID/field/login[0]", parameter: "login", hasIndex1: true, index1: "0"},
		{name: "whole array", notation: "keeper://UID/field/phone[]", parameter: "phone", hasIndex1: true, index1: ""},
		{name: "property of first", notation: "keeper://UID/field/name[first]", parameter: "name", hasIndex1: true, index1: "first"},
		{name: "element property", notation: "keeper://UID/custom_field/phone[1][number]", parameter: "phone", hasIndex1: true, index1: "1", hasIndex2: true, index2: "number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Parse(tt.notation)
			require.NoError(t, err)
			require.NotNil(t, parsed.Selector.Parameter)
			assert.Equal(t, tt.parameter, parsed.Selector.Parameter.Text)

			if tt.hasIndex1 {
				require.NotNil(t, parsed.Selector.Index1)
				assert.Equal(t, tt.index1, parsed.Selector.Index1.Text)
			} else {
				assert.Nil(t, parsed.Selector.Index1)
			}
			if tt.hasIndex2 {
				require.NotNil(t, parsed.Selector.Index2)
				assert.Equal(t, tt.index2, parsed.Selector.Index2.Text)
			} else {
				assert.Nil(t, parsed.Selector.Index2)
			}
		})
	}
}

func TestParseEscapes(t *testing.T) {
	parsed, err := Parse(`keeper://A\/B\[C\]D\\E/field/login`)
	require.NoError(t, err)
	assert.Equal(t, `A/B[C]D\E`, parsed.Record.Text.Text)
	assert.Equal(t, `A\/B\[C\]D\\E`, parsed.Record.Text.Raw)

	parsed, err = Parse(`keeper://UID/custom_field/my\/label`)
	require.NoError(t, err)
	assert.Equal(t, "my/label", parsed.Selector.Parameter.Text)
}

func TestParseCompactForm(t *testing.T) {
	expanded := "keeper://MyRecordUID/field/password"
	compact := crypto.Base64URLEncode([]byte(expanded))

	parsed, err := Parse(compact)
	require.NoError(t, err)
	assert.Equal(t, expanded, parsed.Notation)
	assert.Equal(t, "MyRecordUID", parsed.Record.Text.Text)
	assert.Equal(t, "password", parsed.Selector.Parameter.Text)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		notation string
	}{
		{name: "empty", notation: ""},
		{name: "no selector", notation: "keeper://UID"},
		{name: "empty record", notation: "keeper:///title"},
		{name: "unknown selector", notation: "keeper://UID/password"},
		{name: "title with parameter", notation: "keeper://UID/title/extra"},
		{name: "field without parameter", notation: "keeper://UID/field"},
		{name: "field with empty parameter", notation: "keeper://UID/field/"},
		{name: "file with index", notation: "keeper://UID/file/name[0]"},
		{name: "unterminated index", notation: "keeper://UID/field/login[0"},
		{name: "trailing text", notation: "keeper://UID/field/login[0]x"},
		{name: "third index group", notation: "keeper://UID/field/login[0][a][b]"},
		{name: "dangling escape", notation: `keeper://UID/field/login\`},
		{name: "invalid escape", notation: `keeper://UID/field/lo\gin`},
		{name: "unescaped bracket in record", notation: "keeper://U]ID/title"},
		{name: "compact not base64", notation: "not-base64-and-no-slash!!!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.notation)
			require.Error(t, err)

			var nerr *models.NotationError
			assert.True(t, errors.As(err, &nerr))
		})
	}
}
