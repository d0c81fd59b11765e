// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keeper Security, Inc.

// Package notation parses and resolves keeper:// URIs that address a single
// field, property, array element or file inside a fetched record set.
//
// Grammar:
//
//	notation := "keeper://"? record "/" selector
//	selector := ("type"|"title"|"notes")
//	          | "file" "/" parameter
//	          | ("field"|"custom_field") "/" parameter ("[" index1 "]")? ("[" index2 "]")?
//
// Segments escape the structural characters / [ ] \ with a leading
// backslash. A notation with no literal "/" is first base64url-decoded
// (compact encoded form). Parsing is an explicit tokenizer, not regex, and
// each resolve call is a pure function over (notation, record set).
package notation

import (
	"strings"

	"github.com/Keeper-Security/secrets-manager-sub004/internal/crypto"
	"github.com/Keeper-Security/secrets-manager-sub004/models"
)

// Prefix is the URI scheme of the expanded notation form.
const Prefix = "keeper://"

// Section kinds produced by [Parse].
const (
	KindPrefix   = "prefix"
	KindRecord   = "record"
	KindSelector = "selector"
)

// Token is one parsed segment: the raw text as written (escapes intact,
// structural delimiters excluded) and the unescaped value.
type Token struct {
	Raw  string
	Text string
}

// Section is the parser output for one grammar position. Parameter, Index1
// and Index2 are only ever set on the selector section.
type Section struct {
	Kind    string
	Present bool
	// Start and End delimit the section inside the (possibly decoded)
	// notation string; End is -1 when the section is absent.
	Start int
	End   int

	Text      *Token
	Parameter *Token
	Index1    *Token
	Index2    *Token
}

// Parsed is the full parse result.
type Parsed struct {
	// Notation is the effective notation text after optional base64url
	// decoding of the compact form.
	Notation string

	Prefix   Section
	Record   Section
	Selector Section
}

// Parse tokenizes a notation URI. It fails with a [models.NotationError] on
// any grammar violation; it performs no lookups against a record set.
func Parse(text string) (*Parsed, error) {
	if text == "" {
		return nil, models.NewNotationError(text, "empty notation")
	}

	// Compact form: no unescaped separator at all means the whole string is
	// base64url of the expanded form.
	if !strings.Contains(text, "/") {
		decoded, err := crypto.Base64URLDecode(text)
		if err != nil || !strings.Contains(string(decoded), "/") {
			return nil, models.NewNotationError(text, "notation has no '/' and is not base64url-encoded")
		}
		text = string(decoded)
	}

	p := &Parsed{Notation: text}
	pos := 0

	p.Prefix = Section{Kind: KindPrefix, Start: 0, End: -1}
	if strings.HasPrefix(text, Prefix) {
		p.Prefix.Present = true
		p.Prefix.End = len(Prefix) - 1
		p.Prefix.Text = &Token{Raw: Prefix, Text: Prefix}
		pos = len(Prefix)
	}

	record, next, err := scanToken(text, pos, '/')
	if err != nil {
		return nil, err
	}
	if record.Text == "" {
		return nil, models.NewNotationError(text, "missing record segment")
	}
	if next >= len(text) {
		return nil, models.NewNotationError(text, "missing selector segment")
	}
	p.Record = Section{Kind: KindRecord, Present: true, Start: pos, End: next - 1, Text: record}
	pos = next + 1 // skip the separator

	selector, next, err := scanToken(text, pos, '/')
	if err != nil {
		return nil, err
	}
	p.Selector = Section{Kind: KindSelector, Present: true, Start: pos, End: len(text) - 1, Text: selector}

	switch selector.Text {
	case "type", "title", "notes":
		if next < len(text) {
			return nil, models.NewNotationError(text, "selector %q takes no parameter", selector.Text)
		}
		return p, nil
	case "file", "field", "custom_field":
		if next >= len(text) {
			return nil, models.NewNotationError(text, "selector %q requires a parameter", selector.Text)
		}
		pos = next + 1
	default:
		return nil, models.NewNotationError(text, "unknown selector %q", selector.Text)
	}

	param, next, err := scanToken(text, pos, '[')
	if err != nil {
		return nil, err
	}
	if param.Text == "" {
		return nil, models.NewNotationError(text, "selector %q has an empty parameter", selector.Text)
	}
	p.Selector.Parameter = param
	pos = next

	if pos >= len(text) {
		return p, nil
	}
	if selector.Text == "file" {
		return nil, models.NewNotationError(text, "file selector takes no index")
	}

	idx1, pos, err := scanBracketed(text, pos)
	if err != nil {
		return nil, err
	}
	p.Selector.Index1 = idx1

	if pos >= len(text) {
		return p, nil
	}
	idx2, pos, err := scanBracketed(text, pos)
	if err != nil {
		return nil, err
	}
	p.Selector.Index2 = idx2

	if pos < len(text) {
		return nil, models.NewNotationError(text, "unexpected trailing text %q", text[pos:])
	}
	return p, nil
}

// scanToken reads from pos until an unescaped delim or end of string.
// It returns the token and the position of the delimiter (or len(text)).
// Escapes are transition rules: a backslash before one of / [ ] \ emits that
// character literally; a backslash before anything else is an error.
func scanToken(text string, pos int, delim byte) (*Token, int, error) {
	var (
		raw    strings.Builder
		parsed strings.Builder
	)

	i := pos
	for i < len(text) {
		c := text[i]
		if c == '\\' {
			if i+1 >= len(text) {
				return nil, 0, models.NewNotationError(text, "dangling escape at position %d", i)
			}
			esc := text[i+1]
			if esc != '/' && esc != '[' && esc != ']' && esc != '\\' {
				return nil, 0, models.NewNotationError(text, "invalid escape \\%c at position %d", esc, i)
			}
			raw.WriteByte(c)
			raw.WriteByte(esc)
			parsed.WriteByte(esc)
			i += 2
			continue
		}
		if c == delim {
			break
		}
		// Unescaped brackets are structural: inside a plain token they are
		// only legal when the caller is scanning up to '[' itself.
		if (c == '[' || c == ']') && c != delim {
			return nil, 0, models.NewNotationError(text, "unescaped %q at position %d", string(c), i)
		}
		raw.WriteByte(c)
		parsed.WriteByte(c)
		i++
	}

	return &Token{Raw: raw.String(), Text: parsed.String()}, i, nil
}

// scanBracketed reads an index group "[...]" starting exactly at pos.
// The token may be empty ("[]"). Returns the position after the closing
// bracket.
func scanBracketed(text string, pos int) (*Token, int, error) {
	if pos >= len(text) || text[pos] != '[' {
		return nil, 0, models.NewNotationError(text, "expected '[' at position %d", pos)
	}

	tok, end, err := scanToken(text, pos+1, ']')
	if err != nil {
		return nil, 0, err
	}
	if end >= len(text) {
		return nil, 0, models.NewNotationError(text, "unterminated index at position %d", pos)
	}
	return tok, end + 1, nil
}
