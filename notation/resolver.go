package notation

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Keeper-Security/secrets-manager-sub004/models"
)

// Result is the outcome of resolving a notation against a record set.
// Exactly one of File or Values is meaningful: File is set for the file
// selector, Values for everything else.
type Result struct {
	Record *models.Record
	File   *models.KeeperFile
	Values []string
}

// Resolve parses notationText and resolves it against secrets. It is a pure
// function: no state survives between calls. All failures are
// [models.NotationError] values carrying the offending fragment.
func Resolve(secrets *models.KeeperSecrets, notationText string) (*Result, error) {
	parsed, err := Parse(notationText)
	if err != nil {
		return nil, err
	}

	record, err := findRecord(secrets, parsed)
	if err != nil {
		return nil, err
	}

	selector := parsed.Selector
	switch selector.Text.Text {
	case "type":
		return &Result{Record: record, Values: []string{record.Type}}, nil
	case "title":
		return &Result{Record: record, Values: []string{record.Title}}, nil
	case "notes":
		return &Result{Record: record, Values: []string{record.Notes}}, nil
	case "file":
		file, err := findFile(record, parsed)
		if err != nil {
			return nil, err
		}
		return &Result{Record: record, File: file}, nil
	case "field", "custom_field":
		values, err := resolveField(record, parsed)
		if err != nil {
			return nil, err
		}
		return &Result{Record: record, Values: values}, nil
	default:
		return nil, models.NewNotationError(parsed.Notation, "unknown selector %q", selector.Text.Text)
	}
}

// findRecord applies the record lookup rule: UID first, then exact title.
// Zero or more than one title match is an error.
func findRecord(secrets *models.KeeperSecrets, parsed *Parsed) (*models.Record, error) {
	name := parsed.Record.Text.Text

	if r := secrets.RecordByUID(name); r != nil {
		return r, nil
	}

	matches := secrets.RecordsByTitle(name)
	switch len(matches) {
	case 0:
		return nil, models.NewNotationError(parsed.Notation, "record %q not found", name)
	case 1:
		return matches[0], nil
	default:
		return nil, models.NewNotationError(parsed.Notation,
			"record title %q matches %d records", name, len(matches))
	}
}

// findFile matches the parameter against file name, title or UID and
// requires exactly one hit.
func findFile(record *models.Record, parsed *Parsed) (*models.KeeperFile, error) {
	name := parsed.Selector.Parameter.Text

	var matches []*models.KeeperFile
	for _, f := range record.Files {
		if f.Name == name || f.Title == name || f.UID == name {
			matches = append(matches, f)
		}
	}
	switch len(matches) {
	case 0:
		return nil, models.NewNotationError(parsed.Notation,
			"record %s has no file %q", record.UID, name)
	case 1:
		return matches[0], nil
	default:
		return nil, models.NewNotationError(parsed.Notation,
			"record %s has %d files matching %q", record.UID, len(matches), name)
	}
}

// resolveField applies the field/custom_field selector. The two arrays are
// distinct lookup domains and are never conflated; duplicate (type,label)
// hits within the chosen domain are an ambiguity error, not a silent pick.
func resolveField(record *models.Record, parsed *Parsed) ([]string, error) {
	selector := parsed.Selector
	name := selector.Parameter.Text

	domain := record.Fields
	if selector.Text.Text == "custom_field" {
		domain = record.Custom
	}

	var matches []*models.Field
	for _, f := range domain {
		if f.Matches(name) {
			matches = append(matches, f)
		}
	}
	switch len(matches) {
	case 0:
		return nil, models.NewNotationError(parsed.Notation,
			"record %s has no %s %q", record.UID, selector.Text.Text, name)
	case 1:
		// ok
	default:
		return nil, models.NewNotationError(parsed.Notation,
			"record %s has %d %s entries matching %q", record.UID, len(matches), selector.Text.Text, name)
	}

	return projectField(matches[0], parsed)
}

// projectField applies the index rules of the grammar to the matched field's
// value array.
func projectField(field *models.Field, parsed *Parsed) ([]string, error) {
	index1 := parsed.Selector.Index1
	index2 := parsed.Selector.Index2

	// No index group at all: legacy behavior returns the first element, not
	// the whole array.
	if index1 == nil {
		if len(field.Value) == 0 {
			return nil, models.NewNotationError(parsed.Notation, "field %q has no values", field.Type)
		}
		return []string{stringifyValue(field.Value[0])}, nil
	}

	// "[]" means the whole array. A second index group has nothing to apply
	// to and is rejected rather than dropped.
	if index1.Text == "" {
		if index2 != nil {
			return nil, models.NewNotationError(parsed.Notation,
				"a whole-array selector cannot be followed by a second index")
		}
		out := make([]string, 0, len(field.Value))
		for _, v := range field.Value {
			out = append(out, stringifyValue(v))
		}
		return out, nil
	}

	idx, numeric := parseIndex(index1.Text)
	if !numeric {
		// A non-numeric index1 is a property name projected out of the
		// first element, which must be structured.
		if index2 != nil {
			return nil, models.NewNotationError(parsed.Notation,
				"property %q cannot be followed by a second index", index1.Text)
		}
		if len(field.Value) == 0 {
			return nil, models.NewNotationError(parsed.Notation, "field %q has no values", field.Type)
		}
		return projectProperty(field.Value[0], index1.Text, parsed)
	}

	if idx < 0 || idx >= len(field.Value) {
		return nil, models.NewNotationError(parsed.Notation,
			"index %d out of bounds for field %q (len %d)", idx, field.Type, len(field.Value))
	}
	element := field.Value[idx]

	// Absent or empty index2 returns the whole selected element.
	if index2 == nil || index2.Text == "" {
		return []string{stringifyValue(element)}, nil
	}
	return projectProperty(element, index2.Text, parsed)
}

// projectProperty extracts a named property from a structured (key/value)
// element. Projecting out of a scalar is a type error.
func projectProperty(element interface{}, property string, parsed *Parsed) ([]string, error) {
	obj, ok := element.(map[string]interface{})
	if !ok {
		return nil, models.NewNotationError(parsed.Notation,
			"cannot project property %q out of a non-structured value", property)
	}
	v, ok := obj[property]
	if !ok {
		return nil, models.NewNotationError(parsed.Notation, "value has no property %q", property)
	}
	return []string{stringifyValue(v)}, nil
}

// parseIndex reports whether s is a numeric array index.
func parseIndex(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// stringifyValue renders a value-array element: scalar strings verbatim,
// everything else JSON-encoded.
func stringifyValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
