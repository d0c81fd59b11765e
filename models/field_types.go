package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Structured value shapes for the field types the SDK models explicitly.
// Everything else stays a generic map inside Field.Value; the catalog of
// field types grows over time and unknown entries must keep round-tripping.

// Name is the structured value of a "name" field.
type Name struct {
	First  string `json:"first,omitempty"`
	Middle string `json:"middle,omitempty"`
	Last   string `json:"last,omitempty"`
}

// Phone is one element of a "phone" field value array.
type Phone struct {
	Region string `json:"region,omitempty"`
	Number string `json:"number,omitempty"`
	Ext    string `json:"ext,omitempty"`
	Type   string `json:"type,omitempty"`
}

// Host is the structured value of a "host" field.
type Host struct {
	HostName string `json:"hostName,omitempty"`
	Port     string `json:"port,omitempty"`
}

// PaymentCard is the structured value of a "paymentCard" field.
type PaymentCard struct {
	CardNumber         string `json:"cardNumber,omitempty"`
	CardExpirationDate string `json:"cardExpirationDate,omitempty"`
	CardSecurityCode   string `json:"cardSecurityCode,omitempty"`
}

// BankAccount is the structured value of a "bankAccount" field.
type BankAccount struct {
	AccountType   string `json:"accountType,omitempty"`
	RoutingNumber string `json:"routingNumber,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
}

// SecurityQuestion is one element of a "securityQuestion" field value array.
type SecurityQuestion struct {
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
}

// fieldViewRegistry maps a field type string to a factory for its structured
// view. Registration replaces a closed per-type class hierarchy: lookup is
// dynamic and types without an entry simply stay generic.
var (
	fieldViewMu       sync.RWMutex
	fieldViewRegistry = map[string]func() interface{}{
		"name":             func() interface{} { return &Name{} },
		"phone":            func() interface{} { return &Phone{} },
		"host":             func() interface{} { return &Host{} },
		"paymentCard":      func() interface{} { return &PaymentCard{} },
		"bankAccount":      func() interface{} { return &BankAccount{} },
		"securityQuestion": func() interface{} { return &SecurityQuestion{} },
	}
)

// RegisterFieldView adds or replaces the structured view factory for a field
// type. Intended for embedders tracking new server-side field types without
// waiting for an SDK release.
func RegisterFieldView(fieldType string, factory func() interface{}) {
	fieldViewMu.Lock()
	defer fieldViewMu.Unlock()
	fieldViewRegistry[fieldType] = factory
}

// RegisteredFieldViews returns the sorted list of field types that currently
// have a structured view.
func RegisteredFieldViews() []string {
	fieldViewMu.RLock()
	defer fieldViewMu.RUnlock()

	types := make([]string, 0, len(fieldViewRegistry))
	for t := range fieldViewRegistry {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// StructuredView decodes the value-array element at index into the
// registered view for the field's type. It returns an error when the field
// type has no registered view, the index is out of bounds, or the element
// does not have the expected shape.
func (f *Field) StructuredView(index int) (interface{}, error) {
	fieldViewMu.RLock()
	factory, ok := fieldViewRegistry[f.Type]
	fieldViewMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no structured view registered for field type %q", f.Type)
	}
	if index < 0 || index >= len(f.Value) {
		return nil, fmt.Errorf("field %q value index %d out of bounds (len %d)", f.Type, index, len(f.Value))
	}

	raw, err := json.Marshal(f.Value[index])
	if err != nil {
		return nil, err
	}
	view := factory()
	if err := json.Unmarshal(raw, view); err != nil {
		return nil, fmt.Errorf("field %q value has unexpected shape: %w", f.Type, err)
	}
	return view, nil
}
