package models

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"

	pkgerrors "github.com/reelkeep/reelkeep/pkg/errors"
)

// PreferenceType tags how a preference value string is interpreted.
type PreferenceType string

const (
	PreferenceTypeString PreferenceType = "string"
	PreferenceTypeInt    PreferenceType = "int"
	PreferenceTypeFloat  PreferenceType = "float"
	PreferenceTypeBool   PreferenceType = "bool"
	PreferenceTypeJSON   PreferenceType = "json"
)

// Valid reports whether t is a member of the closed type set.
func (t PreferenceType) Valid() bool {
	switch t {
	case PreferenceTypeString, PreferenceTypeInt, PreferenceTypeFloat,
		PreferenceTypeBool, PreferenceTypeJSON:
		return true
	}
	return false
}

// TypedValue is a preference value parsed according to its declared type.
// Exactly one of the value fields is meaningful, selected by Type.
type TypedValue struct {
	Type  PreferenceType
	Str   string
	Int   int64
	Float float64
	Bool  bool
	JSON  json.RawMessage
}

// ParsePreferenceValue parses raw according to dataType. It fails with a
// validation error when raw cannot be interpreted as the declared type, so
// an ill-typed value never reaches storage.
func ParsePreferenceValue(dataType PreferenceType, raw string) (*TypedValue, error) {
	tv := &TypedValue{Type: dataType}

	switch dataType {
	case PreferenceTypeString:
		tv.Str = raw
	case PreferenceTypeInt:
		n, err := cast.ToInt64E(raw)
		if err != nil {
			return nil, pkgerrors.Validation("preference_value", "type:int", raw)
		}
		tv.Int = n
	case PreferenceTypeFloat:
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			return nil, pkgerrors.Validation("preference_value", "type:float", raw)
		}
		tv.Float = f
	case PreferenceTypeBool:
		b, err := cast.ToBoolE(raw)
		if err != nil {
			return nil, pkgerrors.Validation("preference_value", "type:bool", raw)
		}
		tv.Bool = b
	case PreferenceTypeJSON:
		if !json.Valid([]byte(raw)) {
			return nil, pkgerrors.Validation("preference_value", "type:json", raw)
		}
		tv.JSON = json.RawMessage(raw)
	default:
		return nil, pkgerrors.Validation("data_type", "oneof", string(dataType))
	}

	return tv, nil
}

// TypedValue parses the stored value according to the preference's DataType.
func (p *UserPreference) TypedValue() (*TypedValue, error) {
	tv, err := ParsePreferenceValue(p.DataType, p.PreferenceValue)
	if err != nil {
		return nil, fmt.Errorf("preference %q: %w", p.PreferenceKey, err)
	}
	return tv, nil
}
