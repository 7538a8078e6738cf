// Package schema declares the fixed field set a dataset normalizes into and
// performs the per-record normalization itself.
package schema

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fieldhouse/rollcall/internal/model"
)

// FieldType enumerates the scalar types a normalized field can hold.
type FieldType string

const (
	TypeString FieldType = "string"
	TypeInt    FieldType = "int"
	TypeFloat  FieldType = "float"

	// TypeCode is a numeric code translated to a label through the field's
	// code table. Codes missing from the table normalize to UnknownLabel.
	TypeCode FieldType = "code"
)

// UnknownLabel is the bucket for code values the schema does not recognize.
// Records carrying unknown codes still count; they land under this label
// instead of being dropped.
const UnknownLabel = "UNKNOWN"

// Field declares one normalized field: the source column it is read from,
// the type it must parse into, and whether ingestion requires it.
type Field struct {
	Name     string           `yaml:"name"`
	Column   string           `yaml:"column,omitempty"` // source column, defaults to Name
	Type     FieldType        `yaml:"type"`
	Required bool             `yaml:"required,omitempty"`
	Length   int              `yaml:"length,omitempty"` // when > 0, exact rune count the value must have
	Codes    map[int64]string `yaml:"codes,omitempty"`  // code table, TypeCode only
}

// Schema is the full declaration for one dataset: the fields every
// normalized record carries plus the fields the search index covers.
type Schema struct {
	Name       string   `yaml:"name"`
	Fields     []Field  `yaml:"fields"`
	Searchable []string `yaml:"searchable,omitempty"`
}

// Validate checks the declaration and fills in defaults: blank columns fall
// back to the field name, and columns are lower-cased to match the keys
// sources emit.
func (s *Schema) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("schema has no name")
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("schema %q declares no fields", s.Name)
	}
	seen := make(map[string]bool, len(s.Fields))
	for i := range s.Fields {
		f := &s.Fields[i]
		if f.Name == "" {
			return fmt.Errorf("schema %q: field %d has no name", s.Name, i)
		}
		if seen[f.Name] {
			return fmt.Errorf("schema %q: duplicate field %q", s.Name, f.Name)
		}
		seen[f.Name] = true
		if f.Column == "" {
			f.Column = f.Name
		}
		f.Column = strings.ToLower(f.Column)
		switch f.Type {
		case TypeString, TypeInt, TypeFloat:
		case TypeCode:
			if len(f.Codes) == 0 {
				return fmt.Errorf("schema %q: code field %q has no code table", s.Name, f.Name)
			}
		default:
			return fmt.Errorf("schema %q: field %q has unknown type %q", s.Name, f.Name, f.Type)
		}
	}
	for _, name := range s.Searchable {
		if !seen[name] {
			return fmt.Errorf("schema %q: searchable field %q is not declared", s.Name, name)
		}
	}
	return nil
}

// FieldNames returns the declared field names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// HasField reports whether the schema declares a field with this name.
func (s *Schema) HasField(name string) bool {
	for _, f := range s.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Normalize converts one raw unit into a normalized record. Every declared
// field is populated; a violation returns a *model.MalformedRecordError and
// no record.
func (s *Schema) Normalize(raw model.RawRecord) (model.NormalizedRecord, error) {
	rec := make(model.NormalizedRecord, len(s.Fields))
	for _, f := range s.Fields {
		value := strings.TrimSpace(raw.Fields[f.Column])
		if value == "" {
			if f.Required {
				return nil, malformed(raw.Seq, f.Name, "required field is missing")
			}
			rec[f.Name] = f.zero()
			continue
		}
		if f.Length > 0 && utf8.RuneCountInString(value) != f.Length {
			return nil, malformed(raw.Seq, f.Name, fmt.Sprintf("must be exactly %d characters", f.Length))
		}
		switch f.Type {
		case TypeString:
			rec[f.Name] = value
		case TypeInt:
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, malformed(raw.Seq, f.Name, fmt.Sprintf("%q is not an integer", value))
			}
			rec[f.Name] = n
		case TypeFloat:
			n, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, malformed(raw.Seq, f.Name, fmt.Sprintf("%q is not a number", value))
			}
			rec[f.Name] = n
		case TypeCode:
			code, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, malformed(raw.Seq, f.Name, fmt.Sprintf("%q is not a numeric code", value))
			}
			label, ok := f.Codes[code]
			if !ok {
				label = UnknownLabel
			}
			rec[f.Name] = label
		}
	}
	return rec, nil
}

// zero returns the value an optional, absent field normalizes to.
func (f Field) zero() any {
	switch f.Type {
	case TypeInt:
		return int64(0)
	case TypeFloat:
		return float64(0)
	case TypeCode:
		return UnknownLabel
	default:
		return ""
	}
}

func malformed(seq int64, field, reason string) error {
	return &model.MalformedRecordError{Seq: seq, Field: field, Reason: reason}
}
