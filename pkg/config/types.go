// Package config loads YAML layout files that describe a fixed-width
// variant without Go code.
package config

import (
	"github.com/ccollicutt/fwf/pkg/record"
)

// Layout is the root structure of a layout file.
type Layout struct {
	Name      string         `yaml:"name"`
	Fields    []FieldConfig  `yaml:"fields"`
	Skip      SkipConfig     `yaml:"skip,omitempty"`
	Uppercase bool           `yaml:"uppercase,omitempty"`
	Types     []TypeConfig   `yaml:"types,omitempty"`
	Derive    []DeriveConfig `yaml:"derive,omitempty"`
	Require   []string       `yaml:"require,omitempty"`

	// populated during validation
	fieldMap *record.FieldMap
	types    map[string]*TypeConfig
}

// FieldConfig is one named half-open byte range.
type FieldConfig struct {
	Name  string `yaml:"name"`
	Start int    `yaml:"start"`
	End   int    `yaml:"end"`
}

// SkipConfig lists the pre-parse rejection rules. They are checked against
// the raw line.
type SkipConfig struct {
	Blank        bool     `yaml:"blank,omitempty"`
	UnlessPrefix []string `yaml:"unless_prefix,omitempty"`
	Prefix       []string `yaml:"prefix,omitempty"`
}

// IsZero reports whether no skip rule is set. yaml.v3 uses it for omitempty.
func (s SkipConfig) IsZero() bool {
	return !s.Blank && len(s.UnlessPrefix) == 0 && len(s.Prefix) == 0
}

// FieldType names the kind a field is coerced to after extraction.
type FieldType string

const (
	TypeString FieldType = "string"
	TypeNumber FieldType = "number"
	TypeDate   FieldType = "date"
	TypeBool   FieldType = "bool"
)

// TypeConfig coerces one extracted field.
type TypeConfig struct {
	Field string    `yaml:"field"`
	Type  FieldType `yaml:"type"`

	// Layout is the Go time layout for date fields.
	// Defaults to DefaultDateLayout.
	Layout string `yaml:"layout,omitempty"`

	// Fallback is used when the text does not convert. Dates are written
	// as FallbackDateLayout. Without a fallback a bad value fails the load.
	Fallback string `yaml:"fallback,omitempty"`

	fallback *record.Value
}

// DeriveConfig adds a computed field after coercion.
type DeriveConfig struct {
	Name string `yaml:"name"`

	// YearsSince names a date field; the derived value is the current year
	// minus the field's year.
	YearsSince string `yaml:"years_since"`
}

// Kind maps the field type to the record kind it produces.
func (t FieldType) Kind() record.Kind {
	switch t {
	case TypeNumber:
		return record.KindNumber
	case TypeDate:
		return record.KindDate
	case TypeBool:
		return record.KindBool
	default:
		return record.KindString
	}
}

// FieldMap returns the validated field map.
func (l *Layout) FieldMap() *record.FieldMap {
	return l.fieldMap
}

// KindOf reports the kind a field holds after post-parse hooks run.
// Unknown names report KindString.
func (l *Layout) KindOf(field string) record.Kind {
	if tc, ok := l.types[field]; ok {
		return tc.Type.Kind()
	}
	for _, d := range l.Derive {
		if d.Name == field {
			return record.KindNumber
		}
	}
	return record.KindString
}

// Headers lists the extracted fields followed by derived ones, in the order
// records carry them.
func (l *Layout) Headers() []string {
	names := l.fieldMap.Names()
	for _, d := range l.Derive {
		names = append(names, d.Name)
	}
	return names
}
