package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/fwf/pkg/record"
)

// Load reads and validates a layout file.
func Load(_ context.Context, path string) (*Layout, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided layout path is expected
	if err != nil {
		return nil, fmt.Errorf("reading layout file: %w", err)
	}
	return Parse(data)
}

// Parse unmarshals and validates layout YAML. The document is checked
// against the layout schema before its values are.
func Parse(data []byte) (*Layout, error) {
	l := DefaultLayout()
	if err := yaml.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("parsing layout file: %w", err)
	}
	if err := checkSchema(data); err != nil {
		return nil, fmt.Errorf("parsing layout file: %w", err)
	}

	if err := Validate(l); err != nil {
		return nil, fmt.Errorf("validating layout: %w", err)
	}
	return l, nil
}

// Validate applies defaults, checks the layout and builds its field map.
func Validate(l *Layout) error {
	l.applyDefaults()

	if len(l.Fields) == 0 {
		return errors.New("fields: at least one field is required")
	}

	fields := make([]record.Field, len(l.Fields))
	for i, fc := range l.Fields {
		fields[i] = record.F(fc.Name, fc.Start, fc.End)
	}
	fm, err := record.NewFieldMap(fields...)
	if err != nil {
		return fmt.Errorf("fields: %w", err)
	}
	l.fieldMap = fm

	l.types = make(map[string]*TypeConfig, len(l.Types))
	for i := range l.Types {
		tc := &l.Types[i]
		if err := validateType(tc, fm); err != nil {
			return fmt.Errorf("types[%d] (%s): %w", i, tc.Field, err)
		}
		if _, dup := l.types[tc.Field]; dup {
			return fmt.Errorf("types[%d] (%s): field typed twice", i, tc.Field)
		}
		l.types[tc.Field] = tc
	}

	known := make(map[string]bool)
	for _, name := range fm.Names() {
		known[name] = true
	}
	for i, d := range l.Derive {
		if d.Name == "" {
			return fmt.Errorf("derive[%d]: name is required", i)
		}
		if known[d.Name] {
			return fmt.Errorf("derive[%d] (%s): %w", i, d.Name, record.ErrDuplicateField)
		}
		tc, ok := l.types[d.YearsSince]
		if !ok || tc.Type != TypeDate {
			return fmt.Errorf("derive[%d] (%s): years_since %q must name a date field", i, d.Name, d.YearsSince)
		}
		known[d.Name] = true
	}

	for i, name := range l.Require {
		if !known[name] {
			return fmt.Errorf("require[%d]: %w: %q", i, record.ErrUnknownField, name)
		}
	}
	return nil
}

func validateType(tc *TypeConfig, fm *record.FieldMap) error {
	if _, ok := fm.Lookup(tc.Field); !ok {
		return fmt.Errorf("%w: %q", record.ErrUnknownField, tc.Field)
	}

	switch tc.Type {
	case TypeString, TypeNumber, TypeDate, TypeBool:
	default:
		return fmt.Errorf("invalid type %q (must be string, number, date, or bool)", tc.Type)
	}

	if tc.Fallback == "" {
		return nil
	}
	var (
		v   record.Value
		err error
	)
	if tc.Type == TypeDate {
		v, err = convert(TypeDate, FallbackDateLayout, tc.Fallback)
	} else {
		v, err = convert(tc.Type, tc.Layout, tc.Fallback)
	}
	if err != nil {
		return fmt.Errorf("invalid fallback: %w", err)
	}
	tc.fallback = &v
	return nil
}

// convert turns field text into a value of the given type.
func convert(t FieldType, layout, text string) (record.Value, error) {
	switch t {
	case TypeNumber:
		return record.ParseNumber(text)
	case TypeDate:
		ts, err := time.Parse(layout, text)
		if err != nil {
			return record.Value{}, fmt.Errorf("%w: %v", record.ErrTypeMismatch, err)
		}
		return record.Date(ts), nil
	case TypeBool:
		b, err := cast.ToBoolE(strings.TrimSpace(text))
		if err != nil {
			return record.Value{}, fmt.Errorf("%w: %v", record.ErrTypeMismatch, err)
		}
		return record.Bool(b), nil
	default:
		return record.String(text), nil
	}
}

// WriteFile saves the layout as YAML. It refuses to replace an existing file.
func WriteFile(path string, l *Layout) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("encoding layout: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600) // #nosec G304 -- user-provided output path is expected
	if err != nil {
		return fmt.Errorf("creating layout file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing layout file: %w", err)
	}
	return f.Close()
}
