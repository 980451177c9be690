package record

import (
	"errors"
	"fmt"
)

// Range is a half-open byte interval [Start, End) of a line.
type Range struct {
	Start int
	End   int
}

// Slice returns the bytes of line covered by r. Positions past the end of
// the line contribute nothing.
func (r Range) Slice(line string) string {
	start, end := r.Start, r.End
	if start > len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}
	return line[start:end]
}

// Width is the number of bytes r covers.
func (r Range) Width() int { return r.End - r.Start }

func (r Range) String() string { return fmt.Sprintf("[%d,%d)", r.Start, r.End) }

// Field is one named entry of a FieldMap.
type Field struct {
	Name  string
	Range Range
}

// F is shorthand for building a Field.
func F(name string, start, end int) Field {
	return Field{Name: name, Range: Range{Start: start, End: end}}
}

// FieldMap is an ordered, immutable mapping from field names to byte ranges.
// Ranges may overlap and need not cover the whole line.
type FieldMap struct {
	fields []Field
	index  map[string]int
}

// NewFieldMap builds a FieldMap, rejecting duplicate names and invalid ranges.
func NewFieldMap(fields ...Field) (*FieldMap, error) {
	m := &FieldMap{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if f.Name == "" {
			return nil, errors.New("field name is required")
		}
		if _, dup := m.index[f.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateField, f.Name)
		}
		if f.Range.Start < 0 || f.Range.End < f.Range.Start {
			return nil, fmt.Errorf("%w: %s %s", ErrInvalidRange, f.Name, f.Range)
		}
		m.index[f.Name] = len(m.fields)
		m.fields = append(m.fields, f)
	}
	return m, nil
}

// MustFieldMap is like NewFieldMap but panics on error. Intended for
// package-level layout definitions.
func MustFieldMap(fields ...Field) *FieldMap {
	m, err := NewFieldMap(fields...)
	if err != nil {
		panic(err)
	}
	return m
}

// Len returns the number of fields. A nil map has none.
func (m *FieldMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.fields)
}

// Names returns field names in map order.
func (m *FieldMap) Names() []string {
	names := make([]string, m.Len())
	for i := 0; i < m.Len(); i++ {
		names[i] = m.fields[i].Name
	}
	return names
}

// Fields returns a copy of the entries in map order.
func (m *FieldMap) Fields() []Field {
	if m == nil {
		return nil
	}
	return append([]Field(nil), m.fields...)
}

// Lookup returns the range of the named field.
func (m *FieldMap) Lookup(name string) (Range, bool) {
	if m == nil {
		return Range{}, false
	}
	i, ok := m.index[name]
	if !ok {
		return Range{}, false
	}
	return m.fields[i].Range, true
}

// Width returns the smallest line length that covers every range.
func (m *FieldMap) Width() int {
	width := 0
	for i := 0; i < m.Len(); i++ {
		if end := m.fields[i].Range.End; end > width {
			width = end
		}
	}
	return width
}
