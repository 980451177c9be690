// Package record turns fixed-width text lines into named, typed field values.
package record

import (
	"fmt"
	"strings"
	"unicode"
)

// Record is one parsed line. It is read-only once returned by Variant.Parse.
type Record struct {
	line    string
	lineNum int
	headers []string
	values  map[string]Value
}

// Line returns the original, unmodified line text.
func (r *Record) Line() string { return r.line }

// LineNumber returns the 1-based line number, or 0 when none was given.
func (r *Record) LineNumber() int { return r.lineNum }

// Headers returns the active field names in order.
func (r *Record) Headers() []string { return append([]string(nil), r.headers...) }

// Len returns the number of active fields.
func (r *Record) Len() int { return len(r.headers) }

// Get returns the value of the named field.
func (r *Record) Get(name string) (Value, error) {
	v, ok := r.values[name]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return v, nil
}

// Has reports whether the record carries the named field.
func (r *Record) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Values returns the values of the named fields, or of every header when no
// name is given.
func (r *Record) Values(names ...string) ([]Value, error) {
	if len(names) == 0 {
		names = r.headers
	}
	out := make([]Value, len(names))
	for i, name := range names {
		v, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Fields is the mutable view of a record handed to post-parse hooks.
type Fields struct {
	rec  *Record
	text string
}

// Line returns the working line the fields were extracted from. This is
// the pre-parse output, which may differ from Record.Line.
func (f *Fields) Line() string { return f.text }

// LineNumber returns the line number being parsed.
func (f *Fields) LineNumber() int { return f.rec.lineNum }

// Get returns the current value of a field.
func (f *Fields) Get(name string) (Value, bool) {
	v, ok := f.rec.values[name]
	return v, ok
}

// Text returns the field as a string, or "" when it is missing or not text.
func (f *Fields) Text(name string) string {
	v, _ := f.Get(name)
	s, _ := v.Text()
	return s
}

// Set assigns a field. A name not seen before is appended to the header
// list so it shows up in default projections.
func (f *Fields) Set(name string, v Value) {
	if _, ok := f.rec.values[name]; !ok {
		f.rec.headers = append(f.rec.headers, name)
	}
	f.rec.values[name] = v
}

// Headers returns the current header list.
func (f *Fields) Headers() []string { return f.rec.Headers() }

// PreParseFunc runs before extraction. It returns the working line to slice,
// or keep=false to drop the line.
type PreParseFunc func(line string) (text string, keep bool, err error)

// PostParseFunc runs after extraction. It may rewrite or add fields, or
// return keep=false to drop the line.
type PostParseFunc func(f *Fields) (keep bool, err error)

// Result is the outcome of parsing one line: either an accepted record or a
// rejection.
type Result struct {
	rec *Record
}

// Accepted wraps a parsed record.
func Accepted(r *Record) Result { return Result{rec: r} }

// Rejected is the result of a line dropped by a hook.
var Rejected = Result{}

// Record returns the parsed record and true, or nil and false when rejected.
func (r Result) Record() (*Record, bool) { return r.rec, r.rec != nil }

// IsRejected reports whether the line was dropped.
func (r Result) IsRejected() bool { return r.rec == nil }

// Variant describes one kind of fixed-width line: its field map and optional
// hooks. A Variant is shared read-only by every record it produces.
type Variant struct {
	Name      string
	Fields    *FieldMap
	PreParse  PreParseFunc
	PostParse PostParseFunc
}

// BaseVariant returns the pass-through variant with no fields.
func BaseVariant() *Variant {
	return &Variant{Name: "base", Fields: MustFieldMap()}
}

// Parse builds a record from line. Hooks run once each, pre-parse first.
// A hook error is returned as-is and is fatal to the caller; rejection is
// reported through the Result instead.
func (v *Variant) Parse(line string, lineNum int) (Result, error) {
	text := line
	if v.PreParse != nil {
		rewritten, keep, err := v.PreParse(line)
		if err != nil {
			return Rejected, fmt.Errorf("pre-parse: %w", err)
		}
		if !keep {
			return Rejected, nil
		}
		text = rewritten
	}

	rec := &Record{
		line:    line,
		lineNum: lineNum,
		headers: v.Fields.Names(),
		values:  make(map[string]Value, v.Fields.Len()),
	}
	for _, f := range v.Fields.Fields() {
		rec.values[f.Name] = String(trimRight(f.Range.Slice(text)))
	}

	if v.PostParse != nil {
		keep, err := v.PostParse(&Fields{rec: rec, text: text})
		if err != nil {
			return Rejected, fmt.Errorf("post-parse: %w", err)
		}
		if !keep {
			return Rejected, nil
		}
	}
	return Accepted(rec), nil
}

// Headers returns the field names every record starts with.
func (v *Variant) Headers() []string { return v.Fields.Names() }

func trimRight(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// ChainPre runs pre-parse hooks in order, feeding each the previous output.
// The first rejection or error stops the chain.
func ChainPre(hooks ...PreParseFunc) PreParseFunc {
	return func(line string) (string, bool, error) {
		for _, h := range hooks {
			var keep bool
			var err error
			line, keep, err = h(line)
			if err != nil || !keep {
				return line, keep, err
			}
		}
		return line, true, nil
	}
}

// ChainPost runs post-parse hooks in order. The first rejection or error
// stops the chain.
func ChainPost(hooks ...PostParseFunc) PostParseFunc {
	return func(f *Fields) (bool, error) {
		for _, h := range hooks {
			keep, err := h(f)
			if err != nil || !keep {
				return keep, err
			}
		}
		return true, nil
	}
}
