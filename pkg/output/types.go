// Package output renders value lists and records as text tables or JSON.
package output

import (
	"fmt"

	"github.com/ccollicutt/fwf/pkg/record"
)

// Format names accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns the formatter registered under name.
func New(name string, opts FormatOptions) (Formatter, error) {
	switch name {
	case FormatText, "":
		return NewTextFormatter(opts), nil
	case FormatJSON:
		return NewJSONFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (must be text or json)", name)
	}
}

// Summary is the quiet-mode payload.
type Summary struct {
	Count int `json:"count"`
}

// field is one name/value pair of a record, in header order.
type field struct {
	Name  string
	Value record.Value
}

func recordFields(rec *record.Record) []field {
	headers := rec.Headers()
	out := make([]field, 0, len(headers))
	for _, h := range headers {
		v, _ := rec.Get(h)
		out = append(out, field{Name: h, Value: v})
	}
	return out
}
