package output

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/ccollicutt/fwf/pkg/query"
	"github.com/ccollicutt/fwf/pkg/record"
)

// JSONFormatter formats results as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return FormatJSON
}

// Format renders a flat list as an array of values and any other list as
// an array of objects keyed by header.
func (f *JSONFormatter) Format(ctx context.Context, list *query.ValuesList, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if f.opts.Quiet {
		return encoder.Encode(Summary{Count: list.Len()})
	}

	if list.Flat() {
		return encoder.Encode(list.Scalars())
	}

	headers := list.Headers()
	rows := make([]object, 0, list.Len())
	for _, row := range list.Rows() {
		obj := make(object, len(row))
		for i, v := range row {
			obj[i] = field{Name: headers[i], Value: v}
		}
		rows = append(rows, obj)
	}
	return encoder.Encode(rows)
}

// FormatRecord renders the record as {"line": n, "fields": {...}}.
func (f *JSONFormatter) FormatRecord(ctx context.Context, rec *record.Record, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(struct {
		Line   int    `json:"line"`
		Fields object `json:"fields"`
	}{
		Line:   rec.LineNumber(),
		Fields: recordFields(rec),
	})
}

// object is a JSON object that keeps its keys in header order.
type object []field

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fd := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(fd.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(fd.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
