package output

import (
	"context"
	"io"

	"github.com/ccollicutt/fwf/pkg/query"
	"github.com/ccollicutt/fwf/pkg/record"
)

// Formatter renders query results in a specific format.
type Formatter interface {
	// Format renders a projection to the given writer.
	Format(ctx context.Context, list *query.ValuesList, w io.Writer) error

	// FormatRecord renders a single record with every field.
	FormatRecord(ctx context.Context, rec *record.Record, w io.Writer) error

	// Name returns the format name (text, json).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose adds a row count after the table.
	Verbose bool

	// Quiet prints only the number of rows.
	Quiet bool
}
