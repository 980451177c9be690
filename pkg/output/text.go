package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ccollicutt/fwf/pkg/query"
	"github.com/ccollicutt/fwf/pkg/record"
)

// TextFormatter formats results as ASCII tables.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return FormatText
}

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// Format renders the list as a table with one column per header.
func (f *TextFormatter) Format(ctx context.Context, list *query.ValuesList, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.opts.Quiet {
		_, err := fmt.Fprintln(w, list.Len())
		return err
	}

	t := table.New().
		Border(lipgloss.ASCIIBorder()).
		StyleFunc(func(_, _ int) lipgloss.Style { return cellStyle }).
		Headers(list.Headers()...).
		Rows(list.Strings()...)

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	if f.opts.Verbose {
		_, err := fmt.Fprintf(w, "%d row(s)\n", list.Len())
		return err
	}
	return nil
}

// FormatRecord prints the record as an aligned "name : value" block under
// its line number.
func (f *TextFormatter) FormatRecord(ctx context.Context, rec *record.Record, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fields := recordFields(rec)
	width := 0
	for _, fd := range fields {
		width = max(width, len(fd.Name))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "line %d\n", rec.LineNumber())
	for _, fd := range fields {
		fmt.Fprintf(&b, "  %-*s : %s\n", width, fd.Name, fd.Value)
	}
	if f.opts.Verbose {
		fmt.Fprintf(&b, "  %-*s : %q\n", width, "(raw)", rec.Line())
	}

	_, err := io.WriteString(w, b.String())
	return err
}
