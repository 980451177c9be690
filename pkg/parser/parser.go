// Package parser loads fixed-width text files into queryable record sets.
package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ccollicutt/fwf/pkg/query"
	"github.com/ccollicutt/fwf/pkg/record"
)

// DefaultMaxLineSize is the longest line the scanner accepts.
const DefaultMaxLineSize = 1024 * 1024

// Option configures a load.
type Option func(*loader)

type loader struct {
	logger      *slog.Logger
	maxLineSize int
	source      string
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(ld *loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithMaxLineSize sets the longest accepted line in bytes.
func WithMaxLineSize(n int) Option {
	return func(ld *loader) {
		if n > 0 {
			ld.maxLineSize = n
		}
	}
}

// WithSource names the input in logs and errors.
func WithSource(name string) Option {
	return func(ld *loader) {
		ld.source = name
	}
}

// File is every accepted record of one input, parsed with one variant.
type File struct {
	variant *record.Variant
	root    *query.QuerySet
	source  string
	lines   int
	skipped int
}

// Open reads and parses the file at path.
func Open(ctx context.Context, path string, variant *record.Variant, opts ...Option) (*File, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return Load(ctx, f, variant, append([]Option{WithSource(path)}, opts...)...)
}

// Load parses every line of r. A nil variant uses record.BaseVariant.
// Lines rejected by a hook are left out; any other error aborts the load.
func Load(ctx context.Context, r io.Reader, variant *record.Variant, opts ...Option) (*File, error) {
	ld := &loader{
		logger:      slog.New(slog.DiscardHandler),
		maxLineSize: DefaultMaxLineSize,
		source:      "<input>",
	}
	for _, opt := range opts {
		opt(ld)
	}
	if variant == nil {
		variant = record.BaseVariant()
	}

	file := &File{variant: variant, source: ld.source}
	var records []*record.Record

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), ld.maxLineSize)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		file.lines++
		res, err := variant.Parse(scanner.Text(), file.lines)
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", ld.source, file.lines, err)
		}
		rec, ok := res.Record()
		if !ok {
			file.skipped++
			ld.logger.Debug("line skipped", "source", ld.source, "line", file.lines)
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", ld.source, err)
	}

	file.root = query.New(records, file)
	ld.logger.Info("file loaded",
		"source", ld.source,
		"variant", variant.Name,
		"lines", file.lines,
		"records", file.root.Count(),
		"skipped", file.skipped)
	return file, nil
}

// Variant returns the variant the file was parsed with.
func (f *File) Variant() *record.Variant { return f.variant }

// Source returns the path or name of the input.
func (f *File) Source() string { return f.source }

// LinesRead returns the number of physical lines read, including skipped ones.
func (f *File) LinesRead() int { return f.lines }

// Skipped returns the number of lines rejected by hooks.
func (f *File) Skipped() int { return f.skipped }

// Headers returns the variant's field names. It makes File the header
// source of its query sets.
func (f *File) Headers() []string { return f.variant.Headers() }

// All returns the root query set with every record.
func (f *File) All() *query.QuerySet { return f.root }

// Count returns the number of records.
func (f *File) Count() int { return f.root.Count() }

// Filter is All().Filter.
func (f *File) Filter(ls query.Lookups) (*query.QuerySet, error) {
	return f.fresh().Filter(ls)
}

// Exclude is All().Exclude.
func (f *File) Exclude(ls query.Lookups) (*query.QuerySet, error) {
	return f.fresh().Exclude(ls)
}

// OrderBy is All().OrderBy.
func (f *File) OrderBy(field string, reverse bool) (*query.QuerySet, error) {
	return f.fresh().OrderBy(field, reverse)
}

// Values is All().Values.
func (f *File) Values(fields ...string) (*query.ValuesList, error) {
	return f.fresh().Values(fields...)
}

// Unique is All().Unique.
func (f *File) Unique(fields ...string) (*query.ValuesList, error) {
	return f.fresh().Unique(fields...)
}

// At returns the i-th accepted record.
func (f *File) At(i int) (*record.Record, error) { return f.root.At(i) }

// Slice is All().Slice.
func (f *File) Slice(start, end int) *query.QuerySet { return f.fresh().Slice(start, end) }

func (f *File) fresh() *query.QuerySet {
	return query.New(f.root.Records(), f)
}

// Concat joins the records of several files in argument order.
func Concat(files ...*File) *query.QuerySet {
	sets := make([]*query.QuerySet, len(files))
	for i, f := range files {
		sets[i] = f.root
	}
	return query.Concat(sets...)
}
