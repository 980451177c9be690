// Package detector proposes a field map for an unknown fixed-width file by
// looking for byte columns that are blank on every sampled line.
package detector

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ccollicutt/fwf/pkg/config"
	"github.com/ccollicutt/fwf/pkg/record"
)

// DefaultSampleSize is the number of lines read when no size is given.
const DefaultSampleSize = 100

// DetectionResult holds the columns found in a sample.
type DetectionResult struct {
	Columns      []Column // Candidate fields, left to right
	SampledLines int      // Number of non-blank lines sampled
	Width        int      // Longest sampled line in bytes
}

// Column is one run of bytes that is non-blank on at least one line.
type Column struct {
	Name       string
	Range      record.Range
	Format     *ValueFormat // nil when cells are plain text
	Confidence float64      // Best share of sampled lines matching one format
	Sample     string       // First non-empty cell
}

// Detector samples files and finds their columns.
type Detector struct {
	formats    []*ValueFormat
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector with default formats.
func New(opts ...Option) *Detector {
	d := &Detector{
		formats:    DefaultFormats(),
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile samples the head of a file and returns its columns.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines finds the columns of the given lines. Blank lines are
// ignored.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{}

	var sample []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		sample = append(sample, line)
		result.Width = max(result.Width, len(line))
	}
	result.SampledLines = len(sample)
	if len(sample) == 0 {
		return result
	}

	occupied := make([]bool, result.Width)
	for _, line := range sample {
		for i := 0; i < len(line); i++ {
			if line[i] != ' ' && line[i] != '\t' {
				occupied[i] = true
			}
		}
	}

	start := -1
	for i := 0; i <= result.Width; i++ {
		filled := i < result.Width && occupied[i]
		switch {
		case filled && start < 0:
			start = i
		case !filled && start >= 0:
			result.Columns = append(result.Columns, d.column(len(result.Columns)+1, record.Range{Start: start, End: i}, sample))
			start = -1
		}
	}
	return result
}

func (d *Detector) column(n int, r record.Range, sample []string) Column {
	col := Column{Name: fmt.Sprintf("col_%d", n), Range: r}

	var cells []string
	for _, line := range sample {
		cell := strings.TrimSpace(r.Slice(line))
		if cell == "" {
			continue
		}
		if col.Sample == "" {
			col.Sample = cell
		}
		cells = append(cells, cell)
	}
	if len(cells) == 0 {
		return col
	}

	// A format is only proposed when it fits every sampled line. A column
	// that is sometimes empty stays text, since converting it would fail.
	for _, f := range d.formats {
		matched := 0
		for _, cell := range cells {
			if f.Match(cell) {
				matched++
			}
		}
		if matched == len(sample) {
			col.Format = f
			col.Confidence = 1
			break
		}
		col.Confidence = max(col.Confidence, float64(matched)/float64(len(sample)))
	}
	return col
}

// sampleFile reads up to sampleSize non-blank lines from a file.
func (d *Detector) sampleFile(ctx context.Context, path string) ([]string, error) {
	// #nosec G304 - path is provided by user via CLI
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() && len(lines) < d.sampleSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Text()
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// HasColumns returns true if at least one column was found.
func (r *DetectionResult) HasColumns() bool {
	return len(r.Columns) > 0
}

// Layout turns the result into a validated starter layout. Typed columns
// get a types entry; everything else stays a string.
func (r *DetectionResult) Layout(name string) (*config.Layout, error) {
	l := config.DefaultLayout()
	if name != "" {
		l.Name = name
	}
	l.Skip.Blank = true

	for _, col := range r.Columns {
		l.Fields = append(l.Fields, config.FieldConfig{Name: col.Name, Start: col.Range.Start, End: col.Range.End})
		if col.Format == nil {
			continue
		}
		tc := config.TypeConfig{Field: col.Name, Type: col.Format.Type}
		if col.Format.Type == config.TypeDate {
			tc.Layout = col.Format.Layout
		}
		l.Types = append(l.Types, tc)
	}

	if err := config.Validate(l); err != nil {
		return nil, fmt.Errorf("building layout: %w", err)
	}
	return l, nil
}
