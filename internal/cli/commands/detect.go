package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/fwf/pkg/config"
	"github.com/ccollicutt/fwf/pkg/detector"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	Name        string
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <file>",
		Short: "Detect the columns of a fixed-width file",
		Long: `Sample a fixed-width file and propose a field map.

Byte columns that are blank on every sampled line separate fields. Each run
of non-blank columns becomes a candidate field named col_1, col_2, ...
Columns whose cells all look like dates, numbers or booleans get a type.

Optionally writes a starter layout with --write-config.

Example:
  fwf detect data.txt
  fwf detect --sample 500 data.txt
  fwf detect --write-config data.yaml --name people data.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", detector.DefaultSampleSize, "Number of lines to sample")
	cmd.Flags().StringVar(&opts.Name, "name", "", "Layout name for --write-config")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter layout to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	dataFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	if _, err := os.Stat(dataFile); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", dataFile)
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))
	result, err := d.DetectFromFile(ctx, dataFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	if opts.WriteConfig != "" {
		if err := writeStarterLayout(w, result, opts); err != nil {
			return err
		}
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(w, result, dataFile)
	default:
		outputDetectText(w, result, dataFile)
		return nil
	}
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, dataFile string) {
	fmt.Fprintln(w, "=== Column Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", dataFile)
	fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintf(w, "Widest line: %d bytes\n", result.Width)
	fmt.Fprintln(w)

	if !result.HasColumns() {
		fmt.Fprintln(w, "No columns detected.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: The file may be empty or every column may be blank.")
		return
	}

	fmt.Fprintf(w, "Columns: %d\n", len(result.Columns))
	for _, col := range result.Columns {
		kind := "string"
		if col.Format != nil {
			kind = fmt.Sprintf("%s (%s)", col.Format.Type, col.Format.Name)
		}
		fmt.Fprintf(w, "  %-8s %-10s %-28s sample: %q\n", col.Name, col.Range, kind, col.Sample)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "--- Layout snippet (copy to your layout file) ---")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "fields:")
	for _, col := range result.Columns {
		fmt.Fprintf(w, "  - {name: %s, start: %d, end: %d}\n", col.Name, col.Range.Start, col.Range.End)
	}
	fmt.Fprintln(w)
}

// JSONColumn represents a detected column in JSON output.
type JSONColumn struct {
	Name       string  `json:"name"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Type       string  `json:"type"`
	Format     string  `json:"format,omitempty"`
	Confidence float64 `json:"confidence"`
	Sample     string  `json:"sample"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File         string       `json:"file"`
	Columns      []JSONColumn `json:"columns"`
	SampledLines int          `json:"sampled_lines"`
	Width        int          `json:"width"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, dataFile string) error {
	out := JSONOutput{
		File:         dataFile,
		SampledLines: result.SampledLines,
		Width:        result.Width,
		Columns:      make([]JSONColumn, 0, len(result.Columns)),
	}

	for _, col := range result.Columns {
		jc := JSONColumn{
			Name:       col.Name,
			Start:      col.Range.Start,
			End:        col.Range.End,
			Type:       string(config.TypeString),
			Confidence: col.Confidence,
			Sample:     col.Sample,
		}
		if col.Format != nil {
			jc.Type = string(col.Format.Type)
			jc.Format = col.Format.Name
		}
		out.Columns = append(out.Columns, jc)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeStarterLayout writes the detected columns as a layout file.
func writeStarterLayout(w io.Writer, result *detector.DetectionResult, opts *DetectOptions) error {
	if _, err := os.Stat(opts.WriteConfig); err == nil {
		return fmt.Errorf("layout file already exists: %s (will not overwrite)", opts.WriteConfig)
	}

	if !result.HasColumns() {
		return fmt.Errorf("cannot generate layout: no columns detected")
	}

	l, err := result.Layout(opts.Name)
	if err != nil {
		return err
	}
	if err := config.WriteFile(opts.WriteConfig, l); err != nil {
		return err
	}

	fmt.Fprintf(w, "Wrote starter layout to: %s\n\n", opts.WriteConfig)
	return nil
}
