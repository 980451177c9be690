package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/fwf/pkg/detector"
	"github.com/ccollicutt/fwf/pkg/record"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose    bool
	SampleSize int
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <layout> <file>",
		Short: "Check a layout against a data file",
		Long: `Check a layout against the head of a data file.

This command looks for common problems:
- Layout syntax and structure
- Data file existence and accessibility
- Lines shorter than the layout
- Lines rejected by hooks or failing to parse
- Fields that are empty on every record

Example:
  fwf diagnose humans.yaml humans.txt
  fwf diagnose -v humans.yaml humans.txt  # verbose output`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runDiagnose(ctx, cmd.OutOrStdout(), args[0], args[1], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", detector.DefaultSampleSize, "Number of lines to check")

	return cmd
}

func runDiagnose(ctx context.Context, w io.Writer, layoutArg, dataFile string, opts *DiagnoseOptions) error {
	results := []DiagnosticResult{}

	// 1. Load layout
	s, result := checkLayout(ctx, layoutArg)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, opts)
		return nil
	}

	// 2. Check data file
	result = checkDataFile(dataFile)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, opts)
		return nil
	}

	lines, err := sampleLines(dataFile, opts.SampleSize)
	if err != nil {
		results = append(results, DiagnosticResult{
			Check:   "Data Sample",
			Status:  "error",
			Message: fmt.Sprintf("Cannot read data file: %v", err),
		})
		printDiagnostics(w, results, opts)
		return nil
	}

	// 3. Line widths against the layout
	v := s.Variant()
	results = append(results, checkWidths(v, lines))

	// 4. Parse the sample
	records, result := checkParse(v, lines)
	results = append(results, result)

	// 5. Empty fields
	if len(records) > 0 {
		results = append(results, checkFieldFill(records))
	}

	printDiagnostics(w, results, opts)
	return nil
}

func checkLayout(ctx context.Context, arg string) (schema, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Layout",
	}

	s, err := resolveLayout(ctx, arg)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to load layout: %v", err)
		if strings.Contains(err.Error(), "yaml") {
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		}
		result.Suggests = append(result.Suggests,
			"Use 'fwf detect <file> --write-config layout.yaml' to generate a starter layout")
		return nil, result
	}

	v := s.Variant()
	result.Status = "ok"
	result.Message = fmt.Sprintf("Loaded layout %q", v.Name)
	result.Details = []string{
		fmt.Sprintf("Fields: %d", v.Fields.Len()),
		fmt.Sprintf("Width: %d bytes", v.Fields.Width()),
	}
	return s, result
}

func checkDataFile(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Data File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Data file not found: %s", path)
		result.Suggests = []string{"Check the file path is correct"}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access data file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}
	if info.Size() == 0 {
		result.Status = "warning"
		result.Message = "Data file is empty"
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkWidths(v *record.Variant, lines []string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Line Widths",
	}

	width := v.Fields.Width()
	short := 0
	for i, line := range lines {
		if len(line) < width {
			short++
			if short <= 3 {
				result.Details = append(result.Details,
					fmt.Sprintf("line %d: %d bytes: %s", i+1, len(line), truncate(line, 60)))
			}
		}
	}

	if short > 0 {
		result.Status = "warning"
		result.Message = fmt.Sprintf("%d of %d lines are shorter than the layout (%d bytes)", short, len(lines), width)
		result.Suggests = []string{"Fields past the end of a line are read as empty strings"}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("All %d sampled lines cover the layout (%d bytes)", len(lines), width)
	return result
}

func checkParse(v *record.Variant, lines []string) ([]*record.Record, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Parsing",
	}

	var records []*record.Record
	rejected := 0
	for i, line := range lines {
		res, err := v.Parse(line, i+1)
		if err != nil {
			result.Status = "error"
			result.Message = fmt.Sprintf("line %d: %v", i+1, err)
			result.Suggests = []string{"Add a fallback to the field's types entry, or fix the data"}
			return nil, result
		}
		rec, ok := res.Record()
		if !ok {
			rejected++
			continue
		}
		records = append(records, rec)
	}

	result.Details = []string{
		fmt.Sprintf("Accepted: %d", len(records)),
		fmt.Sprintf("Rejected by hooks: %d", rejected),
	}
	if len(lines) > 0 && len(records) == 0 {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Every one of the %d sampled lines was rejected", len(lines))
		result.Suggests = []string{"Check the layout's skip and require rules"}
		return nil, result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("%d of %d sampled lines parsed", len(records), len(lines))
	return records, result
}

func checkFieldFill(records []*record.Record) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Field Values",
	}

	headers := records[0].Headers()
	var empty []string
	for _, h := range headers {
		filled := 0
		for _, rec := range records {
			if v, err := rec.Get(h); err == nil && !v.IsEmpty() {
				filled++
			}
		}
		if filled == 0 {
			empty = append(empty, h)
		}
		result.Details = append(result.Details, fmt.Sprintf("%s: %d/%d non-empty", h, filled, len(records)))
	}

	if len(empty) > 0 {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Always empty: %s", strings.Join(empty, ", "))
		result.Suggests = []string{"Check the field's start and end offsets"}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("All %d fields have values", len(headers))
	return result
}

func sampleLines(path string, n int) ([]string, error) {
	// #nosec G304 - path is provided by user via CLI
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if n <= 0 {
		n = detector.DefaultSampleSize
	}
	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() && len(lines) < n {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Fprintln(w, "=== fwf Layout Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Fprintln(w, "\nFix the errors above before querying.")
		ExitCode = 2
	} else if warnCount > 0 {
		fmt.Fprintln(w, "\nLayout is usable but has warnings.")
	} else {
		fmt.Fprintln(w, "\nLayout looks good!")
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
