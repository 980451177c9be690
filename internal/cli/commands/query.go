package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/fwf/internal/cli/logging"
	"github.com/ccollicutt/fwf/pkg/output"
	"github.com/ccollicutt/fwf/pkg/parser"
	"github.com/ccollicutt/fwf/pkg/query"
)

// QueryOptions holds command-line options for the query command.
type QueryOptions struct {
	Output  string
	Filters []string
	Exclude []string
	OrderBy string
	Reverse bool
	Fields  []string
	Unique  bool
	Count   bool
	Offset  int
	Limit   int
	Verbose bool
	Quiet   bool
	Jobs    int
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query <layout> <file>...",
		Short: "Filter, sort and project records of fixed-width files",
		Long: `Parse fixed-width files with a layout and query their records.

The layout is a YAML layout file or the name of a builtin layout.
Files may be globs; records of several files are concatenated in order.

Lookups use field__operator=value:
  eq (default), ne, lt, lte, gt, gte, in, contains, startswith, endswith, len
  string predicates such as isdigit, isupper, istitle (value true|false)
  date attributes such as year, month, day, weekday

All --filter lookups must match for a record to be kept. A record is
dropped by --exclude when any of the exclude lookups match.

Exit codes:
  0 - At least one record matched
  1 - No record matched
  2 - Configuration or runtime error

Example:
  fwf query humans.yaml humans.txt --filter state=TX --fields name,age
  fwf query enhanced-human humans.txt --filter age__gte=18 --order-by age -r
  fwf query proh.yaml 'data/PROH*' --filter cod_neg__startswith=PETR --unique --fields event_type`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringArrayVarP(&opts.Filters, "filter", "f", nil, "Keep records matching field__op=value (can be repeated)")
	cmd.Flags().StringArrayVarP(&opts.Exclude, "exclude", "x", nil, "Drop records matching field__op=value (can be repeated)")
	cmd.Flags().StringVar(&opts.OrderBy, "order-by", "", "Sort records by field")
	cmd.Flags().BoolVarP(&opts.Reverse, "reverse", "r", false, "Reverse the sort order")
	cmd.Flags().StringSliceVar(&opts.Fields, "fields", nil, "Fields to print, in order (default all)")
	cmd.Flags().BoolVar(&opts.Unique, "unique", false, "Print distinct rows only")
	cmd.Flags().BoolVar(&opts.Count, "count", false, "Print the number of matching records only")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "Skip the first n records")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Print at most n records (0 for all)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Print a row count after the table")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Print the row count only")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "Files to parse at once (0 for one per CPU)")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.FromContext(ctx)

	formatter, err := output.New(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet || opts.Count,
	})
	if err != nil {
		return err
	}

	layout, err := resolveLayout(ctx, args[0])
	if err != nil {
		return err
	}
	filters, err := parseLookups(opts.Filters, layout)
	if err != nil {
		return fmt.Errorf("parsing filters: %w", err)
	}
	excludes, err := parseLookups(opts.Exclude, layout)
	if err != nil {
		return fmt.Errorf("parsing excludes: %w", err)
	}

	files, err := parser.ExpandGlobs(args[1:])
	if err != nil {
		return fmt.Errorf("expanding files: %w", err)
	}

	loaded, err := parser.OpenAll(ctx, files, layout.Variant(), opts.Jobs, parser.WithLogger(logger))
	if err != nil {
		return err
	}

	qs, err := applyQuery(parser.Concat(loaded...), filters, excludes, opts)
	if err != nil {
		return err
	}

	var list *query.ValuesList
	if opts.Unique {
		list, err = qs.Unique(opts.Fields...)
	} else {
		list, err = qs.Values(opts.Fields...)
	}
	if err != nil {
		return fmt.Errorf("projecting fields: %w", err)
	}
	logger.Debug("query done", "files", len(files), "matched", qs.Count(), "rows", list.Len())

	if err := formatter.Format(ctx, list, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if list.Len() == 0 {
		ExitCode = 1
	}
	return nil
}

func applyQuery(qs *query.QuerySet, filters, excludes []query.Lookup, opts *QueryOptions) (*query.QuerySet, error) {
	var err error
	if len(filters) > 0 {
		if qs, err = qs.FilterBy(filters...); err != nil {
			return nil, fmt.Errorf("filtering: %w", err)
		}
	}
	if len(excludes) > 0 {
		if qs, err = qs.ExcludeBy(excludes...); err != nil {
			return nil, fmt.Errorf("excluding: %w", err)
		}
	}
	if opts.OrderBy != "" {
		if qs, err = qs.OrderBy(opts.OrderBy, opts.Reverse); err != nil {
			return nil, fmt.Errorf("ordering: %w", err)
		}
	}
	if opts.Offset < 0 || opts.Limit < 0 {
		return nil, fmt.Errorf("offset and limit must not be negative")
	}
	end := qs.Count()
	if opts.Limit > 0 {
		end = min(end, opts.Offset+opts.Limit)
	}
	return qs.Slice(opts.Offset, end), nil
}
