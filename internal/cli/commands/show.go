package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/fwf/internal/cli/logging"
	"github.com/ccollicutt/fwf/pkg/output"
	"github.com/ccollicutt/fwf/pkg/parser"
)

// ShowOptions holds command-line options for the show command.
type ShowOptions struct {
	Output  string
	Verbose bool
}

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	opts := &ShowOptions{}

	cmd := &cobra.Command{
		Use:   "show <layout> <file> <index>",
		Short: "Print one record with every field",
		Long: `Print the record at a position among the accepted records of a file.

Index 0 is the first record; negative indexes count from the end.

Example:
  fwf show humans.yaml humans.txt 0
  fwf show enhanced-human humans.txt -- -1`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Also print the raw line")

	return cmd
}

func runShow(cmd *cobra.Command, args []string, opts *ShowOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	index, err := cast.ToIntE(args[2])
	if err != nil {
		return fmt.Errorf("invalid index %q: %w", args[2], err)
	}

	formatter, err := output.New(opts.Output, output.FormatOptions{Verbose: opts.Verbose})
	if err != nil {
		return err
	}

	layout, err := resolveLayout(ctx, args[0])
	if err != nil {
		return err
	}
	f, err := parser.Open(ctx, args[1], layout.Variant(), parser.WithLogger(logging.FromContext(ctx)))
	if err != nil {
		return err
	}

	rec, err := f.At(index)
	if err != nil {
		return fmt.Errorf("%s has %d records: %w", args[1], f.Count(), err)
	}
	return formatter.FormatRecord(ctx, rec, cmd.OutOrStdout())
}
