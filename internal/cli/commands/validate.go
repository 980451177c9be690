package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/fwf/pkg/config"
	"github.com/ccollicutt/fwf/pkg/record"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <layout>",
		Short: "Validate a layout file",
		Long: `Validate an fwf layout file without parsing any data.

Checks:
  - YAML syntax
  - Field names are unique and ranges are valid
  - Type names and fallbacks
  - Derived fields name a date field
  - Required fields exist

A builtin layout name prints the builtin's fields instead.`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	layoutPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", layoutPath)

	s, err := resolveLayout(ctx, layoutPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	v := s.Variant()

	fmt.Fprintf(w, "\nLayout valid!\n")
	fmt.Fprintf(w, "  Name:   %s\n", v.Name)
	fmt.Fprintf(w, "  Fields: %d\n", v.Fields.Len())
	fmt.Fprintf(w, "  Width:  %d bytes\n", v.Fields.Width())

	fmt.Fprintf(w, "\nFields:\n")
	for i, f := range v.Fields.Fields() {
		fmt.Fprintf(w, "  %d. %-20s %-10s %s\n", i+1, f.Name, f.Range, s.KindOf(f.Name))
	}

	if l, ok := s.(*config.Layout); ok {
		printHooks(w, l)
	}
	return nil
}

func printHooks(w io.Writer, l *config.Layout) {
	var pre, post []string
	if l.Skip.Blank {
		pre = append(pre, "skip blank lines")
	}
	if len(l.Skip.UnlessPrefix) > 0 {
		pre = append(pre, "skip lines not starting with "+strings.Join(l.Skip.UnlessPrefix, " or "))
	}
	if len(l.Skip.Prefix) > 0 {
		pre = append(pre, "skip lines starting with "+strings.Join(l.Skip.Prefix, " or "))
	}
	if l.Uppercase {
		pre = append(pre, "upper-case lines")
	}
	for _, tc := range l.Types {
		desc := fmt.Sprintf("%s as %s", tc.Field, tc.Type)
		if tc.Type == config.TypeDate {
			desc += fmt.Sprintf(" (%s)", tc.Layout)
		}
		if tc.Fallback != "" {
			desc += fmt.Sprintf(", fallback %q", tc.Fallback)
		}
		post = append(post, desc)
	}
	for _, d := range l.Derive {
		post = append(post, fmt.Sprintf("%s = years since %s (%s)", d.Name, d.YearsSince, record.KindNumber))
	}
	if len(l.Require) > 0 {
		post = append(post, "skip records with empty "+strings.Join(l.Require, ", "))
	}

	if len(pre) > 0 {
		fmt.Fprintf(w, "\nPre-parse:\n")
		for _, h := range pre {
			fmt.Fprintf(w, "  - %s\n", h)
		}
	}
	if len(post) > 0 {
		fmt.Fprintf(w, "\nPost-parse:\n")
		for _, h := range post {
			fmt.Fprintf(w, "  - %s\n", h)
		}
	}
}
