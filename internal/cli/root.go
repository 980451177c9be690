// Package cli provides the command-line interface for fwf.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/fwf/internal/cli/commands"
	"github.com/ccollicutt/fwf/internal/cli/logging"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	commands.ExitCode = 0

	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	var logCfg logging.Config

	rootCmd := &cobra.Command{
		Use:   "fwf",
		Short: "Query fixed-width text files",
		Long: `fwf parses fixed-width text files and queries their records.

A layout names each field and the byte range it occupies on a line. Layouts
are YAML files or one of the builtin layouts, and may skip lines, convert
fields to numbers, dates or booleans, and derive new fields.

Records can be filtered with Django-style lookups (field__operator=value),
excluded, ordered, sliced and projected onto a subset of fields.

Use 'fwf detect' to propose a layout for an unknown file and
'fwf diagnose' to check a layout against real data.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(logCfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logCfg.Level, "log-level", "warn", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logCfg.Format, "log-format", "text", "Log format (text|json)")

	// Add subcommands
	rootCmd.AddCommand(commands.NewQueryCommand())
	rootCmd.AddCommand(commands.NewShowCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
