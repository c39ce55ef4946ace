// Package cli implements the baretest host tool: scanning a package for
// role-tagged test functions, validating the declared module against its
// manifest, and generating the entry point that replaces program startup
// in a test build.
package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	TraceID string // stamped on JSON responses, one per invocation
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the baretest CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{TraceID: uuid.NewString()}

	cmd := &cobra.Command{
		Use:   "baretest",
		Short: "baretest - test harness generator for OS-less targets",
		Long: `baretest generates the test-build entry point for a package of
role-tagged test functions. The generated program reports through two
host-supplied capabilities (a line printer and a terminator) and aborts
the whole run on the first failure.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewPlanCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
