package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/baretest/internal/codegen"
	"github.com/roach88/baretest/internal/descriptor"
)

// GenerateResult holds the output of a generate run.
type GenerateResult struct {
	Path    string `json:"path"`    // file the entry point was written to
	Package string `json:"package"` // scanned package name
	Cases   int    `json:"cases"`   // number of test cases in the module
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "generate <package-dir>",
		Short: "Generate the test-build entry point for a package",
		Long: `Generate the entry point file for a test package.

Scans the package for role-tagged functions, validates the module and its
manifest, and writes ` + descriptor.GeneratedFileName + ` into the package
directory. The file carries a baretest build tag, so a normal build never
sees it. Validation failures abort generation; nothing is written.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(rootOpts, args[0], output, cmd)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the entry point to this path instead of the package directory")

	return cmd
}

func runGenerate(opts *RootOptions, dir, output string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
		TraceID:   opts.TraceID,
	}

	result, errs, err := LoadPackage(dir, formatter)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	if len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	path := output
	if path == "" {
		path = filepath.Join(result.Module.Dir, descriptor.GeneratedFileName)
	}
	formatter.VerboseLog("Generating entry point at %s", path)

	src, genErr := codegen.Generate(result.Module, result.Manifest)
	if genErr != nil {
		_ = formatter.Error("E001", genErr.Error(), nil)
		return NewExitError(ExitFailure, genErr.Error())
	}
	if writeErr := os.WriteFile(path, src, 0o644); writeErr != nil {
		_ = formatter.Error("E001", writeErr.Error(), nil)
		return NewExitError(ExitCommandError, writeErr.Error())
	}

	genResult := GenerateResult{
		Path:    path,
		Package: result.Module.Package,
		Cases:   len(result.Module.Cases),
	}

	if formatter.Format == "json" {
		return formatter.Success(genResult)
	}

	fmt.Fprintf(formatter.Writer, "✓ Wrote %s (%d case(s))\n", path, genResult.Cases)
	return nil
}
