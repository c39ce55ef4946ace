package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/baretest"
	"github.com/roach88/baretest/internal/descriptor"
)

// PlanCase is one test case in a resolved execution plan.
type PlanCase struct {
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	ExpectFailure bool   `json:"expect_failure,omitempty"`
}

// Plan is the resolved execution plan for a test package: the hook
// symbols, the cases in declaration order, and the exact line stream a
// fully passing run produces.
type Plan struct {
	Package       string     `json:"package"`
	Init          string     `json:"init,omitempty"`
	BeforeEach    string     `json:"before_each,omitempty"`
	AfterEach     string     `json:"after_each,omitempty"`
	Cases         []PlanCase `json:"cases"`
	SuccessStream []string   `json:"success_stream"`
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <package-dir>",
		Short: "Show the resolved execution plan for a test package",
		Long: `Show what a test build of the package would run.

Prints the hooks, the cases in declaration order, and the exact report
lines a fully passing run emits. The package is validated first; an
invalid package has no plan.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runPlan(opts *RootOptions, dir string, cmd *cobra.Command) error {
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

	plan := BuildPlan(result.Module)

	if formatter.Format == "json" {
		return formatter.Success(plan)
	}

	fmt.Fprintf(formatter.Writer, "package %s\n", plan.Package)
	if plan.Init != "" {
		fmt.Fprintf(formatter.Writer, "  init        %s\n", plan.Init)
	}
	if plan.BeforeEach != "" {
		fmt.Fprintf(formatter.Writer, "  before_each %s\n", plan.BeforeEach)
	}
	if plan.AfterEach != "" {
		fmt.Fprintf(formatter.Writer, "  after_each  %s\n", plan.AfterEach)
	}
	fmt.Fprintln(formatter.Writer)
	for i, c := range plan.Cases {
		marker := ""
		if c.ExpectFailure {
			marker = " (expects failure)"
		}
		fmt.Fprintf(formatter.Writer, "  %2d. %s -> %s%s\n", i+1, c.Name, c.Symbol, marker)
	}
	fmt.Fprintln(formatter.Writer)
	fmt.Fprintln(formatter.Writer, "success stream:")
	for _, line := range plan.SuccessStream {
		fmt.Fprintf(formatter.Writer, "  %s\n", line)
	}
	return nil
}

// BuildPlan resolves a validated module into its execution plan. The
// success stream mirrors the runner's output for a run where every case
// matches its expectation.
func BuildPlan(m *descriptor.Module) *Plan {
	plan := &Plan{Package: m.Package}

	if len(m.Init) > 0 {
		plan.Init = m.Init[0].Symbol
	}
	if len(m.BeforeEach) > 0 {
		plan.BeforeEach = m.BeforeEach[0].Symbol
	}
	if len(m.AfterEach) > 0 {
		plan.AfterEach = m.AfterEach[0].Symbol
	}

	for _, c := range m.Cases {
		plan.Cases = append(plan.Cases, PlanCase{
			Name:          c.Name,
			Symbol:        c.Symbol,
			ExpectFailure: c.ExpectFailure,
		})
		plan.SuccessStream = append(plan.SuccessStream,
			baretest.RunningLine(c.Name),
			baretest.LineOK,
		)
	}
	plan.SuccessStream = append(plan.SuccessStream, baretest.LineAllPassed)

	return plan
}
