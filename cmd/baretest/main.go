// Command baretest validates test packages and generates their
// test-build entry points.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/baretest/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands print their own errors; ExitError only carries the
		// code. Anything else (flag parse errors) still needs printing.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
