// Package hostio provides capability bindings for running a test build
// directly on the host: print_line writes to standard output and terminate
// exits the process.
//
// A manifest that names this package as its bindings provider produces a
// test binary whose report stream is its stdout. Success is still signaled
// only by the "all tests passed!" line; the exit status carries no
// information, since the terminator is the single exit path for passing and
// failing runs alike.
package hostio

import (
	"fmt"
	"os"

	"github.com/roach88/baretest"
)

// PrintLine writes one report line to standard output.
func PrintLine(text string) {
	fmt.Fprintln(os.Stdout, text)
}

// Terminate ends the process. It never returns.
func Terminate() {
	os.Exit(0)
}

// Bindings returns the host capability set.
func Bindings() baretest.Bindings {
	return baretest.Bindings{
		PrintLine: PrintLine,
		Terminate: Terminate,
	}
}
