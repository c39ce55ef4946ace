package baretest

// Report line protocol. These literals are stable: an external log reader
// keys off them, and success is signaled only by the presence of the final
// LineAllPassed before termination.
const (
	// LineOK follows a case whose outcome matched its expectation.
	LineOK = "OK"

	// LineFailed follows an expectation mismatch. The run ends here.
	LineFailed = "FAILED"

	// LineTrapFailed is emitted by the failure trap when a test body
	// raises an unrecoverable fault. The run ends here.
	LineTrapFailed = "TEST FAILED!"

	// LineAllPassed is emitted once, after the last case reported OK.
	LineAllPassed = "all tests passed!"

	// LineUnexpectedPass prefixes LineFailed when an expect-failure case
	// returned a pass outcome.
	LineUnexpectedPass = "expected failure, but the test passed"

	// LineUnexpectedFailure prefixes LineFailed when an ordinary case
	// returned a failure outcome.
	LineUnexpectedFailure = "expected pass, but the test failed"
)

// RunningLine formats the announcement line for a case. The name appears
// verbatim, backquoted.
func RunningLine(name string) string {
	return "running `" + name + "`..."
}
