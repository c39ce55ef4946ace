package baretest

// Outcome is the result of a completed test body. A body that raises a
// fault never produces an Outcome; the failure trap short-circuits the run
// before the comparison happens.
type Outcome int

const (
	// Passed means the body returned a nil error.
	Passed Outcome = iota

	// Failed means the body returned a failure outcome.
	Failed
)

// String returns the outcome name for diagnostics.
func (o Outcome) String() string {
	if o == Passed {
		return "passed"
	}
	return "failed"
}

// Verdict is the result of comparing an actual outcome against a case's
// expectation. It carries no control flow: the sequencing routine and the
// failure trap own the only two exit paths.
type Verdict struct {
	// Match is true when the outcome met the expectation.
	Match bool

	// Prefix is the distinguishing line emitted before LineFailed on a
	// mismatch. Empty when Match is true.
	//
	// The convention is symmetric: both mismatch directions get a prefix
	// (an expect-failure case that passed, and an ordinary case that
	// failed), so a log reader can always tell which way a comparison
	// went wrong.
	Prefix string
}

// Compare evaluates a body's outcome against the case's expect-failure
// flag. Pure: it never prints and never terminates.
func Compare(actual Outcome, expectFailure bool) Verdict {
	if expectFailure {
		if actual == Failed {
			return Verdict{Match: true}
		}
		return Verdict{Prefix: LineUnexpectedPass}
	}
	if actual == Passed {
		return Verdict{Match: true}
	}
	return Verdict{Prefix: LineUnexpectedFailure}
}

// outcomeOf maps a body's return value to an Outcome.
func outcomeOf(err error) Outcome {
	if err != nil {
		return Failed
	}
	return Passed
}
