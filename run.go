package baretest

// Run executes a test module against the supplied capability bindings. It
// is the body of the generated entry point: in a test build it is the only
// code that ever runs after startup.
//
// Run validates the module and bindings first and returns an error if
// either is malformed; nothing has been printed at that point. The
// generator performs the same validation at build time, so a generated
// program never sees that path. Once sequencing starts, Run does not
// return: every terminal state ends in the terminate binding, which never
// hands control back.
//
// Sequencing, per case and strictly in declaration order:
//
//  1. print "running `<name>`..."
//  2. run before_each, if declared
//  3. invoke the body with the failure trap armed
//  4. compare the outcome against the case's expectation
//  5. on a match: print "OK", run after_each if declared, advance
//  6. on a mismatch: print the distinguishing prefix, print "FAILED",
//     terminate - after_each is skipped and no later case runs
//
// A fault raised inside a hook or body never reaches step 4: the trap
// prints "TEST FAILED!" and terminates. After the last case reports OK,
// Run prints "all tests passed!" and terminates.
func Run(m *Module, b Bindings) error {
	if err := b.validate(); err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}

	r := &runner{module: m, bindings: b, trap: &trap{bindings: b}}
	r.run()
	return nil // unreachable: run terminates
}

// runner sequences one run of one module. Single-goroutine by design; the
// target has no scheduler and the harness never needs one.
type runner struct {
	module   *Module
	bindings Bindings
	trap     *trap
}

func (r *runner) run() {
	if r.module.Init != nil {
		r.trap.guard(r.module.Init)
	}

	for _, c := range r.module.Cases {
		r.bindings.PrintLine(RunningLine(c.Name))

		if r.module.BeforeEach != nil {
			r.trap.guard(r.module.BeforeEach)
		}

		// A fault in the body fires the trap; control does not come
		// back here in that case.
		err := r.trap.protect(c.Body)

		verdict := Compare(outcomeOf(err), c.ExpectFailure)
		if !verdict.Match {
			r.abort(verdict)
		}

		r.bindings.PrintLine(LineOK)
		if r.module.AfterEach != nil {
			r.trap.guard(r.module.AfterEach)
		}
	}

	r.bindings.PrintLine(LineAllPassed)
	r.bindings.Terminate()
	mustNotReturn()
}

// abort ends the run on an expectation mismatch. It never returns.
func (r *runner) abort(v Verdict) {
	if v.Prefix != "" {
		r.bindings.PrintLine(v.Prefix)
	}
	r.bindings.PrintLine(LineFailed)
	r.bindings.Terminate()
	mustNotReturn()
}
