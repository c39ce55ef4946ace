package baretest

// trap is the process-wide handler for unrecoverable faults raised while a
// hook or test body runs. The target environment offers no stack unwinding,
// so a triggered failure cannot be caught and resumed: the trap reports the
// fixed failure line and ends the whole run.
//
// The trap is not re-entrant by construction. Its own execution always ends
// the process, so it can only ever fire once.
type trap struct {
	bindings Bindings
}

// fire emits LineTrapFailed and terminates. It never returns.
func (t *trap) fire() {
	t.bindings.PrintLine(LineTrapFailed)
	t.bindings.Terminate()
	mustNotReturn()
}

// protect invokes a test body with the trap armed. A fault raised by the
// body fires the trap; control never comes back to the sequencing routine
// in that case.
func (t *trap) protect(body Body) error {
	defer func() {
		if r := recover(); r != nil {
			t.fire()
		}
	}()
	return body()
}

// guard invokes a lifecycle hook with the trap armed. The trap is installed
// for the whole run, so a fault in init, before_each or after_each is just
// as fatal as one in a test body.
func (t *trap) guard(hook Hook) {
	defer func() {
		if r := recover(); r != nil {
			t.fire()
		}
	}()
	hook()
}

// mustNotReturn aborts the process when a terminator hands control back.
// The terminate capability is contractually `never`-returning; a host that
// violates that would otherwise let harness code run after the run ended.
func mustNotReturn() {
	panic("baretest: terminate binding returned")
}
