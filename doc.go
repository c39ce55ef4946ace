// Package baretest is the runtime half of a test harness for programs that
// target a memory-constrained guest machine with no operating system.
//
// On such a target there is no console, no heap-backed test runner, and no
// stack unwinding: a failed check cannot be caught and resumed. The harness
// therefore runs every test module fail-fast. The first failure prints a
// fixed report line and ends the whole process through the terminate
// capability; no later test runs.
//
// ARCHITECTURE:
//
// The harness is split between build time and run time.
//
// Build time (cmd/baretest): a scanner collects the role-tagged functions of
// a package (init, before_each, after_each, test), a validator rejects
// malformed modules before any code exists, and a generator emits a single
// entry-point routine that replaces the program's normal startup when the
// build carries the "baretest" tag.
//
// Run time (this package): the generated entry point calls Run with the
// module and the two capability bindings the host supplies - a line printer
// and a terminator. Run sequences hooks and test bodies strictly in
// declaration order on a single goroutine, compares each body's outcome
// against its expectation, and reports through the line printer only:
//
//	running `<name>`...
//	OK
//	FAILED
//	TEST FAILED!
//	all tests passed!
//
// The terminator is the only exit path. It is called exactly once per run,
// for success and failure alike, and by contract it never returns.
//
// CRITICAL PATTERNS:
//
// Single Exit Path:
// Every terminal state ends in Terminate(). Code after a Terminate call is
// unreachable on a conforming host; a terminator that returns is a host bug
// and aborts the process.
//
// Deterministic Sequencing:
// Test cases run in declaration order. No reordering, no parallelism, no
// randomness. Re-running a module with side-effect-free bodies produces a
// byte-identical report stream.
//
// No Allocation At Run Time:
// The module structure is resolved before the run starts; sequencing itself
// allocates nothing beyond the report lines it formats.
package baretest
