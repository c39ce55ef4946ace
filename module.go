package baretest

import (
	"errors"
	"fmt"
)

// Bindings holds the two capability bindings the harness needs from its
// host: a line printer and a terminator. They are the only way the harness
// touches the outside world.
//
// Both bindings are mandatory. They are resolved once, before any test
// runs, and are never reassigned.
type Bindings struct {
	// PrintLine emits one line of report text. The harness never embeds
	// newlines in the text it passes.
	PrintLine func(text string)

	// Terminate ends program execution. By contract it never returns
	// control to the caller; it is the only exit path of a test build,
	// taken on success and failure alike.
	Terminate func()
}

// validate checks that both capability bindings are present.
func (b Bindings) validate() error {
	var errs []error
	if b.PrintLine == nil {
		errs = append(errs, &ModuleError{
			Code:    ErrCodeMissingBinding,
			Message: "print_line binding is required",
		})
	}
	if b.Terminate == nil {
		errs = append(errs, &ModuleError{
			Code:    ErrCodeMissingBinding,
			Message: "terminate binding is required",
		})
	}
	return errors.Join(errs...)
}

// Hook is a function bound to a lifecycle role. Hooks take no arguments and
// report nothing: a hook that cannot do its job raises a fault, which the
// failure trap turns into a fatal "TEST FAILED!" report.
type Hook func()

// Body is a test case body. A nil return is a pass; a non-nil return is a
// failure outcome, which only expect-failure cases may produce. A body may
// also raise a fault (in this rendition, a panic), which is always fatal.
type Body func() error

// Case is a single test case: a name, used verbatim in report lines, and a
// zero-argument body.
type Case struct {
	Name string
	Body Body

	// ExpectFailure marks a case whose body is expected to return a
	// failure outcome. Such a case passes when its body returns a non-nil
	// error and fails when the body returns nil.
	ExpectFailure bool
}

// Module is a runnable test module: up to one hook per lifecycle role and
// one or more cases, in declaration order. A Module is built once, before
// the run starts, and never mutated afterward.
type Module struct {
	// Package names the module in diagnostics. It never appears in the
	// report stream.
	Package string

	// Init runs at most once, before any test. No report line is emitted
	// for it.
	Init Hook

	// BeforeEach and AfterEach run once per case, in that case's slot.
	// AfterEach is skipped for a case that fails.
	BeforeEach Hook
	AfterEach  Hook

	// Cases execute strictly in order. Must be non-empty.
	Cases []Case
}

// Validate checks the structural invariants of the module. The generator
// enforces the same rules at build time; Validate exists for callers that
// assemble a Module directly.
func (m *Module) Validate() error {
	var errs []error

	if len(m.Cases) == 0 {
		errs = append(errs, &ModuleError{
			Code:    ErrCodeNoCases,
			Message: "module declares no test cases",
		})
	}

	seen := make(map[string]bool, len(m.Cases))
	for i, c := range m.Cases {
		if c.Name == "" {
			errs = append(errs, &ModuleError{
				Code:    ErrCodeEmptyName,
				Message: fmt.Sprintf("cases[%d]: name is required", i),
			})
			continue
		}
		if seen[c.Name] {
			errs = append(errs, &ModuleError{
				Code:    ErrCodeDuplicateName,
				Message: fmt.Sprintf("cases[%d]: duplicate case name %q", i, c.Name),
			})
		}
		seen[c.Name] = true
		if c.Body == nil {
			errs = append(errs, &ModuleError{
				Code:    ErrCodeMissingBody,
				Message: fmt.Sprintf("cases[%d] (%s): body is required", i, c.Name),
			})
		}
	}

	return errors.Join(errs...)
}

// ModuleError reports a structurally invalid module or binding set. It is
// returned before the first report line is emitted; a run that has started
// can only end through the terminator.
type ModuleError struct {
	Code    ModuleErrorCode
	Message string
}

// ModuleErrorCode categorizes module errors.
type ModuleErrorCode string

const (
	// ErrCodeNoCases indicates a module with zero test cases.
	ErrCodeNoCases ModuleErrorCode = "NO_CASES"

	// ErrCodeDuplicateName indicates two cases sharing a name.
	ErrCodeDuplicateName ModuleErrorCode = "DUPLICATE_NAME"

	// ErrCodeEmptyName indicates a case without a name.
	ErrCodeEmptyName ModuleErrorCode = "EMPTY_NAME"

	// ErrCodeMissingBody indicates a case without a body.
	ErrCodeMissingBody ModuleErrorCode = "MISSING_BODY"

	// ErrCodeMissingBinding indicates an absent capability binding.
	ErrCodeMissingBinding ModuleErrorCode = "MISSING_BINDING"
)

// Error implements the error interface.
func (e *ModuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsModuleError reports whether err is a ModuleError with the given code.
// Uses errors.As to handle wrapped errors.
func IsModuleError(err error, code ModuleErrorCode) bool {
	var me *ModuleError
	if errors.As(err, &me) {
		return me.Code == code
	}
	return false
}
