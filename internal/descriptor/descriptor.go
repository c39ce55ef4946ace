// Package descriptor defines the build-time model of a test module: the
// role-tagged functions a package declares, and the manifest naming the two
// capability bindings the generated program will use. The validator rejects
// a malformed module here, before any code is generated, so a structural
// mistake is always a build failure and never a runtime one.
package descriptor

import "golang.org/x/text/unicode/norm"

// GeneratedFileName is the entry-point file the generator writes into the
// scanned package directory. The scanner skips it so regeneration is
// idempotent.
const GeneratedFileName = "baretest_main.go"

// Role is a lifecycle role a tagged function is bound to.
type Role string

const (
	RoleInit       Role = "init"
	RoleBeforeEach Role = "before_each"
	RoleAfterEach  Role = "after_each"
	RoleTest       Role = "test"
)

// Valid reports whether r names a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleInit, RoleBeforeEach, RoleAfterEach, RoleTest:
		return true
	}
	return false
}

// Function is one role-tagged function found in the scanned package.
type Function struct {
	// Symbol is the Go function name.
	Symbol string

	// File and Line locate the declaration for error reporting.
	File string
	Line int
}

// Case is one declared test case.
type Case struct {
	// Name appears verbatim in report lines. It defaults to the function
	// symbol and may be overridden by the directive. Stored in Unicode
	// NFC so two spellings of the same name collide during validation.
	Name string

	// Symbol is the Go function implementing the body.
	Symbol string

	// ExpectFailure marks a case whose body must return a failure
	// outcome.
	ExpectFailure bool

	File string
	Line int
}

// Module is the declared test module of one package, in declaration order.
// Hook slots are nil when the role is untagged; duplicate tags are kept by
// the scanner so the validator can report them.
type Module struct {
	// Package is the name of the scanned Go package.
	Package string

	// Dir is the package directory the module was scanned from.
	Dir string

	// Hook declarations per role, in declaration order. A valid module
	// has at most one entry per slice; the scanner preserves extras so
	// validation can point at every duplicate.
	Init       []Function
	BeforeEach []Function
	AfterEach  []Function

	// Cases in declaration order: file name order, then source order
	// within a file.
	Cases []Case
}

// CanonicalName normalizes a case name to Unicode NFC. Report lines use
// the normalized form, and duplicate detection compares it, so a module
// cannot declare two names that render identically.
func CanonicalName(name string) string {
	return norm.NFC.String(name)
}
