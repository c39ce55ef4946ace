package descriptor

import (
	"fmt"
	"strings"
)

// Validation error codes (E100-E129).
const (
	// Module structure errors (E100-E109)
	ErrNoTestCases       = "E100" // zero functions tagged test
	ErrDuplicateInit     = "E101" // more than one init hook
	ErrDuplicateBefore   = "E102" // more than one before_each hook
	ErrDuplicateAfter    = "E103" // more than one after_each hook
	ErrDuplicateCaseName = "E104" // two cases share a name
	ErrEmptyCaseName     = "E105" // case name empty after normalization
	ErrUnprintableName   = "E106" // case name would corrupt a report line
	ErrNotMainPackage    = "E107" // scanned package cannot host func main

	// Manifest errors (E110-E119)
	ErrManifestMissing  = "E110" // no manifest in the package directory
	ErrBindingMissing   = "E111" // print_line or terminate not declared
	ErrBindingBadSymbol = "E112" // binding symbol is not an exported identifier
	ErrProviderMissing  = "E113" // bindings provider import path empty
	ErrManifestSchema   = "E114" // manifest violates the CUE schema
	ErrPackageMismatch  = "E115" // manifest pins a different package name
)

// ValidationError represents one build-time validation failure.
type ValidationError struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("[%s] %s:%d: %s: %s", e.Code, e.File, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a scanned module and its manifest against the structural
// rules. Returns all errors found (does not fail-fast), so a single build
// reports every problem at once.
func Validate(m *Module, man *Manifest) []ValidationError {
	errs := validateModule(m)
	errs = append(errs, validateManifest(man)...)

	if man != nil && man.Package != "" && man.Package != m.Package {
		errs = append(errs, ValidationError{
			Code:    ErrPackageMismatch,
			Field:   "package",
			Message: fmt.Sprintf("manifest pins package %q but the scanned package is %q", man.Package, m.Package),
		})
	}

	return errs
}

// ValidateModule checks only the module half of the structural rules, for
// callers that report manifest load failures separately; Validate on a nil
// manifest would repeat the missing-manifest finding.
func ValidateModule(m *Module) []ValidationError {
	return validateModule(m)
}

// validateModule checks hook multiplicity and case naming.
func validateModule(m *Module) []ValidationError {
	var errs []ValidationError

	// E100: at least one test required
	if len(m.Cases) == 0 {
		errs = append(errs, ValidationError{
			Code:    ErrNoTestCases,
			Field:   "cases",
			Message: fmt.Sprintf("package %q declares no functions tagged test", m.Package),
		})
	}

	// The generated entry point is a func main; in any other package it is
	// dead code and a test build would start nothing.
	if m.Package != "main" {
		errs = append(errs, ValidationError{
			Code:    ErrNotMainPackage,
			Field:   "package",
			Message: fmt.Sprintf("package %q cannot host the generated entry point; a test module must be package main", m.Package),
		})
	}

	errs = append(errs, validateHookSlot(m.Init, RoleInit, ErrDuplicateInit)...)
	errs = append(errs, validateHookSlot(m.BeforeEach, RoleBeforeEach, ErrDuplicateBefore)...)
	errs = append(errs, validateHookSlot(m.AfterEach, RoleAfterEach, ErrDuplicateAfter)...)

	seen := make(map[string]string, len(m.Cases)) // name -> first symbol
	for i, c := range m.Cases {
		field := fmt.Sprintf("cases[%d]", i)

		name := CanonicalName(c.Name)
		if name == "" {
			errs = append(errs, ValidationError{
				Code:    ErrEmptyCaseName,
				Field:   field,
				Message: fmt.Sprintf("case for %s has an empty name", c.Symbol),
				File:    c.File,
				Line:    c.Line,
			})
			continue
		}

		// The report protocol wraps names in backquotes on a single
		// line; a name containing either is unrepresentable.
		if strings.ContainsAny(name, "`\n") {
			errs = append(errs, ValidationError{
				Code:    ErrUnprintableName,
				Field:   field,
				Message: fmt.Sprintf("case name %q contains a backquote or newline", name),
				File:    c.File,
				Line:    c.Line,
			})
		}

		if first, dup := seen[name]; dup {
			errs = append(errs, ValidationError{
				Code:    ErrDuplicateCaseName,
				Field:   field,
				Message: fmt.Sprintf("duplicate case name %q (first declared by %s)", name, first),
				File:    c.File,
				Line:    c.Line,
			})
			continue
		}
		seen[name] = c.Symbol
	}

	return errs
}

// validateHookSlot reports every declaration past the first for a 0-or-1
// role.
func validateHookSlot(fns []Function, role Role, code string) []ValidationError {
	if len(fns) <= 1 {
		return nil
	}
	errs := make([]ValidationError, 0, len(fns)-1)
	for _, fn := range fns[1:] {
		errs = append(errs, ValidationError{
			Code:    code,
			Field:   string(role),
			Message: fmt.Sprintf("more than one function tagged %s (first declared by %s)", role, fns[0].Symbol),
			File:    fn.File,
			Line:    fn.Line,
		})
	}
	return errs
}
