package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// goodManifest returns a manifest that passes every structural check.
func goodManifest() *Manifest {
	return &Manifest{
		Bindings: BindingSet{
			Provider:  "github.com/roach88/baretest/hostio",
			PrintLine: "PrintLine",
			Terminate: "Terminate",
		},
	}
}

// codes extracts the error codes from a validation result.
func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidate_MinimalModule(t *testing.T) {
	m := &Module{
		Package: "main",
		Cases:   []Case{{Name: "check_sum", Symbol: "checkSum"}},
	}

	assert.Empty(t, Validate(m, goodManifest()))
}

func TestValidate_NonMainPackage(t *testing.T) {
	m := &Module{
		Package: "alu",
		Cases:   []Case{{Name: "check_sum", Symbol: "checkSum"}},
	}

	errs := Validate(m, goodManifest())

	require.Len(t, errs, 1)
	assert.Equal(t, ErrNotMainPackage, errs[0].Code)
	assert.Contains(t, errs[0].Message, "alu")
}

func TestValidateModule_SkipsManifestChecks(t *testing.T) {
	m := &Module{Package: "main"}

	errs := ValidateModule(m)

	require.Len(t, errs, 1)
	assert.Equal(t, ErrNoTestCases, errs[0].Code)
}

func TestValidate_NoTestCases(t *testing.T) {
	m := &Module{Package: "main"}

	errs := Validate(m, goodManifest())

	require.Len(t, errs, 1)
	assert.Equal(t, ErrNoTestCases, errs[0].Code)
	assert.Contains(t, errs[0].Message, "main")
}

func TestValidate_DuplicateHooks(t *testing.T) {
	m := &Module{
		Package: "main",
		Init: []Function{
			{Symbol: "setupA", File: "a.go", Line: 10},
			{Symbol: "setupB", File: "b.go", Line: 3},
		},
		BeforeEach: []Function{
			{Symbol: "resetA"},
			{Symbol: "resetB"},
			{Symbol: "resetC"},
		},
		AfterEach: []Function{
			{Symbol: "teardownA"},
			{Symbol: "teardownB"},
		},
		Cases: []Case{{Name: "t", Symbol: "t"}},
	}

	errs := Validate(m, goodManifest())

	// One error per extra declaration: 1 init, 2 before_each, 1 after_each.
	assert.Equal(t, []string{
		ErrDuplicateInit,
		ErrDuplicateBefore, ErrDuplicateBefore,
		ErrDuplicateAfter,
	}, codes(errs))
	assert.Equal(t, "b.go", errs[0].File)
	assert.Equal(t, 3, errs[0].Line)
	assert.Contains(t, errs[0].Message, "setupA")
}

func TestValidate_DuplicateCaseNames(t *testing.T) {
	m := &Module{
		Package: "main",
		Cases: []Case{
			{Name: "twin", Symbol: "twinA"},
			{Name: "twin", Symbol: "twinB"},
		},
	}

	errs := Validate(m, goodManifest())

	require.Len(t, errs, 1)
	assert.Equal(t, ErrDuplicateCaseName, errs[0].Code)
	assert.Contains(t, errs[0].Message, "twinA")
}

func TestValidate_DuplicateAfterNormalization(t *testing.T) {
	// "é" as a precomposed rune vs "e" + combining acute: same NFC form.
	m := &Module{
		Package: "main",
		Cases: []Case{
			{Name: "caf\u00e9", Symbol: "cafeA"},
			{Name: "cafe\u0301", Symbol: "cafeB"},
		},
	}

	errs := Validate(m, goodManifest())

	require.Len(t, errs, 1)
	assert.Equal(t, ErrDuplicateCaseName, errs[0].Code)
}

func TestValidate_EmptyCaseName(t *testing.T) {
	m := &Module{
		Package: "main",
		Cases:   []Case{{Name: "", Symbol: "anon"}},
	}

	errs := Validate(m, goodManifest())

	require.Len(t, errs, 1)
	assert.Equal(t, ErrEmptyCaseName, errs[0].Code)
}

func TestValidate_UnprintableCaseName(t *testing.T) {
	m := &Module{
		Package: "main",
		Cases: []Case{
			{Name: "has`backquote", Symbol: "a"},
			{Name: "has\nnewline", Symbol: "b"},
		},
	}

	errs := Validate(m, goodManifest())

	assert.Equal(t, []string{ErrUnprintableName, ErrUnprintableName}, codes(errs))
}

func TestValidate_MissingManifest(t *testing.T) {
	m := &Module{
		Package: "main",
		Cases:   []Case{{Name: "t", Symbol: "t"}},
	}

	errs := Validate(m, nil)

	require.Len(t, errs, 1)
	assert.Equal(t, ErrManifestMissing, errs[0].Code)
}

func TestValidate_MissingBindingSymbols(t *testing.T) {
	m := &Module{
		Package: "main",
		Cases:   []Case{{Name: "t", Symbol: "t"}},
	}
	man := &Manifest{
		Bindings: BindingSet{Provider: "example.com/board"},
	}

	errs := Validate(m, man)

	assert.Equal(t, []string{ErrBindingMissing, ErrBindingMissing}, codes(errs))
}

func TestValidate_UnexportedBindingSymbol(t *testing.T) {
	m := &Module{
		Package: "main",
		Cases:   []Case{{Name: "t", Symbol: "t"}},
	}
	man := goodManifest()
	man.Bindings.PrintLine = "printLine"

	errs := Validate(m, man)

	require.Len(t, errs, 1)
	assert.Equal(t, ErrBindingBadSymbol, errs[0].Code)
}

func TestValidate_MissingProvider(t *testing.T) {
	m := &Module{
		Package: "main",
		Cases:   []Case{{Name: "t", Symbol: "t"}},
	}
	man := goodManifest()
	man.Bindings.Provider = ""

	errs := Validate(m, man)

	require.Len(t, errs, 1)
	assert.Equal(t, ErrProviderMissing, errs[0].Code)
}

func TestValidate_PackageMismatch(t *testing.T) {
	m := &Module{
		Package: "main",
		Cases:   []Case{{Name: "t", Symbol: "t"}},
	}
	man := goodManifest()
	man.Package = "fpu"

	errs := Validate(m, man)

	require.Len(t, errs, 1)
	assert.Equal(t, ErrPackageMismatch, errs[0].Code)
}

func TestValidationError_Error(t *testing.T) {
	withPos := ValidationError{Code: "E104", Field: "cases[1]", Message: "dup", File: "alu_test_mod.go", Line: 12}
	assert.Equal(t, "[E104] alu_test_mod.go:12: cases[1]: dup", withPos.Error())

	noPos := ValidationError{Code: "E100", Field: "cases", Message: "none"}
	assert.Equal(t, "[E100] cases: none", noPos.Error())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleInit.Valid())
	assert.True(t, RoleTest.Valid())
	assert.False(t, Role("teardown").Valid())
}
