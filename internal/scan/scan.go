// Package scan extracts a test module descriptor from the role-tagged
// functions of a Go package.
//
// Functions are tagged with comment directives:
//
//	//baretest:init
//	//baretest:before_each
//	//baretest:after_each
//	//baretest:test [name] [expect-failure]
//
// Hooks have shape func(); test bodies have shape func() error. A test's
// report name defaults to its function symbol; the optional name argument
// overrides it. Declaration order is file name order, then source order
// within a file - the generator never reorders.
package scan

import (
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/parser"
	"go/token"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/roach88/baretest/internal/descriptor"
)

// Scan error codes (E120-E129). They share the descriptor error space so a
// build reports one uniform error list.
const (
	ErrUnknownRole   = "E120" // directive names no known role
	ErrBadDirective  = "E121" // malformed directive arguments
	ErrBadHookShape  = "E122" // hook is not func()
	ErrBadTestShape  = "E123" // test body is not func() error
	ErrTaggedMethod  = "E124" // directive on a method
	ErrDoubleTagged  = "E125" // two directives on one function
	ErrParseFailed   = "E126" // package does not parse
	ErrNoGoFiles     = "E127" // directory holds no Go files
	ErrUnguardedMain = "E128" // production main not excluded from test builds
)

// directivePrefix introduces a role tag in a function's doc comment.
const directivePrefix = "//baretest:"

// Scanner parses a package directory into a raw module descriptor.
type Scanner struct {
	// Log receives one debug record per tagged function. Discarded by
	// default; the CLI routes it to stderr under --verbose.
	Log *slog.Logger
}

// New creates a Scanner that logs nowhere.
func New() *Scanner {
	return &Scanner{Log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// Package scans dir and returns the raw module plus every scan error
// found. The module is returned even when errors are present so the
// validator can add its own findings to the same report.
func (s *Scanner) Package(dir string) (*descriptor.Module, []descriptor.ValidationError) {
	var errs []descriptor.ValidationError

	files, err := goFiles(dir)
	if err != nil {
		return nil, []descriptor.ValidationError{{
			Code:    ErrParseFailed,
			Field:   "package",
			Message: err.Error(),
		}}
	}
	if len(files) == 0 {
		return nil, []descriptor.ValidationError{{
			Code:    ErrNoGoFiles,
			Field:   "package",
			Message: fmt.Sprintf("no Go files in %s", dir),
		}}
	}

	module := &descriptor.Module{Dir: dir}
	fset := token.NewFileSet()

	for _, name := range files {
		path := filepath.Join(dir, name)
		f, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			errs = append(errs, descriptor.ValidationError{
				Code:    ErrParseFailed,
				Field:   "package",
				Message: err.Error(),
				File:    name,
			})
			continue
		}

		if module.Package == "" {
			module.Package = f.Name.Name
		}

		for _, decl := range f.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok {
				continue
			}

			// A production entry point must step aside in test
			// builds or it collides with the generated one.
			if f.Name.Name == "main" && fn.Name.Name == "main" && fn.Recv == nil && !excludesTestBuilds(f) {
				errs = append(errs, descriptor.ValidationError{
					Code:    ErrUnguardedMain,
					Field:   "main",
					Message: fmt.Sprintf("%s declares func main without a //go:build !baretest constraint", name),
					File:    name,
					Line:    fset.Position(fn.Pos()).Line,
				})
				continue
			}

			errs = append(errs, s.collect(module, fset, name, fn)...)
		}
	}

	return module, errs
}

// collect reads the directive off one function declaration, if any, and
// files the function under its role.
func (s *Scanner) collect(module *descriptor.Module, fset *token.FileSet, file string, fn *ast.FuncDecl) []descriptor.ValidationError {
	dir, pos, found, errs := directiveOf(fset, file, fn)
	if !found || len(errs) > 0 {
		return errs
	}

	line := fset.Position(pos).Line
	entry := descriptor.Function{Symbol: fn.Name.Name, File: file, Line: line}

	if fn.Recv != nil {
		return []descriptor.ValidationError{{
			Code:    ErrTaggedMethod,
			Field:   string(dir.role),
			Message: fmt.Sprintf("%s is a method; role-tagged functions must be package-level", fn.Name.Name),
			File:    file,
			Line:    line,
		}}
	}

	s.Log.Debug("tagged function",
		"role", string(dir.role),
		"symbol", fn.Name.Name,
		"file", file,
		"line", line,
	)

	switch dir.role {
	case descriptor.RoleInit:
		module.Init = append(module.Init, entry)
		return checkHookShape(fn, file, line)
	case descriptor.RoleBeforeEach:
		module.BeforeEach = append(module.BeforeEach, entry)
		return checkHookShape(fn, file, line)
	case descriptor.RoleAfterEach:
		module.AfterEach = append(module.AfterEach, entry)
		return checkHookShape(fn, file, line)
	case descriptor.RoleTest:
		name := dir.name
		if name == "" {
			name = fn.Name.Name
		}
		module.Cases = append(module.Cases, descriptor.Case{
			Name:          descriptor.CanonicalName(name),
			Symbol:        fn.Name.Name,
			ExpectFailure: dir.expectFailure,
			File:          file,
			Line:          line,
		})
		return checkTestShape(fn, file, line)
	}

	return []descriptor.ValidationError{{
		Code:    ErrUnknownRole,
		Field:   "directive",
		Message: fmt.Sprintf("unknown role %q on %s", dir.role, fn.Name.Name),
		File:    file,
		Line:    line,
	}}
}

// directive is one parsed role tag.
type directive struct {
	role          descriptor.Role
	name          string
	expectFailure bool
}

// directiveOf extracts the baretest directive from a function's doc
// comment. A function with two directives is an error: its role would be
// ambiguous.
func directiveOf(fset *token.FileSet, file string, fn *ast.FuncDecl) (directive, token.Pos, bool, []descriptor.ValidationError) {
	var (
		out   directive
		pos   token.Pos
		found bool
	)
	if fn.Doc == nil {
		return out, pos, false, nil
	}

	for _, c := range fn.Doc.List {
		if !strings.HasPrefix(c.Text, directivePrefix) {
			continue
		}
		if found {
			return out, pos, true, []descriptor.ValidationError{{
				Code:    ErrDoubleTagged,
				Field:   "directive",
				Message: fmt.Sprintf("%s carries more than one baretest directive", fn.Name.Name),
				File:    file,
				Line:    fset.Position(c.Pos()).Line,
			}}
		}
		found = true
		pos = c.Pos()

		d, err := parseDirective(strings.TrimPrefix(c.Text, directivePrefix))
		if err != nil {
			return out, pos, true, []descriptor.ValidationError{{
				Code:    ErrBadDirective,
				Field:   "directive",
				Message: fmt.Sprintf("%s: %v", fn.Name.Name, err),
				File:    file,
				Line:    fset.Position(c.Pos()).Line,
			}}
		}
		out = d
	}

	return out, pos, found, nil
}

// parseDirective splits a directive body into role and arguments. Only the
// test role accepts arguments: an optional report name and the
// expect-failure flag, in either order.
func parseDirective(body string) (directive, error) {
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return directive{}, fmt.Errorf("empty directive")
	}

	d := directive{role: descriptor.Role(fields[0])}
	args := fields[1:]

	if d.role != descriptor.RoleTest && len(args) > 0 {
		return directive{}, fmt.Errorf("role %s takes no arguments", d.role)
	}

	for _, arg := range args {
		switch {
		case arg == "expect-failure":
			if d.expectFailure {
				return directive{}, fmt.Errorf("expect-failure given twice")
			}
			d.expectFailure = true
		case d.name == "":
			d.name = arg
		default:
			return directive{}, fmt.Errorf("unexpected argument %q", arg)
		}
	}

	return d, nil
}

// checkHookShape verifies a hook is a niladic function with no results.
func checkHookShape(fn *ast.FuncDecl, file string, line int) []descriptor.ValidationError {
	if paramCount(fn) == 0 && resultCount(fn) == 0 {
		return nil
	}
	return []descriptor.ValidationError{{
		Code:    ErrBadHookShape,
		Field:   fn.Name.Name,
		Message: fmt.Sprintf("hook %s must have shape func()", fn.Name.Name),
		File:    file,
		Line:    line,
	}}
}

// checkTestShape verifies a test body is func() error.
func checkTestShape(fn *ast.FuncDecl, file string, line int) []descriptor.ValidationError {
	if paramCount(fn) == 0 && resultCount(fn) == 1 && returnsError(fn) {
		return nil
	}
	return []descriptor.ValidationError{{
		Code:    ErrBadTestShape,
		Field:   fn.Name.Name,
		Message: fmt.Sprintf("test %s must have shape func() error", fn.Name.Name),
		File:    file,
		Line:    line,
	}}
}

func paramCount(fn *ast.FuncDecl) int {
	n := 0
	for _, f := range fn.Type.Params.List {
		if len(f.Names) == 0 {
			n++
		} else {
			n += len(f.Names)
		}
	}
	return n
}

func resultCount(fn *ast.FuncDecl) int {
	if fn.Type.Results == nil {
		return 0
	}
	n := 0
	for _, f := range fn.Type.Results.List {
		if len(f.Names) == 0 {
			n++
		} else {
			n += len(f.Names)
		}
	}
	return n
}

func returnsError(fn *ast.FuncDecl) bool {
	if fn.Type.Results == nil || len(fn.Type.Results.List) != 1 {
		return false
	}
	ident, ok := fn.Type.Results.List[0].Type.(*ast.Ident)
	return ok && ident.Name == "error"
}

// excludesTestBuilds reports whether a file's build constraint keeps it
// out of baretest-tagged builds. The constraint is parsed and evaluated
// with the baretest tag set, so "!baretest2" does not pass as a guard and
// a build line quoted inside a later comment does not count: only header
// constraints, before the package clause, take effect.
func excludesTestBuilds(f *ast.File) bool {
	for _, group := range f.Comments {
		for _, c := range group.List {
			if c.Pos() >= f.Package {
				return false
			}
			if !constraint.IsGoBuild(c.Text) {
				continue
			}
			expr, err := constraint.Parse(c.Text)
			if err != nil {
				continue
			}
			if !expr.Eval(func(tag string) bool { return tag == "baretest" }) {
				return true
			}
		}
	}
	return false
}

// goFiles lists the package's Go source files in name order, skipping
// test files and files generated by the harness itself.
func goFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read package directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}
		if strings.HasSuffix(name, "_test.go") || name == descriptor.GeneratedFileName {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}
