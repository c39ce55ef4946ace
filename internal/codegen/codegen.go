// Package codegen emits the generated entry point: one Go source file
// whose main function sequences a validated test module through the
// harness runtime.
//
// The file is written into the scanned package under the "baretest" build
// tag, so building with -tags baretest swaps the program's startup for the
// test run; the production entry point (guarded by !baretest) can never
// run in a test build. Emission is deterministic: the same module and
// manifest always produce byte-identical output.
package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"text/template"

	"github.com/roach88/baretest/internal/descriptor"
)

// entryTemplate renders the generated entry point. The output is passed
// through go/format, so the template only has to be syntactically right,
// not perfectly laid out.
const entryTemplate = `// Code generated by baretest; DO NOT EDIT.

//go:build baretest

package {{.Package}}

import (
	provider {{printf "%q" .Provider}}

	"github.com/roach88/baretest"
)

// main is the generated entry point. In a baretest-tagged build it is the
// program's sole startup path.
func main() {
	module := &baretest.Module{
		Package: {{printf "%q" .Package}},
{{- if .Init}}
		Init: {{.Init}},
{{- end}}
{{- if .BeforeEach}}
		BeforeEach: {{.BeforeEach}},
{{- end}}
{{- if .AfterEach}}
		AfterEach: {{.AfterEach}},
{{- end}}
		Cases: []baretest.Case{
{{- range .Cases}}
			{Name: {{printf "%q" .Name}}, Body: {{.Symbol}}{{if .ExpectFailure}}, ExpectFailure: true{{end}}},
{{- end}}
		},
	}

	bindings := baretest.Bindings{
		PrintLine: provider.{{.PrintLine}},
		Terminate: provider.{{.Terminate}},
	}

	if err := baretest.Run(module, bindings); err != nil {
		panic(err)
	}
}
`

var entry = template.Must(template.New("entry").Parse(entryTemplate))

// templateData is the flattened view of a validated module and manifest.
type templateData struct {
	Package    string
	Provider   string
	PrintLine  string
	Terminate  string
	Init       string
	BeforeEach string
	AfterEach  string
	Cases      []descriptor.Case
}

// Generate renders the entry point for a module and manifest. It
// re-validates both: a caller that skipped validation still cannot reach
// the template with a malformed descriptor, so generation failures stay
// build-time failures.
func Generate(m *descriptor.Module, man *descriptor.Manifest) ([]byte, error) {
	if verrs := descriptor.Validate(m, man); len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i, ve := range verrs {
			errs[i] = ve
		}
		return nil, fmt.Errorf("invalid test module: %w", errors.Join(errs...))
	}

	data := templateData{
		Package:   m.Package,
		Provider:  man.Bindings.Provider,
		PrintLine: man.Bindings.PrintLine,
		Terminate: man.Bindings.Terminate,
		Cases:     m.Cases,
	}
	if len(m.Init) > 0 {
		data.Init = m.Init[0].Symbol
	}
	if len(m.BeforeEach) > 0 {
		data.BeforeEach = m.BeforeEach[0].Symbol
	}
	if len(m.AfterEach) > 0 {
		data.AfterEach = m.AfterEach[0].Symbol
	}

	var buf bytes.Buffer
	if err := entry.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render entry point: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("generated entry point does not format: %w", err)
	}
	return src, nil
}

// WriteFile generates the entry point and writes it into the module's
// package directory under the conventional name.
func WriteFile(m *descriptor.Module, man *descriptor.Manifest) (string, error) {
	src, err := Generate(m, man)
	if err != nil {
		return "", err
	}

	path := filepath.Join(m.Dir, descriptor.GeneratedFileName)
	if err := os.WriteFile(path, src, 0644); err != nil {
		return "", fmt.Errorf("failed to write entry point: %w", err)
	}
	return path, nil
}
