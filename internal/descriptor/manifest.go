package descriptor

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

// ManifestName is the manifest file the generator looks for in the scanned
// package directory.
const ManifestName = "baretest.yaml"

// manifestSchema is the CUE schema every manifest must satisfy before the
// structural checks run. Schema violations carry positions and constraint
// details the hand-written checks cannot produce.
const manifestSchema = `
#Manifest: {
	// package optionally pins the expected name of the scanned package.
	package?: string & =~"^[A-Za-z_][A-Za-z0-9_]*$"

	// bindings names the two capability bindings. Both are mandatory;
	// the generated program cannot exist without them.
	bindings: {
		provider:   string & !=""
		print_line: string & =~"^[A-Z][A-Za-z0-9_]*$"
		terminate:  string & =~"^[A-Z][A-Za-z0-9_]*$"
	}
}
`

// Manifest is the build-time configuration surface: it names the Go package
// that supplies the two capability bindings and the exported symbols to
// bind. The bindings are resolved once, when the entry point is generated,
// and the emitted code treats them as read-only.
type Manifest struct {
	// Package optionally pins the package name the manifest belongs to.
	// When set, it must match the scanned package.
	Package string `yaml:"package,omitempty"`

	// Bindings declares the capability providers.
	Bindings BindingSet `yaml:"bindings"`
}

// BindingSet names the provider package and the two required symbols.
type BindingSet struct {
	// Provider is the import path of the package exporting the binding
	// functions.
	Provider string `yaml:"provider"`

	// PrintLine is the exported symbol with shape func(string).
	PrintLine string `yaml:"print_line"`

	// Terminate is the exported symbol with shape func(); it must never
	// return.
	Terminate string `yaml:"terminate"`
}

// LoadManifest reads, parses and schema-checks a manifest file. Unknown
// fields are rejected so a typo cannot silently drop a binding.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest YAML: %w", err)
	}

	// Second decode into a raw map for the CUE schema check.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse manifest YAML: %w", err)
	}
	if err := checkManifestSchema(raw); err != nil {
		return nil, err
	}

	return &m, nil
}

// LoadManifestDir loads the manifest from its conventional location in a
// package directory. A missing manifest is reported with ErrManifestMissing
// so callers can distinguish "absent" from "malformed".
func LoadManifestDir(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, ValidationError{
			Code:    ErrManifestMissing,
			Field:   "manifest",
			Message: fmt.Sprintf("no %s in %s; the capability bindings are mandatory", ManifestName, dir),
		}
	}
	return LoadManifest(path)
}

// checkManifestSchema unifies the raw manifest with the embedded CUE schema
// and reports constraint violations.
func checkManifestSchema(raw map[string]any) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(manifestSchema).LookupPath(cue.ParsePath("#Manifest"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("internal manifest schema error: %w", err)
	}

	val := ctx.Encode(raw)
	if err := val.Err(); err != nil {
		return fmt.Errorf("failed to encode manifest for schema check: %w", err)
	}

	if err := schema.Unify(val).Validate(cue.Concrete(true)); err != nil {
		return ValidationError{
			Code:    ErrManifestSchema,
			Field:   "manifest",
			Message: cueerrors.Details(err, nil),
		}
	}
	return nil
}

// exportedIdent matches an exported Go identifier.
var exportedIdent = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*$`)

// validateManifest checks the parsed manifest's structural rules. The CUE
// schema has already rejected most shape problems; these checks exist for
// manifests constructed in code rather than loaded from disk.
func validateManifest(man *Manifest) []ValidationError {
	if man == nil {
		return []ValidationError{{
			Code:    ErrManifestMissing,
			Field:   "manifest",
			Message: "a manifest declaring the capability bindings is required",
		}}
	}

	var errs []ValidationError

	if man.Bindings.Provider == "" {
		errs = append(errs, ValidationError{
			Code:    ErrProviderMissing,
			Field:   "bindings.provider",
			Message: "bindings provider import path is required",
		})
	}

	errs = append(errs, validateBindingSymbol("bindings.print_line", man.Bindings.PrintLine)...)
	errs = append(errs, validateBindingSymbol("bindings.terminate", man.Bindings.Terminate)...)

	return errs
}

// validateBindingSymbol checks that a binding symbol is present and names
// an exported identifier.
func validateBindingSymbol(field, symbol string) []ValidationError {
	if symbol == "" {
		return []ValidationError{{
			Code:    ErrBindingMissing,
			Field:   field,
			Message: "binding symbol is required",
		}}
	}
	if !exportedIdent.MatchString(symbol) {
		return []ValidationError{{
			Code:    ErrBindingBadSymbol,
			Field:   field,
			Message: fmt.Sprintf("binding symbol %q is not an exported Go identifier", symbol),
		}}
	}
	return nil
}
