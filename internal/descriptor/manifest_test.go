package descriptor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeManifest writes manifest content into a temp directory and returns
// the file path.
func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadManifest_Valid(t *testing.T) {
	path := writeManifest(t, `
package: alu
bindings:
  provider: github.com/roach88/baretest/hostio
  print_line: PrintLine
  terminate: Terminate
`)

	man, err := LoadManifest(path)
	require.NoError(t, err)

	assert.Equal(t, "alu", man.Package)
	assert.Equal(t, "github.com/roach88/baretest/hostio", man.Bindings.Provider)
	assert.Equal(t, "PrintLine", man.Bindings.PrintLine)
	assert.Equal(t, "Terminate", man.Bindings.Terminate)
}

func TestLoadManifest_NoPackagePin(t *testing.T) {
	path := writeManifest(t, `
bindings:
  provider: example.com/board
  print_line: SerialWrite
  terminate: PowerOff
`)

	man, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Empty(t, man.Package)
}

func TestLoadManifest_UnknownField(t *testing.T) {
	path := writeManifest(t, `
bindings:
  provider: example.com/board
  print_line: PrintLine
  terminate: Terminate
bindigns: oops
`)

	_, err := LoadManifest(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse manifest YAML")
}

func TestLoadManifest_MissingBindings(t *testing.T) {
	path := writeManifest(t, `
package: alu
`)

	_, err := LoadManifest(path)
	require.Error(t, err)

	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, ErrManifestSchema, verr.Code)
}

func TestLoadManifest_UnexportedSymbolRejectedBySchema(t *testing.T) {
	path := writeManifest(t, `
bindings:
  provider: example.com/board
  print_line: printLine
  terminate: Terminate
`)

	_, err := LoadManifest(path)
	require.Error(t, err)

	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, ErrManifestSchema, verr.Code)
}

func TestLoadManifest_EmptyProviderRejectedBySchema(t *testing.T) {
	path := writeManifest(t, `
bindings:
  provider: ""
  print_line: PrintLine
  terminate: Terminate
`)

	_, err := LoadManifest(path)
	require.Error(t, err)

	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, ErrManifestSchema, verr.Code)
}

func TestLoadManifest_FileNotFound(t *testing.T) {
	_, err := LoadManifest("/nonexistent/baretest.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read manifest")
}

func TestLoadManifestDir_Missing(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadManifestDir(dir)
	require.Error(t, err)

	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, ErrManifestMissing, verr.Code)
	assert.Contains(t, verr.Message, ManifestName)
}

func TestLoadManifestDir_Valid(t *testing.T) {
	dir := t.TempDir()
	content := `
bindings:
  provider: example.com/board
  print_line: PrintLine
  terminate: Terminate
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestName), []byte(content), 0644))

	man, err := LoadManifestDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "example.com/board", man.Bindings.Provider)
}

func TestCanonicalName(t *testing.T) {
	// Decomposed input folds to the precomposed form.
	assert.Equal(t, "caf\u00e9", CanonicalName("cafe\u0301"))
	assert.Equal(t, "check_sum", CanonicalName("check_sum"))
}
