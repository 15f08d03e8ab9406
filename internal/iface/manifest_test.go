package iface

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veldlang/veld/internal/ast"
)

func TestLoadEnvironment(t *testing.T) {
	dir := t.TempDir()

	built, err := FromExports("Data.Stuff", sampleExports(t))
	require.NoError(t, err)
	encoded, err := Encode(built)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Data.Stuff.iface.json"), encoded, 0o644))

	binaryEncoded, err := EncodeBinary(built)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Data.Stuff.iface.bin"), binaryEncoded, 0o644))

	manifest := `modules:
  Data.Stuff: Data.Stuff.iface.json
packages:
  stuff-pkg:
    Data.Stuff: Data.Stuff.iface.bin
`
	manifestPath := filepath.Join(dir, "env.yaml")
	require.NoError(t, os.WriteFile(manifestPath, []byte(manifest), 0o644))

	environment, err := LoadEnvironment(manifestPath)
	require.NoError(t, err)

	exports, ok := environment.Modules["Data.Stuff"]
	require.True(t, ok)
	require.Contains(t, exports.Values, ast.Name("five"))

	packageModules, ok := environment.Packages["stuff-pkg"]
	require.True(t, ok)
	require.Contains(t, packageModules, "Data.Stuff")
}

func TestLoadEnvironmentMissingFile(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "env.yaml")
	require.NoError(t, os.WriteFile(manifestPath, []byte("modules:\n  X: missing.json\n"), 0o644))
	_, err := LoadEnvironment(manifestPath)
	require.Error(t, err)
}
