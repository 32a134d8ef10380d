// SPDX-License-Identifier: MPL-2.0

package pack

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargo-wasmer/cargo-wasmer/pkg/descriptor"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/fspath"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/types"
)

const wasmBytes = "\x00asm\x01\x00\x00\x00"

func writeArtifact(t *testing.T, dir, name string) types.FilesystemPath {
	t.Helper()
	p := filepath.Join(dir, name)
	writeFile(t, p, wasmBytes)
	return types.FilesystemPath(p)
}

func TestAssembleLayout(t *testing.T) {
	t.Parallel()

	crate := t.TempDir()
	writeFile(t, filepath.Join(crate, "legal", "LICENSE-MIT"), "MIT")
	writeFile(t, filepath.Join(crate, "README.md"), "# tool")

	pkg := newPackage(crate, "tool", binTarget("tool"))
	pkg.LicenseFile = "legal/LICENSE-MIT"
	pkg.Readme = "README.md"

	manifest, err := GenerateManifest(pkg, pkg.Targets[0])
	require.NoError(t, err)

	artifact := writeArtifact(t, t.TempDir(), "tool.wasm")
	dest := types.FilesystemPath(filepath.Join(t.TempDir(), "out", "bundle"))

	report, err := Assemble(dest, manifest, artifact, pkg)
	require.NoError(t, err)

	assert.Equal(t, []string{descriptor.FileName, "tool.wasm", "LICENSE-MIT", "README.md"}, report.Files)
	assert.Equal(t, digest.FromString(wasmBytes), report.ArtifactDigest)
	assert.FileExists(t, filepath.Join(dest.String(), "LICENSE-MIT"))
	assert.NoFileExists(t, filepath.Join(dest.String(), "legal", "LICENSE-MIT"))

	data, err := os.ReadFile(report.ManifestPath.String())
	require.NoError(t, err)
	parsed, err := descriptor.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, manifest, parsed)
}

func TestAssembleBindings(t *testing.T) {
	t.Parallel()

	crate := t.TempDir()
	writeFile(t, filepath.Join(crate, "wit", "exports.wit"), "use { point } from types\nuse * from \"deps/shared.wit\"\n")
	writeFile(t, filepath.Join(crate, "wit", "types.wit"), "record point { x: u32 }\n")
	writeFile(t, filepath.Join(crate, "wit", "deps", "shared.wit"), "type id = u64\n")

	pkg := newPackage(crate, "geo", libTarget("geo"))
	pkg.Table.Config.Bindings = &descriptor.Bindings{WitBindgen: "0.1.0", WitExports: "wit/exports.wit"}

	manifest, err := GenerateManifest(pkg, pkg.Targets[0])
	require.NoError(t, err)

	dest := types.FilesystemPath(t.TempDir())
	report, err := Assemble(dest, manifest, writeArtifact(t, t.TempDir(), "geo.wasm"), pkg)
	require.NoError(t, err)

	for _, rel := range []string{"wit/exports.wit", "wit/types.wit", "wit/deps/shared.wit"} {
		assert.Contains(t, report.Files, rel)
		assert.FileExists(t, filepath.Join(dest.String(), filepath.FromSlash(rel)))
	}
}

func TestAssembleBindingsEscape(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	crate := filepath.Join(root, "crate")
	writeFile(t, filepath.Join(crate, "api.wai"), "use * from \"../outside.wai\"\n")
	writeFile(t, filepath.Join(root, "outside.wai"), "type x = u8\n")

	pkg := newPackage(crate, "api", libTarget("api"))
	pkg.Table.Config.Bindings = &descriptor.Bindings{WaiVersion: "0.2.0", Exports: "api.wai"}

	manifest, err := GenerateManifest(pkg, pkg.Targets[0])
	require.NoError(t, err)

	dest := types.FilesystemPath(filepath.Join(root, "bundle"))
	_, err = Assemble(dest, manifest, writeArtifact(t, t.TempDir(), "api.wasm"), pkg)
	require.ErrorIs(t, err, fspath.ErrPathEscapesBaseDirectory)
	require.ErrorIs(t, err, ErrIO)

	assert.NoFileExists(t, filepath.Join(dest.String(), "api.wai"))
	entries, err := os.ReadDir(dest.String())
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), "outside")
	}
}

func TestAssembleMissingFiles(t *testing.T) {
	t.Parallel()

	t.Run("artifact", func(t *testing.T) {
		t.Parallel()

		pkg := newPackage(t.TempDir(), "tool", binTarget("tool"))
		manifest, err := GenerateManifest(pkg, pkg.Targets[0])
		require.NoError(t, err)

		missing := types.FilesystemPath(filepath.Join(t.TempDir(), "tool.wasm"))
		_, err = Assemble(types.FilesystemPath(t.TempDir()), manifest, missing, pkg)
		require.ErrorIs(t, err, ErrIO)
		require.ErrorIs(t, err, os.ErrNotExist)

		var fileErr *FileError
		require.ErrorAs(t, err, &fileErr)
		assert.Equal(t, missing, fileErr.Path)
	})

	t.Run("readme", func(t *testing.T) {
		t.Parallel()

		pkg := newPackage(t.TempDir(), "tool", binTarget("tool"))
		pkg.Readme = "README.md"
		manifest, err := GenerateManifest(pkg, pkg.Targets[0])
		require.NoError(t, err)

		_, err = Assemble(types.FilesystemPath(t.TempDir()), manifest, writeArtifact(t, t.TempDir(), "tool.wasm"), pkg)
		require.ErrorIs(t, err, ErrIO)
		assert.Contains(t, err.Error(), "README.md")
	})

	t.Run("binding include", func(t *testing.T) {
		t.Parallel()

		crate := t.TempDir()
		writeFile(t, filepath.Join(crate, "api.wit"), "use * from missing\n")
		pkg := newPackage(crate, "api", libTarget("api"))
		pkg.Table.Config.Bindings = &descriptor.Bindings{WitBindgen: "0.1.0", WitExports: "api.wit"}
		manifest, err := GenerateManifest(pkg, pkg.Targets[0])
		require.NoError(t, err)

		dest := types.FilesystemPath(t.TempDir())
		_, err = Assemble(dest, manifest, writeArtifact(t, t.TempDir(), "api.wasm"), pkg)
		require.ErrorIs(t, err, descriptor.ErrBindingFileNotFound)
		assert.NoFileExists(t, filepath.Join(dest.String(), "api.wit"))
	})
}
