// SPDX-License-Identifier: MPL-2.0

package pack

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cargo-wasmer/cargo-wasmer/internal/process"
	"github.com/cargo-wasmer/cargo-wasmer/internal/process/processtest"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/cargo"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/descriptor"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/types"
)

func strPtr(s string) *string { return &s }

// newPackage returns a configured package rooted at dir with a single target.
func newPackage(dir, name string, target cargo.Target) *cargo.Package {
	return &cargo.Package{
		ID:           name + " 0.1.0 (path+file://" + filepath.ToSlash(dir) + ")",
		Name:         name,
		Version:      "0.1.0",
		Description:  strPtr("A test package"),
		ManifestPath: types.FilesystemPath(filepath.Join(dir, "Cargo.toml")),
		Targets:      []cargo.Target{target},
		Table: cargo.ToolTable{
			Present: true,
			Key:     cargo.TableKey,
			Config:  &cargo.Config{Namespace: "wasmer", Abi: descriptor.AbiWasi},
		},
	}
}

func binTarget(name string) cargo.Target {
	return cargo.Target{Name: name, Kind: []string{cargo.KindBinary}, CrateTypes: []string{"bin"}}
}

func libTarget(name string) cargo.Target {
	return cargo.Target{Name: name, Kind: []string{cargo.KindDynamicLibrary, "rlib"}, CrateTypes: []string{"cdylib", "rlib"}}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// compilingRecorder answers `cargo build` by writing the artifact the
// compiler expects, the way a successful build would.
func compilingRecorder(t *testing.T, compiler *Compiler, targetDir types.FilesystemPath, target cargo.Target, abi descriptor.Abi) *processtest.Recorder {
	t.Helper()
	return processtest.NewRecorder().On("build", processtest.Response{
		Do: func(process.Invocation) error {
			artifact := compiler.ArtifactPath(targetDir, abi, target).String()
			if err := os.MkdirAll(filepath.Dir(artifact), 0o755); err != nil {
				return err
			}
			return os.WriteFile(artifact, []byte("\x00asm\x01\x00\x00\x00"), 0o644)
		},
	})
}
