// SPDX-License-Identifier: MPL-2.0

package pack

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargo-wasmer/cargo-wasmer/internal/process"
	"github.com/cargo-wasmer/cargo-wasmer/internal/process/processtest"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/cargo"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/descriptor"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/types"
)

func TestCompilerArgs(t *testing.T) {
	t.Parallel()

	pkg := newPackage("/ws/tool", "tool", binTarget("tool"))
	manifestPath := pkg.ManifestPath.String()

	tests := []struct {
		name     string
		compiler Compiler
		abi      descriptor.Abi
		want     []string
	}{
		{
			name: "release wasi",
			abi:  descriptor.AbiWasi,
			want: []string{"build", "--quiet", "--manifest-path", manifestPath, "--target", "wasm32-wasi", "--release"},
		},
		{
			name:     "debug emscripten",
			compiler: Compiler{Debug: true},
			abi:      descriptor.AbiEmscripten,
			want:     []string{"build", "--quiet", "--manifest-path", manifestPath, "--target", "wasm32-unknown-emscripten"},
		},
		{
			name:     "every feature flag",
			compiler: Compiler{Features: cargo.Features{All: true, NoDefault: true, List: []string{"a", "b"}}},
			abi:      descriptor.AbiNone,
			want: []string{
				"build", "--quiet", "--manifest-path", manifestPath, "--target", "wasm32-unknown-unknown",
				"--all-features", "--no-default-features", "--features=a,b", "--release",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.compiler.Args(pkg, tt.abi))
		})
	}
}

func TestCompilerArtifactPath(t *testing.T) {
	t.Parallel()

	targetDir := types.FilesystemPath(filepath.FromSlash("/ws/target"))

	release := &Compiler{}
	assert.Equal(t,
		types.FilesystemPath(filepath.FromSlash("/ws/target/wasm32-wasi/release/my_lib.wasm")),
		release.ArtifactPath(targetDir, descriptor.AbiWasi, libTarget("my-lib")))

	debug := &Compiler{Debug: true}
	assert.Equal(t,
		types.FilesystemPath(filepath.FromSlash("/ws/target/wasm32-unknown-unknown/debug/my-tool.wasm")),
		debug.ArtifactPath(targetDir, descriptor.AbiNone, binTarget("my-tool")))
}

func TestCompile(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		targetDir := types.FilesystemPath(t.TempDir())
		pkg := newPackage(t.TempDir(), "tool", binTarget("tool"))
		compiler := &Compiler{CargoBinary: "/opt/cargo"}
		compiler.Runner = compilingRecorder(t, compiler, targetDir, pkg.Targets[0], descriptor.AbiWasi)

		artifact, err := compiler.Compile(context.Background(), pkg, targetDir,
			descriptor.Module{Name: "tool", Abi: descriptor.AbiWasi}, pkg.Targets[0])
		require.NoError(t, err)
		assert.FileExists(t, artifact.String())

		calls := compiler.Runner.(*processtest.Recorder).Calls("build")
		require.Len(t, calls, 1)
		assert.Equal(t, "/opt/cargo", calls[0].Program)
	})

	t.Run("exit zero without artifact", func(t *testing.T) {
		t.Parallel()

		targetDir := types.FilesystemPath(t.TempDir())
		pkg := newPackage(t.TempDir(), "tool", binTarget("tool"))
		compiler := &Compiler{Runner: processtest.NewRecorder()}

		_, err := compiler.Compile(context.Background(), pkg, targetDir,
			descriptor.Module{Name: "tool", Abi: descriptor.AbiWasi}, pkg.Targets[0])
		require.ErrorIs(t, err, ErrArtifactMissing)
		require.ErrorIs(t, err, ErrBuild)

		var missing *ArtifactMissingError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, compiler.ArtifactPath(targetDir, descriptor.AbiWasi, pkg.Targets[0]), missing.Path)
	})

	t.Run("non-zero exit", func(t *testing.T) {
		t.Parallel()

		rec := processtest.NewRecorder().On("build", processtest.Response{Status: process.Status{Code: 101}})
		compiler := &Compiler{Runner: rec}
		pkg := newPackage(t.TempDir(), "tool", binTarget("tool"))

		_, err := compiler.Compile(context.Background(), pkg, types.FilesystemPath(t.TempDir()),
			descriptor.Module{Name: "tool", Abi: descriptor.AbiWasi}, pkg.Targets[0])
		require.ErrorIs(t, err, ErrCompilerFailed)

		var failed *CompilerFailedError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, types.ExitCode(101), failed.Code)
		assert.False(t, failed.Signaled)
		assert.Contains(t, err.Error(), "101")
	})

	t.Run("signaled", func(t *testing.T) {
		t.Parallel()

		rec := processtest.NewRecorder().On("build", processtest.Response{Status: process.Status{Code: -1, Signaled: true}})
		compiler := &Compiler{Runner: rec}
		pkg := newPackage(t.TempDir(), "tool", binTarget("tool"))

		_, err := compiler.Compile(context.Background(), pkg, types.FilesystemPath(t.TempDir()),
			descriptor.Module{Name: "tool", Abi: descriptor.AbiWasi}, pkg.Targets[0])

		var failed *CompilerFailedError
		require.ErrorAs(t, err, &failed)
		assert.True(t, failed.Signaled)
	})

	t.Run("cargo not installed", func(t *testing.T) {
		t.Parallel()

		rec := processtest.NewRecorder().On("build", processtest.Response{
			Err: &process.NotFoundError{Program: "cargo", Err: os.ErrNotExist},
		})
		compiler := &Compiler{Runner: rec}
		pkg := newPackage(t.TempDir(), "tool", binTarget("tool"))

		_, err := compiler.Compile(context.Background(), pkg, types.FilesystemPath(t.TempDir()),
			descriptor.Module{Name: "tool", Abi: descriptor.AbiWasi}, pkg.Targets[0])
		require.ErrorIs(t, err, process.ErrNotFound)
		require.ErrorIs(t, err, ErrBuild)
	})
}
