// SPDX-License-Identifier: MPL-2.0

package pack

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"

	"github.com/cargo-wasmer/cargo-wasmer/internal/process"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/cargo"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/descriptor"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/fspath"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/types"
)

const (
	profileRelease = "release"
	profileDebug   = "debug"
)

// Compiler builds one target to WebAssembly with `cargo build`.
type Compiler struct {
	Runner      process.Runner
	Logger      *log.Logger
	CargoBinary string
	Debug       bool
	Features    cargo.Features
}

// Args returns the cargo arguments used to build pkg for the given ABI.
func (c *Compiler) Args(pkg *cargo.Package, abi descriptor.Abi) []string {
	args := []string{
		"build", "--quiet",
		"--manifest-path", pkg.ManifestPath.String(),
		"--target", abi.TargetTriple(),
	}
	args = append(args, c.Features.Args()...)
	if !c.Debug {
		args = append(args, "--release")
	}
	return args
}

// ArtifactPath is where cargo writes the compiled module:
// <target-dir>/<triple>/<profile>/<artifact>.wasm.
func (c *Compiler) ArtifactPath(targetDir types.FilesystemPath, abi descriptor.Abi, target cargo.Target) types.FilesystemPath {
	profile := profileRelease
	if c.Debug {
		profile = profileDebug
	}
	return fspath.JoinStr(targetDir, abi.TargetTriple(), profile, ArtifactName(target)+WasmExtension)
}

// Compile runs cargo build and returns the path of the produced .wasm file.
// A zero exit status is not trusted on its own: the artifact must exist.
func (c *Compiler) Compile(ctx context.Context, pkg *cargo.Package, targetDir types.FilesystemPath, module descriptor.Module, target cargo.Target) (types.FilesystemPath, error) {
	logger := c.Logger
	if logger == nil {
		logger = log.Default()
	}
	program := c.CargoBinary
	if program == "" {
		program = cargo.DefaultBinary
	}

	inv := process.Invocation{
		Program: program,
		Args:    c.Args(pkg, module.Abi),
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
	logger.Debug("Compiling to WebAssembly", "pkg", pkg.Name, "cmd", inv.CommandLine())

	status, err := c.Runner.Run(ctx, inv)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBuild, err)
	}
	if !status.Success() {
		return "", &CompilerFailedError{Package: pkg.Name, Code: status.Code, Signaled: status.Signaled}
	}

	artifact := c.ArtifactPath(targetDir, module.Abi, target)
	if _, err := os.Stat(artifact.String()); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &ArtifactMissingError{Path: artifact}
		}
		return "", &FileError{Op: "stat", Path: artifact, Err: err}
	}

	logger.Debug("Compiled", "pkg", pkg.Name, "path", artifact)
	return artifact, nil
}
