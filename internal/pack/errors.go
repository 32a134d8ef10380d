// SPDX-License-Identifier: MPL-2.0

package pack

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cargo-wasmer/cargo-wasmer/pkg/cargo"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/types"
)

// Error categories. Specific errors wrap exactly one of them.
var (
	// ErrConfiguration covers missing or malformed package configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrResolution covers package and target selection failures.
	ErrResolution = errors.New("resolution error")
	// ErrBuild covers compiler failures.
	ErrBuild = errors.New("build error")
	// ErrIO covers filesystem failures while staging a bundle.
	ErrIO = errors.New("i/o error")
	// ErrPublish covers publisher failures.
	ErrPublish = errors.New("publish error")
)

var (
	// ErrConflictingScope is returned when selection flags contradict each other.
	ErrConflictingScope = fmt.Errorf("%w: conflicting package selection", ErrConfiguration)
	// ErrMissingDescription is returned when Cargo.toml has no description.
	ErrMissingDescription = fmt.Errorf("%w: missing description", ErrConfiguration)
	// ErrEmptyDescription is returned when the description is an empty string.
	ErrEmptyDescription = fmt.Errorf("%w: empty description", ErrConfiguration)

	// ErrNoPackageSelected is returned when no package encloses the working
	// directory and the workspace has no root package.
	ErrNoPackageSelected = fmt.Errorf("%w: no package selected", ErrResolution)
	// ErrPackageNotFound is returned when an explicitly named package is not a
	// workspace member.
	ErrPackageNotFound = fmt.Errorf("%w: package not found", ErrResolution)
	// ErrNoPackageableTarget is the sentinel wrapped by NoPackageableTargetError.
	ErrNoPackageableTarget = fmt.Errorf("%w: no packageable target", ErrResolution)
	// ErrAmbiguousTarget is the sentinel wrapped by AmbiguousTargetError.
	ErrAmbiguousTarget = fmt.Errorf("%w: ambiguous target", ErrResolution)

	// ErrCompilerFailed is the sentinel wrapped by CompilerFailedError.
	ErrCompilerFailed = fmt.Errorf("%w: compiler failed", ErrBuild)
	// ErrArtifactMissing is the sentinel wrapped by ArtifactMissingError.
	ErrArtifactMissing = fmt.Errorf("%w: artifact missing", ErrBuild)
)

type (
	// NoPackageableTargetError is returned when a package has neither a
	// binary nor a cdylib target.
	NoPackageableTargetError struct {
		Package string
	}

	// AmbiguousTargetError is returned when a package has more than one
	// packageable target.
	AmbiguousTargetError struct {
		Package    string
		Candidates []cargo.Target
	}

	// CompilerFailedError is returned when cargo build exits unsuccessfully.
	CompilerFailedError struct {
		Package  string
		Code     types.ExitCode
		Signaled bool
	}

	// ArtifactMissingError is returned when cargo build succeeded but the
	// expected .wasm file is not where it should be.
	ArtifactMissingError struct {
		Path types.FilesystemPath
	}

	// FileError is a filesystem failure while staging a bundle.
	FileError struct {
		Op   string
		Path types.FilesystemPath
		Err  error
	}
)

// Error implements the error interface.
func (e *NoPackageableTargetError) Error() string {
	return fmt.Sprintf("package %q has no binary or cdylib target", e.Package)
}

// Unwrap returns ErrNoPackageableTarget for errors.Is() compatibility.
func (e *NoPackageableTargetError) Unwrap() error { return ErrNoPackageableTarget }

// Error implements the error interface.
func (e *AmbiguousTargetError) Error() string {
	names := make([]string, 0, len(e.Candidates))
	for _, t := range e.Candidates {
		names = append(names, fmt.Sprintf("%s (%s)", t.Name, t.KindLabel()))
	}
	return fmt.Sprintf("unable to decide which target of %q to package, candidates: %s",
		e.Package, strings.Join(names, ", "))
}

// Unwrap returns ErrAmbiguousTarget for errors.Is() compatibility.
func (e *AmbiguousTargetError) Unwrap() error { return ErrAmbiguousTarget }

// Error implements the error interface.
func (e *CompilerFailedError) Error() string {
	if e.Signaled {
		return fmt.Sprintf("cargo build for %q was terminated by a signal", e.Package)
	}
	return fmt.Sprintf("cargo build for %q failed with exit code %s", e.Package, e.Code)
}

// Unwrap returns ErrCompilerFailed for errors.Is() compatibility.
func (e *CompilerFailedError) Unwrap() error { return ErrCompilerFailed }

// Error implements the error interface.
func (e *ArtifactMissingError) Error() string {
	return fmt.Sprintf("cargo build succeeded but %q was not produced", e.Path)
}

// Unwrap returns ErrArtifactMissing for errors.Is() compatibility.
func (e *ArtifactMissingError) Unwrap() error { return ErrArtifactMissing }

// Error implements the error interface.
func (e *FileError) Error() string {
	return fmt.Sprintf("unable to %s %q: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns ErrIO and the underlying cause.
func (e *FileError) Unwrap() []error { return []error{ErrIO, e.Err} }
