// SPDX-License-Identifier: MPL-2.0

package cargo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cargo-wasmer/cargo-wasmer/internal/process"
)

// DefaultBinary is the cargo executable used when none is configured.
const DefaultBinary = "cargo"

// ErrMetadataFailed is the sentinel error wrapped by MetadataFailedError.
var ErrMetadataFailed = errors.New("cargo metadata failed")

type (
	// Features selects the crate features for both the metadata query and the
	// build. Flags are passed through only when set.
	Features struct {
		All       bool
		NoDefault bool
		List      []string
	}

	// Query describes a `cargo metadata` invocation.
	Query struct {
		// CargoBinary defaults to DefaultBinary.
		CargoBinary string
		// ManifestPath selects the Cargo.toml; empty lets Cargo search from Dir.
		ManifestPath string
		Features     Features
		// Dir is the working directory; empty means the current directory.
		Dir string
	}

	// MetadataFailedError is returned when cargo metadata exits unsuccessfully.
	MetadataFailedError struct {
		Status process.Status
		Stderr string
	}
)

// Error implements the error interface.
func (e *MetadataFailedError) Error() string {
	msg := fmt.Sprintf("cargo metadata failed (%s)", e.Status)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Unwrap returns ErrMetadataFailed for errors.Is() compatibility.
func (e *MetadataFailedError) Unwrap() error { return ErrMetadataFailed }

// ParseFeatureList splits a --features value. Cargo accepts both commas and
// spaces as separators.
func ParseFeatureList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// Args returns the cargo flags for the selection.
func (f Features) Args() []string {
	var args []string
	if f.All {
		args = append(args, "--all-features")
	}
	if f.NoDefault {
		args = append(args, "--no-default-features")
	}
	if len(f.List) > 0 {
		args = append(args, "--features="+strings.Join(f.List, ","))
	}
	return args
}

// Args returns the full argument list passed to cargo.
func (q Query) Args() []string {
	args := []string{"metadata", "--format-version", "1"}
	if q.ManifestPath != "" {
		args = append(args, "--manifest-path", q.ManifestPath)
	}
	return append(args, q.Features.Args()...)
}

// Load runs the query and decodes its output.
func (q Query) Load(ctx context.Context, runner process.Runner) (*Metadata, error) {
	program := q.CargoBinary
	if program == "" {
		program = DefaultBinary
	}

	var stdout, stderr bytes.Buffer
	status, err := runner.Run(ctx, process.Invocation{
		Program: program,
		Args:    q.Args(),
		Dir:     q.Dir,
		Stdout:  &stdout,
		Stderr:  &stderr,
	})
	if err != nil {
		return nil, err
	}
	if !status.Success() {
		return nil, &MetadataFailedError{Status: status, Stderr: strings.TrimSpace(stderr.String())}
	}

	return Decode(stdout.Bytes())
}
