// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/cargo-wasmer/cargo-wasmer/internal/pack"
	"github.com/cargo-wasmer/cargo-wasmer/internal/process"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/cargo"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/types"
)

// DefaultBinary is the wasmer executable used when none is configured.
const DefaultBinary = "wasmer"

// ErrPublishFailed is the sentinel error wrapped by PublishFailedError.
var ErrPublishFailed = fmt.Errorf("%w: wasmer publish failed", pack.ErrPublish)

type (
	// Publisher runs `wasmer publish` inside bundle directories.
	Publisher struct {
		Runner       process.Runner
		Logger       *log.Logger
		WasmerBinary string
		DryRun       bool
	}

	// PublishFailedError is returned when the wasmer CLI exits unsuccessfully.
	PublishFailedError struct {
		Dir    types.FilesystemPath
		Status process.Status
	}
)

// Error implements the error interface.
func (e *PublishFailedError) Error() string {
	if e.Status.Signaled {
		return "the wasmer CLI exited unsuccessfully"
	}
	return fmt.Sprintf("the wasmer CLI exited unsuccessfully with exit code %s", e.Status.Code)
}

// Unwrap returns ErrPublishFailed for errors.Is() compatibility.
func (e *PublishFailedError) Unwrap() error { return ErrPublishFailed }

// ShouldPublish reports whether pkg opted into publishing with a
// [package.metadata.wasmer] (or legacy wapm) table.
func ShouldPublish(pkg *cargo.Package) bool {
	return pkg.HasTable()
}

// Args returns the wasmer arguments.
func (p *Publisher) Args() []string {
	args := []string{"publish"}
	if p.DryRun {
		args = append(args, "--dry-run")
	}
	return args
}

// Publish uploads the bundle in dir. A wasmer binary that cannot be started
// surfaces as a *process.NotFoundError.
func (p *Publisher) Publish(ctx context.Context, dir types.FilesystemPath) error {
	logger := p.Logger
	if logger == nil {
		logger = log.Default()
	}
	program := p.WasmerBinary
	if program == "" {
		program = DefaultBinary
	}

	inv := process.Invocation{
		Program: program,
		Args:    p.Args(),
		Dir:     dir.String(),
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
	logger.Debug("Publishing with the wasmer CLI", "cmd", inv.CommandLine(), "dir", dir)

	status, err := p.Runner.Run(ctx, inv)
	if err != nil {
		return fmt.Errorf("%w: %w", pack.ErrPublish, err)
	}
	if !status.Success() {
		return &PublishFailedError{Dir: dir, Status: status}
	}
	return nil
}
