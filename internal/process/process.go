// SPDX-License-Identifier: MPL-2.0

package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/cargo-wasmer/cargo-wasmer/pkg/types"
)

// ErrNotFound is the sentinel error wrapped by NotFoundError.
var ErrNotFound = errors.New("program could not be started")

type (
	// Invocation describes one blocking run of an external program.
	Invocation struct {
		// Program is the executable name or path.
		Program string
		// Args are passed verbatim after Program.
		Args []string
		// Dir is the working directory; "" means the current directory.
		Dir string
		// Env entries ("KEY=value") are appended to the inherited environment.
		Env []string
		// Stdout receives the program's standard output; nil means os.Stdout.
		Stdout io.Writer
		// Stderr receives the program's standard error; nil means os.Stderr.
		Stderr io.Writer
	}

	// Status is how a finished program exited.
	Status struct {
		// Code is the exit code. It is meaningless when Signaled is true.
		Code types.ExitCode
		// Signaled is true when the program was terminated by a signal and
		// has no exit code.
		Signaled bool
	}

	// Runner runs an external program to completion.
	// The returned error is non-nil only when the program could not be
	// started at all; a program that ran and failed reports it via Status.
	Runner interface {
		Run(ctx context.Context, inv Invocation) (Status, error)
	}

	// ExecCommandFunc creates an exec.Cmd. Tests can inject their own.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// ExecRunner runs programs with os/exec.
	ExecRunner struct {
		execCommand ExecCommandFunc
	}

	// ExecRunnerOption configures an ExecRunner.
	ExecRunnerOption func(*ExecRunner)

	// NotFoundError is returned when a program cannot be started, usually
	// because it is not installed.
	NotFoundError struct {
		Program string
		Err     error
	}
)

// Success reports whether the program exited normally with code 0.
func (s Status) Success() bool { return !s.Signaled && s.Code.IsSuccess() }

// String renders the status for error messages.
func (s Status) String() string {
	if s.Signaled {
		return "terminated by signal"
	}
	return "exit code " + s.Code.String()
}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner(opts ...ExecRunnerOption) *ExecRunner {
	r := &ExecRunner{execCommand: exec.CommandContext}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithExecCommand overrides how commands are created.
func WithExecCommand(fn ExecCommandFunc) ExecRunnerOption {
	return func(r *ExecRunner) { r.execCommand = fn }
}

// Run starts inv.Program and waits for it to exit. There is no timeout:
// a hung program blocks the caller until ctx is canceled.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (Status, error) {
	cmd := r.execCommand(ctx, inv.Program, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Stdin = nil
	cmd.Stdout = inv.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = inv.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if len(inv.Env) > 0 {
		cmd.Env = append(os.Environ(), inv.Env...)
	}

	err := cmd.Run()
	if err == nil {
		return Status{}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			return Status{Signaled: true}, nil
		}
		return Status{Code: types.ExitCode(code)}, nil
	}

	return Status{}, &NotFoundError{Program: inv.Program, Err: err}
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unable to start %q. Is it installed?: %v", e.Program, e.Err)
}

// Unwrap returns both the sentinel and the underlying OS error.
func (e *NotFoundError) Unwrap() []error { return []error{ErrNotFound, e.Err} }

// CommandLine renders an invocation for debug logs.
func (inv Invocation) CommandLine() string {
	parts := make([]string, 0, 1+len(inv.Args))
	parts = append(parts, inv.Program)
	parts = append(parts, inv.Args...)
	return strings.Join(parts, " ")
}
