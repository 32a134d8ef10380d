// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/cargo-wasmer/cargo-wasmer/internal/config"
	"github.com/cargo-wasmer/cargo-wasmer/internal/process"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives an App and reaches cargo, wasmer and the config file only
	// through it.
	App struct {
		Config ConfigProvider
		Runner process.Runner
		// Getwd returns the directory package selection starts from.
		Getwd  func() (string, error)
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Runner process.Runner
		Getwd  func() (string, error)
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options and reports
	// the file it came from.
	ConfigProvider interface {
		LoadWithSource(ctx context.Context, opts config.LoadOptions) (*config.Config, types.FilesystemPath, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Runner == nil {
		deps.Runner = process.NewExecRunner()
	}
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}

	return &App{
		Config: deps.Config,
		Runner: deps.Runner,
		Getwd:  deps.Getwd,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}
