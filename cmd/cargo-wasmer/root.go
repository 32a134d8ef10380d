// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// cargoSubcommandNames are the words cargo passes as the first argument when
// it runs `cargo wasmer` (or the legacy `cargo wapm`).
var cargoSubcommandNames = []string{"wasmer", "wapm"}

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootOptions holds the global flags shared by every subcommand.
type rootOptions struct {
	verbose bool
	cfgFile string
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "cargo-wasmer",
		Short: "Publish a Rust crate to the Wasmer registry",
		Long: TitleStyle.Render("cargo-wasmer") + SubtitleStyle.Render(" - package Rust crates for the Wasmer registry") + `

cargo-wasmer compiles a crate to WebAssembly, writes a wasmer.toml from the
[package.metadata.wasmer] table in Cargo.toml, and assembles a bundle that
'wasmer publish' can upload.

` + SubtitleStyle.Render("Examples:") + `
  cargo wasmer pack                   Bundle the package in the current directory
  cargo wasmer publish --dry-run      Check a publish without uploading
  cargo wasmer publish --workspace    Publish every member with a wasmer table
  cargo wasmer config show            Show the effective configuration`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging and full error chains")
	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/cargo-wasmer/config.cue)")

	rootCmd.AddCommand(newPackCommand(app, opts))
	rootCmd.AddCommand(newPublishCommand(app, opts))
	rootCmd.AddCommand(newConfigCommand(app, opts))
	rootCmd.AddCommand(newVersionCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// stripCargoSubcommand drops the subcommand name cargo inserts in front of
// the real arguments. Cargo marks its children by exporting CARGO.
func stripCargoSubcommand(args []string, lookupEnv func(string) (string, bool)) []string {
	if _, underCargo := lookupEnv("CARGO"); !underCargo || len(args) == 0 {
		return args
	}
	for _, name := range cargoSubcommandNames {
		if args[0] == name {
			return args[1:]
		}
	}
	return args
}

// Execute runs the CLI and exits with the resulting status.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(stripCargoSubcommand(os.Args[1:], os.LookupEnv))

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// handleError defers to fang's renderer except for failures the command
// handlers already printed.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}
