// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cargo-wasmer/cargo-wasmer/internal/config"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/types"
)

// newConfigCommand creates the `cargo-wasmer config` command tree.
func newConfigCommand(app *App, root *rootOptions) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage cargo-wasmer configuration",
		Long: `Manage cargo-wasmer configuration.

Configuration is stored in:
  - Linux: ~/.config/cargo-wasmer/config.cue
  - macOS: ~/Library/Application Support/cargo-wasmer/config.cue
  - Windows: %APPDATA%\cargo-wasmer\config.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := showConfig(cmd, app, root); err != nil {
				return app.fail(cmd, err, root.verbose)
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(app); err != nil {
				return app.fail(cmd, err, root.verbose)
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.ConfigDir()
			if err != nil {
				return app.fail(cmd, err, root.verbose)
			}
			fmt.Fprintln(app.stdout, config.ConfigFilePath(dir))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App, root *rootOptions) error {
	wd, err := app.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, source, err := app.loadConfig(cmd.Context(), root, types.FilesystemPath(wd))
	if err != nil {
		return err
	}

	if source != "" {
		fmt.Fprintf(app.stdout, "// source: %s\n", source)
	} else {
		fmt.Fprintln(app.stdout, "// source: built-in defaults")
	}
	fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
	return nil
}

func initConfig(app *App) error {
	path, created, err := config.CreateDefaultConfig("")
	if err != nil {
		return err
	}

	if created {
		fmt.Fprintf(app.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), PathStyle.Render(path.String()))
	} else {
		fmt.Fprintf(app.stdout, "%s %s already exists\n", WarningStyle.Render("!"), PathStyle.Render(path.String()))
	}
	return nil
}
