// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cargo-wasmer/cargo-wasmer/internal/pack"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/cargo"
)

func newPackCommand(app *App, root *rootOptions) *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Compile the crate and assemble a Wasmer bundle",
		Long: `Compile the selected packages to WebAssembly and write one bundle per
package containing wasmer.toml, the .wasm module, the license and readme,
and any binding files.

Without --workspace or --package the package enclosing the current
directory is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runPack(cmd.Context(), app, root, opts); err != nil {
				return app.fail(cmd, err, root.verbose)
			}
			return nil
		},
	}
	addBuildFlags(cmd, opts)

	return cmd
}

func runPack(ctx context.Context, app *App, root *rootOptions, opts *buildOptions) error {
	s, err := app.newSession(ctx, root, opts)
	if err != nil {
		return err
	}

	reports, err := s.packer.PackAll(ctx, s.packages, s.targetDir, s.scope)
	printReports(app.stdout, s.packages, reports)
	return err
}

// printReports lists finished bundles, pairing reports with packages by
// position. Reports may be shorter than pkgs after a failure.
func printReports(w io.Writer, pkgs []*cargo.Package, reports []*pack.BundleReport) {
	for i, report := range reports {
		printReport(w, pkgs[i], report)
	}
}

func printReport(w io.Writer, pkg *cargo.Package, report *pack.BundleReport) {
	fmt.Fprintf(w, "%s %s %s\n",
		SuccessStyle.Render("✓"),
		TitleStyle.Render(pkg.Name),
		PathStyle.Render(report.Dir.String()))
	fmt.Fprintf(w, "  %s\n", VerboseStyle.Render(report.ArtifactDigest.String()))
}
