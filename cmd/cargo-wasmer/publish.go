// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cargo-wasmer/cargo-wasmer/internal/publish"
)

func newPublishCommand(app *App, root *rootOptions) *cobra.Command {
	opts := &buildOptions{}
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Pack the crate and publish it with the wasmer CLI",
		Long: `Pack each selected package, then run 'wasmer publish' inside its bundle.

Packages without a [package.metadata.wasmer] table are skipped. With
--dry-run the wasmer CLI validates the bundle without uploading it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("dry-run") {
				dryRun = dryRunFromEnv()
			}
			if err := runPublish(cmd.Context(), app, root, opts, dryRun); err != nil {
				return app.fail(cmd, err, root.verbose)
			}
			return nil
		},
	}
	addBuildFlags(cmd, opts)
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "validate with the wasmer CLI without uploading (env "+envDryRun+")")

	return cmd
}

// runPublish packs and publishes packages one at a time and stops at the
// first failure.
func runPublish(ctx context.Context, app *App, root *rootOptions, opts *buildOptions, dryRun bool) error {
	s, err := app.newSession(ctx, root, opts)
	if err != nil {
		return err
	}

	publisher := &publish.Publisher{
		Runner:       app.Runner,
		Logger:       s.logger,
		WasmerBinary: s.cfg.WasmerBinary.String(),
		DryRun:       dryRun,
	}

	for _, pkg := range s.packages {
		if !publish.ShouldPublish(pkg) {
			s.logger.Info("Skipping package without wasmer metadata", "pkg", pkg.Name)
			continue
		}

		report, err := s.packer.Pack(ctx, pkg, s.targetDir, s.scope)
		if err != nil {
			return fmt.Errorf("unable to pack %q: %w", pkg.Name, err)
		}
		printReport(app.stdout, pkg, report)

		if err := publisher.Publish(ctx, report.Dir); err != nil {
			return fmt.Errorf("unable to publish %q: %w", pkg.Name, err)
		}
	}

	return nil
}
