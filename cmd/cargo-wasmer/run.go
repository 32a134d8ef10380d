// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cargo-wasmer/cargo-wasmer/internal/config"
	"github.com/cargo-wasmer/cargo-wasmer/internal/issue"
	"github.com/cargo-wasmer/cargo-wasmer/internal/logging"
	"github.com/cargo-wasmer/cargo-wasmer/internal/pack"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/cargo"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/fspath"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/types"
)

const (
	// envOutDir sets --out-dir when the flag is not given.
	envOutDir = "OUT_DIR"
	// envDryRun sets --dry-run when the flag is not given.
	envDryRun = "DRY_RUN"
)

// errConfigLoad marks failures to read the tool's own configuration.
var errConfigLoad = errors.New("configuration could not be loaded")

type (
	// buildOptions are the package selection and compilation flags shared by
	// pack and publish.
	buildOptions struct {
		manifestPath      string
		workspace         bool
		packages          []string
		exclude           []string
		features          []string
		allFeatures       bool
		noDefaultFeatures bool
		debug             bool
		outDir            string
	}

	// session is everything a pack or publish run needs once configuration
	// and cargo metadata are loaded.
	session struct {
		cfg       *config.Config
		logger    *log.Logger
		packages  []*cargo.Package
		scope     pack.Scope
		targetDir types.FilesystemPath
		packer    *pack.Packer
	}
)

func addBuildFlags(cmd *cobra.Command, opts *buildOptions) {
	f := cmd.Flags()
	f.StringVar(&opts.manifestPath, "manifest-path", "", "path to Cargo.toml")
	f.BoolVar(&opts.workspace, "workspace", false, "package every workspace member with a wasmer metadata table")
	f.StringSliceVarP(&opts.packages, "package", "p", nil, "package to bundle (repeatable)")
	f.StringSliceVar(&opts.exclude, "exclude", nil, "workspace member to skip (requires --workspace)")
	f.StringArrayVar(&opts.features, "features", nil, "space or comma separated list of features to activate")
	f.BoolVar(&opts.allFeatures, "all-features", false, "activate all available features")
	f.BoolVar(&opts.noDefaultFeatures, "no-default-features", false, "do not activate the default feature")
	f.BoolVar(&opts.debug, "debug", false, "compile in debug mode instead of release")
	f.StringVar(&opts.outDir, "out-dir", "", "bundle directory (env "+envOutDir+"; default <target-dir>/wasmer)")
}

// featureSelection merges every --features occurrence.
func (o *buildOptions) featureSelection() cargo.Features {
	var list []string
	for _, raw := range o.features {
		list = append(list, cargo.ParseFeatureList(raw)...)
	}
	return cargo.Features{
		All:       o.allFeatures,
		NoDefault: o.noDefaultFeatures,
		List:      list,
	}
}

// newSession loads configuration and cargo metadata and selects the packages
// to work on. Nothing is compiled or written yet.
func (app *App) newSession(ctx context.Context, root *rootOptions, opts *buildOptions) (*session, error) {
	scope, err := pack.NewScope(opts.workspace, opts.packages, opts.exclude)
	if err != nil {
		return nil, err
	}

	wd, err := app.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	cwd := types.FilesystemPath(wd)

	cfg, _, err := app.loadConfig(ctx, root, cwd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(app.stderr, logging.Options{
		Level:   cfg.LogLevel.String(),
		Verbose: root.verbose || cfg.Verbose,
	})
	if err != nil {
		return nil, err
	}

	features := opts.featureSelection()
	query := cargo.Query{
		CargoBinary:  cfg.CargoBinary.String(),
		ManifestPath: opts.manifestPath,
		Features:     features,
		Dir:          wd,
	}
	logger.Debug("Querying cargo metadata", "args", query.Args())
	meta, err := query.Load(ctx, app.Runner)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("read workspace metadata").
			WithResource(opts.manifestPath).
			WithSuggestion("Run 'cargo metadata --format-version 1' to see the underlying problem").
			WithSuggestion("Pass --manifest-path when running outside the crate directory").
			Wrap(err).
			BuildError()
	}

	pkgs, err := pack.SelectPackages(meta, scope, cwd, logger)
	if err != nil {
		return nil, err
	}

	outDir, err := resolveOutDir(opts.outDir, cfg.OutDir, cwd)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:       cfg,
		logger:    logger,
		packages:  pkgs,
		scope:     scope,
		targetDir: meta.TargetDirectory,
		packer: &pack.Packer{
			Runner:      app.Runner,
			Logger:      logger,
			CargoBinary: cfg.CargoBinary.String(),
			Debug:       opts.debug,
			Features:    features,
			OutDir:      outDir,
		},
	}, nil
}

// loadConfig loads configuration honoring --config, with ./config.cue
// resolved against cwd.
func (app *App) loadConfig(ctx context.Context, root *rootOptions, cwd types.FilesystemPath) (*config.Config, types.FilesystemPath, error) {
	cfg, source, err := app.Config.LoadWithSource(ctx, config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(root.cfgFile),
		BaseDir:        cwd,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", errConfigLoad, err)
	}
	return cfg, source, nil
}

// resolveOutDir picks --out-dir, then OUT_DIR, then the configured out_dir,
// and anchors relative paths at cwd. Empty means <target-dir>/wasmer.
func resolveOutDir(flag string, configured, cwd types.FilesystemPath) (types.FilesystemPath, error) {
	dir := types.FilesystemPath(flag)
	if dir == "" {
		dir = types.FilesystemPath(os.Getenv(envOutDir))
	}
	if dir == "" {
		dir = configured
	}
	if dir == "" {
		return "", nil
	}
	if err := dir.Validate(); err != nil {
		return "", err
	}
	if fspath.IsAbs(dir) {
		return fspath.Clean(dir), nil
	}
	return fspath.JoinStr(cwd, dir.String()), nil
}

// dryRunFromEnv reports whether DRY_RUN holds a true value.
func dryRunFromEnv() bool {
	v, ok := os.LookupEnv(envDryRun)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// fail prints err with its issue help and returns an ExitError carrying it.
// The help text is only rendered in verbose mode.
func (app *App) fail(cmd *cobra.Command, err error, verbose bool) error {
	issueID, styled := classifyError(err, verbose)
	svcErr := newServiceError(err, issueID, styled)
	renderServiceError(app.stderr, svcErr, verbose)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: 1, Err: svcErr}
}
