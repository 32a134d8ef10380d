// SPDX-License-Identifier: MPL-2.0

package pack

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"

	"github.com/cargo-wasmer/cargo-wasmer/internal/process"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/cargo"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/fspath"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/types"
)

// DefaultOutDirName is the directory under Cargo's target directory that
// holds bundles when no output directory is configured.
const DefaultOutDirName = "wasmer"

// Packer compiles packages and assembles their bundles.
type Packer struct {
	Runner      process.Runner
	Logger      *log.Logger
	CargoBinary string
	Debug       bool
	Features    cargo.Features
	// OutDir overrides <target-dir>/wasmer.
	OutDir types.FilesystemPath
}

// OutputDir returns the bundle directory for pkg. Runs that may produce
// several bundles namespace them by package name.
func (p *Packer) OutputDir(pkg *cargo.Package, targetDir types.FilesystemPath, scope Scope) types.FilesystemPath {
	dir := p.OutDir
	if dir == "" {
		dir = fspath.JoinStr(targetDir, DefaultOutDirName)
	}
	if scope.MultiPackage() {
		return fspath.JoinStr(dir, pkg.Name)
	}
	return dir
}

// Pack builds one package's bundle. Configuration problems are reported
// before anything is written to disk; an existing bundle directory is
// removed before compiling.
func (p *Packer) Pack(ctx context.Context, pkg *cargo.Package, targetDir types.FilesystemPath, scope Scope) (*BundleReport, error) {
	logger := p.logger().With("pkg", pkg.Name)
	dest := p.OutputDir(pkg, targetDir, scope)
	logger.Debug("Generating the Wasmer package", "dest", dest)

	target, err := ResolveTarget(pkg)
	if err != nil {
		return nil, err
	}
	manifest, err := GenerateManifest(pkg, target)
	if err != nil {
		return nil, err
	}

	if err := removeStale(dest, logger); err != nil {
		return nil, err
	}

	compiler := &Compiler{
		Runner:      p.Runner,
		Logger:      logger,
		CargoBinary: p.CargoBinary,
		Debug:       p.Debug,
		Features:    p.Features,
	}
	artifact, err := compiler.Compile(ctx, pkg, targetDir, manifest.Modules[0], target)
	if err != nil {
		return nil, err
	}

	report, err := Assemble(dest, manifest, artifact, pkg)
	if err != nil {
		return nil, err
	}
	logger.Info("Wrote the Wasmer package", "dir", report.Dir, "digest", report.ArtifactDigest)
	return report, nil
}

// PackAll packs each package in order and stops at the first failure. The
// reports of packages finished before the failure are returned with it.
func (p *Packer) PackAll(ctx context.Context, pkgs []*cargo.Package, targetDir types.FilesystemPath, scope Scope) ([]*BundleReport, error) {
	reports := make([]*BundleReport, 0, len(pkgs))
	for _, pkg := range pkgs {
		report, err := p.Pack(ctx, pkg, targetDir, scope)
		if err != nil {
			return reports, fmt.Errorf("unable to pack %q: %w", pkg.Name, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (p *Packer) logger() *log.Logger {
	if p.Logger == nil {
		return log.Default()
	}
	return p.Logger
}

func removeStale(dest types.FilesystemPath, logger *log.Logger) error {
	if _, err := os.Stat(dest.String()); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return &FileError{Op: "stat", Path: dest, Err: err}
	}
	logger.Debug("Removing previous generated package", "dir", dest)
	if err := os.RemoveAll(dest.String()); err != nil {
		return &FileError{Op: "remove", Path: dest, Err: err}
	}
	return nil
}
