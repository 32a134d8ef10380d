// SPDX-License-Identifier: MPL-2.0

package pack

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/cargo-wasmer/cargo-wasmer/pkg/cargo"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/fspath"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/types"
)

// SelectPackages returns the packages to process, in workspace order. cwd must
// be absolute; it only matters for ScopeCurrent.
func SelectPackages(meta *cargo.Metadata, scope Scope, cwd types.FilesystemPath, logger *log.Logger) ([]*cargo.Package, error) {
	if logger == nil {
		logger = log.Default()
	}

	switch scope.Kind {
	case ScopeWorkspace:
		return selectWorkspace(meta, scope.Exclude, logger), nil
	case ScopePackages:
		return selectNamed(meta, scope.Names)
	default:
		pkg, err := selectCurrent(meta, cwd)
		if err != nil {
			return nil, err
		}
		return []*cargo.Package{pkg}, nil
	}
}

func selectWorkspace(meta *cargo.Metadata, exclude []string, logger *log.Logger) []*cargo.Package {
	var selected []*cargo.Package
	for _, pkg := range meta.Members() {
		switch {
		case slices.Contains(exclude, pkg.Name):
			logger.Debug("Skipping excluded package", "pkg", pkg.Name)
		case !pkg.HasTable():
			logger.Debug("Skipping package without a [package.metadata.wasmer] table", "pkg", pkg.Name)
		default:
			selected = append(selected, pkg)
		}
	}
	return selected
}

func selectNamed(meta *cargo.Metadata, names []string) ([]*cargo.Package, error) {
	members := meta.Members()
	for _, name := range names {
		if !slices.ContainsFunc(members, func(p *cargo.Package) bool { return p.Name == name }) {
			return nil, fmt.Errorf("%w: %q is not a member of the workspace", ErrPackageNotFound, name)
		}
	}

	var selected []*cargo.Package
	for _, pkg := range members {
		if slices.Contains(names, pkg.Name) {
			selected = append(selected, pkg)
		}
	}
	return selected, nil
}

// selectCurrent picks the member whose directory most specifically encloses
// cwd, falling back to the workspace root package.
func selectCurrent(meta *cargo.Metadata, cwd types.FilesystemPath) (*cargo.Package, error) {
	var (
		best      *cargo.Package
		bestDepth int
	)
	for _, pkg := range meta.Members() {
		if !fspath.Contains(pkg.BaseDir(), cwd) {
			continue
		}
		if depth := fspath.Depth(pkg.ManifestPath); best == nil || depth > bestDepth {
			best, bestDepth = pkg, depth
		}
	}
	if best != nil {
		return best, nil
	}

	if root := meta.RootPackage(); root != nil {
		return root, nil
	}

	return nil, fmt.Errorf("%w: %q is not inside a workspace member; "+
		"change into a package directory or pass --workspace", ErrNoPackageSelected, cwd)
}
