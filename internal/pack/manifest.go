// SPDX-License-Identifier: MPL-2.0

package pack

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cargo-wasmer/cargo-wasmer/pkg/cargo"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/descriptor"
)

// WasmExtension is appended to compiled artifact names.
const WasmExtension = ".wasm"

// ArtifactName predicts the file name rustc gives the target's output, without
// extension. Binaries keep their name; library artifacts have hyphens
// replaced by underscores.
func ArtifactName(target cargo.Target) string {
	if target.IsBinary() {
		return target.Name
	}
	return strings.ReplaceAll(target.Name, "-", "_")
}

// GenerateManifest derives the wasmer.toml descriptor for pkg. It performs no
// I/O.
func GenerateManifest(pkg *cargo.Package, target cargo.Target) (*descriptor.Manifest, error) {
	cfg, err := pkg.Config()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	switch {
	case pkg.Description == nil:
		return nil, fmt.Errorf("%w: add a description to the [package] table of %s", ErrMissingDescription, pkg.ManifestPath)
	case *pkg.Description == "":
		return nil, fmt.Errorf("%w: the description in %s must not be empty", ErrEmptyDescription, pkg.ManifestPath)
	}

	name := cfg.PackageName(pkg.Name)

	manifest := &descriptor.Manifest{
		Package: descriptor.Package{
			Name:             name,
			Version:          pkg.Version,
			Description:      *pkg.Description,
			License:          pkg.License,
			LicenseFile:      fileName(pkg.LicenseFile),
			Readme:           fileName(pkg.Readme),
			Repository:       pkg.Repository,
			Homepage:         pkg.Homepage,
			WasmerExtraFlags: cfg.WasmerExtraFlags,
		},
		Modules: []descriptor.Module{{
			Name:     target.Name,
			Source:   ArtifactName(target) + WasmExtension,
			Abi:      cfg.Abi,
			Bindings: cfg.Bindings,
		}},
		FS: cfg.FS,
	}

	if target.IsBinary() {
		manifest.Commands = []descriptor.Command{{
			Name:    target.Name,
			Module:  target.Name,
			Package: name,
		}}
	}

	if err := manifest.Validate(); err != nil {
		return nil, fmt.Errorf("%w: package %q: %w", ErrConfiguration, pkg.Name, err)
	}
	return manifest, nil
}

func fileName(p string) string {
	if p == "" {
		return ""
	}
	return filepath.Base(p)
}
