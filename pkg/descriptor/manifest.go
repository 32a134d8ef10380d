// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/cargo-wasmer/cargo-wasmer/pkg/types"
)

// FileName is the fixed name of the descriptor inside a bundle.
const FileName = "wasmer.toml"

// ErrInvalidManifest is returned (wrapped) by Manifest.Validate.
var ErrInvalidManifest = errors.New("invalid wasmer.toml")

type (
	// Manifest is the root of wasmer.toml.
	Manifest struct {
		Package  Package           `toml:"package"`
		Modules  []Module          `toml:"module,omitempty"`
		Commands []Command         `toml:"command,omitempty"`
		FS       map[string]string `toml:"fs,omitempty"`
	}

	// Package holds the [package] table. LicenseFile and Readme are bare file
	// names relative to the bundle root, never source paths.
	Package struct {
		Name             types.PackageName `toml:"name"`
		Version          string            `toml:"version"`
		Description      string            `toml:"description"`
		License          string            `toml:"license,omitempty"`
		LicenseFile      string            `toml:"license-file,omitempty"`
		Readme           string            `toml:"readme,omitempty"`
		Repository       string            `toml:"repository,omitempty"`
		Homepage         string            `toml:"homepage,omitempty"`
		WasmerExtraFlags string            `toml:"wasmer-extra-flags,omitempty"`
	}

	// Module is one [[module]] entry. Source is the .wasm file name inside
	// the bundle.
	Module struct {
		Name     string    `toml:"name"`
		Source   string    `toml:"source"`
		Abi      Abi       `toml:"abi"`
		Bindings *Bindings `toml:"bindings,omitempty"`
	}

	// Command is one [[command]] entry exposing a module as a runnable command.
	Command struct {
		Name    string            `toml:"name"`
		Module  string            `toml:"module"`
		Package types.PackageName `toml:"package,omitempty"`
	}
)

// Module returns the module with the given name, or nil.
func (m *Manifest) Module(name string) *Module {
	for i := range m.Modules {
		if m.Modules[i].Name == name {
			return &m.Modules[i]
		}
	}
	return nil
}

// Validate checks the invariants wasmer relies on. All problems are reported
// together; the returned error wraps ErrInvalidManifest.
func (m *Manifest) Validate() error {
	var errs []error

	if err := m.Package.Name.Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := semver.StrictNewVersion(m.Package.Version); err != nil {
		errs = append(errs, fmt.Errorf("package.version %q: %w", m.Package.Version, err))
	}
	if strings.TrimSpace(m.Package.Description) == "" {
		errs = append(errs, errors.New("package.description must not be empty"))
	}

	seen := make(map[string]bool, len(m.Modules))
	for i, mod := range m.Modules {
		if mod.Name == "" {
			errs = append(errs, fmt.Errorf("module[%d].name must not be empty", i))
		}
		if seen[mod.Name] {
			errs = append(errs, fmt.Errorf("module[%d]: duplicate module name %q", i, mod.Name))
		}
		seen[mod.Name] = true
		if mod.Source == "" {
			errs = append(errs, fmt.Errorf("module[%d].source must not be empty", i))
		}
		if err := mod.Abi.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("module[%d]: %w", i, err))
		}
		if mod.Bindings != nil {
			if err := mod.Bindings.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("module[%d]: %w", i, err))
			}
		}
	}

	for i, cmd := range m.Commands {
		if cmd.Name == "" {
			errs = append(errs, fmt.Errorf("command[%d].name must not be empty", i))
		}
		if (cmd.Package == "" || cmd.Package == m.Package.Name) && !seen[cmd.Module] {
			errs = append(errs, fmt.Errorf("command[%d] references unknown module %q", i, cmd.Module))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidManifest, errors.Join(errs...))
}
