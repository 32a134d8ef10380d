// SPDX-License-Identifier: MPL-2.0

package cargo

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cargo-wasmer/cargo-wasmer/pkg/fspath"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/types"
)

const (
	// KindBinary is the target kind of an executable.
	KindBinary = "bin"
	// KindDynamicLibrary is the target kind of a library that can be loaded
	// by a host, which is what a WebAssembly library compiles to.
	KindDynamicLibrary = "cdylib"
)

type (
	// Metadata is the normalized result of `cargo metadata`.
	Metadata struct {
		Packages         []*Package
		WorkspaceMembers []string
		TargetDirectory  types.FilesystemPath
		WorkspaceRoot    types.FilesystemPath
		// RootID is the id of the package at the workspace root, if any.
		RootID string
	}

	// Package is one crate known to Cargo.
	Package struct {
		ID      string
		Name    string
		Version string
		// Description is nil when the field is not set in Cargo.toml.
		Description  *string
		License      string
		LicenseFile  string
		Readme       string
		Repository   string
		Homepage     string
		ManifestPath types.FilesystemPath
		Targets      []Target
		// Table is the decoded [package.metadata.wasmer] table.
		Table ToolTable
	}

	// Target is one build artifact declared by a package.
	Target struct {
		Name       string
		Kind       []string
		CrateTypes []string
		SrcPath    string
	}

	rawMetadata struct {
		Packages         []rawPackage `json:"packages"`
		WorkspaceMembers []string     `json:"workspace_members"`
		TargetDirectory  string       `json:"target_directory"`
		WorkspaceRoot    string       `json:"workspace_root"`
		Resolve          *struct {
			Root *string `json:"root"`
		} `json:"resolve"`
	}

	rawPackage struct {
		ID           string          `json:"id"`
		Name         string          `json:"name"`
		Version      string          `json:"version"`
		Description  *string         `json:"description"`
		License      *string         `json:"license"`
		LicenseFile  *string         `json:"license_file"`
		Readme       *string         `json:"readme"`
		Repository   *string         `json:"repository"`
		Homepage     *string         `json:"homepage"`
		ManifestPath string          `json:"manifest_path"`
		Targets      []rawTarget     `json:"targets"`
		Metadata     json.RawMessage `json:"metadata"`
	}

	rawTarget struct {
		Name       string   `json:"name"`
		Kind       []string `json:"kind"`
		CrateTypes []string `json:"crate_types"`
		SrcPath    string   `json:"src_path"`
	}
)

// Decode parses `cargo metadata --format-version 1` output.
func Decode(data []byte) (*Metadata, error) {
	var raw rawMetadata
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unable to parse cargo metadata output: %w", err)
	}

	meta := &Metadata{
		WorkspaceMembers: raw.WorkspaceMembers,
		TargetDirectory:  types.FilesystemPath(raw.TargetDirectory),
		WorkspaceRoot:    types.FilesystemPath(raw.WorkspaceRoot),
	}
	if raw.Resolve != nil && raw.Resolve.Root != nil {
		meta.RootID = *raw.Resolve.Root
	}

	for _, rp := range raw.Packages {
		pkg := &Package{
			ID:           rp.ID,
			Name:         rp.Name,
			Version:      rp.Version,
			Description:  rp.Description,
			License:      deref(rp.License),
			LicenseFile:  deref(rp.LicenseFile),
			Readme:       deref(rp.Readme),
			Repository:   deref(rp.Repository),
			Homepage:     deref(rp.Homepage),
			ManifestPath: types.FilesystemPath(rp.ManifestPath),
			Table:        decodeToolTable(rp.Name, rp.Metadata),
		}
		for _, rt := range rp.Targets {
			pkg.Targets = append(pkg.Targets, Target(rt))
		}
		meta.Packages = append(meta.Packages, pkg)
	}

	return meta, nil
}

// Members returns the workspace members in the order Cargo lists packages.
func (m *Metadata) Members() []*Package {
	var members []*Package
	for _, pkg := range m.Packages {
		if slices.Contains(m.WorkspaceMembers, pkg.ID) {
			members = append(members, pkg)
		}
	}
	return members
}

// RootPackage returns the package at the root of the workspace, or nil for a
// virtual workspace. When Cargo did not report a resolve graph, the package
// whose manifest sits directly in the workspace root is used.
func (m *Metadata) RootPackage() *Package {
	if m.RootID != "" {
		return m.Package(m.RootID)
	}
	if m.WorkspaceRoot == "" {
		return nil
	}
	rootManifest := fspath.Clean(fspath.JoinStr(m.WorkspaceRoot, "Cargo.toml"))
	for _, pkg := range m.Packages {
		if fspath.Clean(pkg.ManifestPath) == rootManifest {
			return pkg
		}
	}
	return nil
}

// Package returns the package with the given id, or nil.
func (m *Metadata) Package(id string) *Package {
	for _, pkg := range m.Packages {
		if pkg.ID == id {
			return pkg
		}
	}
	return nil
}

// BaseDir is the directory containing the package's Cargo.toml. Relative
// paths in the manifest (readme, license-file, bindings) resolve against it.
func (p *Package) BaseDir() types.FilesystemPath {
	return fspath.Dir(p.ManifestPath)
}

// LicenseFilePath returns the license file resolved against BaseDir, or "".
func (p *Package) LicenseFilePath() types.FilesystemPath {
	return p.resolve(p.LicenseFile)
}

// ReadmePath returns the readme resolved against BaseDir, or "".
func (p *Package) ReadmePath() types.FilesystemPath {
	return p.resolve(p.Readme)
}

func (p *Package) resolve(rel string) types.FilesystemPath {
	if rel == "" {
		return ""
	}
	if filepath.IsAbs(rel) {
		return types.FilesystemPath(filepath.Clean(rel))
	}
	return fspath.JoinStr(p.BaseDir(), rel)
}

// IsBinary reports whether the target is an executable.
func (t Target) IsBinary() bool { return slices.Contains(t.Kind, KindBinary) }

// IsDynamicLibrary reports whether the target produces a dynamic library
// usable for embedding.
func (t Target) IsDynamicLibrary() bool { return slices.Contains(t.Kind, KindDynamicLibrary) }

// IsPackageable reports whether the target can become a Wasmer module.
func (t Target) IsPackageable() bool { return t.IsBinary() || t.IsDynamicLibrary() }

// KindLabel renders the target's kinds for diagnostics, e.g. "cdylib, rlib".
func (t Target) KindLabel() string { return strings.Join(t.Kind, ", ") }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
