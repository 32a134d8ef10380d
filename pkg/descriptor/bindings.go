// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"errors"
	"fmt"
)

const (
	// BindingsWit is the wit-bindgen interface format (*.wit files).
	BindingsWit BindingsKind = "wit"
	// BindingsWai is the WebAssembly Interfaces format (*.wai files).
	BindingsWai BindingsKind = "wai"
)

// ErrInvalidBindings is the sentinel error wrapped by InvalidBindingsError.
var ErrInvalidBindings = errors.New("invalid bindings")

type (
	// BindingsKind identifies which interface-description format a Bindings
	// value uses.
	BindingsKind string

	// Bindings references the interface-description file(s) describing a
	// module's API surface. Exactly one format is set:
	//
	//	bindings = { wit-bindgen = "0.1.0", wit-exports = "hello.wit" }
	//	bindings = { wai-version = "0.2.0", exports = "hello.wai", imports = ["host.wai"] }
	//
	// Paths are relative to the crate's directory. The json tags let the same
	// struct be decoded from the Cargo metadata table.
	Bindings struct {
		WitBindgen string   `toml:"wit-bindgen,omitempty" json:"wit-bindgen,omitempty"`
		WitExports string   `toml:"wit-exports,omitempty" json:"wit-exports,omitempty"`
		WaiVersion string   `toml:"wai-version,omitempty" json:"wai-version,omitempty"`
		Exports    string   `toml:"exports,omitempty" json:"exports,omitempty"`
		Imports    []string `toml:"imports,omitempty" json:"imports,omitempty"`
	}

	// InvalidBindingsError describes a malformed Bindings value.
	InvalidBindingsError struct {
		Reason string
	}
)

// Kind reports the format in use, or "" when neither version tag is set.
func (b *Bindings) Kind() BindingsKind {
	switch {
	case b.WitBindgen != "" && b.WaiVersion == "":
		return BindingsWit
	case b.WaiVersion != "" && b.WitBindgen == "":
		return BindingsWai
	default:
		return ""
	}
}

// Extension returns the file extension of the format, including the dot.
func (k BindingsKind) Extension() string {
	switch k {
	case BindingsWit:
		return ".wit"
	case BindingsWai:
		return ".wai"
	default:
		return ""
	}
}

// Validate checks that exactly one format is configured with its files.
func (b *Bindings) Validate() error {
	switch {
	case b.WitBindgen != "" && b.WaiVersion != "":
		return &InvalidBindingsError{Reason: "both wit-bindgen and wai-version are set"}
	case b.WitBindgen != "":
		if b.WitExports == "" {
			return &InvalidBindingsError{Reason: "wit-bindgen requires wit-exports"}
		}
		if b.Exports != "" || len(b.Imports) > 0 {
			return &InvalidBindingsError{Reason: "exports/imports belong to wai bindings, use wit-exports"}
		}
	case b.WaiVersion != "":
		if b.Exports == "" && len(b.Imports) == 0 {
			return &InvalidBindingsError{Reason: "wai-version requires exports or imports"}
		}
		if b.WitExports != "" {
			return &InvalidBindingsError{Reason: "wit-exports belongs to wit bindings"}
		}
	default:
		return &InvalidBindingsError{Reason: "one of wit-bindgen or wai-version must be set"}
	}
	return nil
}

// RootFiles returns the interface files named directly by the bindings, in
// declaration order, before any includes are followed.
func (b *Bindings) RootFiles() []string {
	switch b.Kind() {
	case BindingsWit:
		return []string{b.WitExports}
	case BindingsWai:
		files := make([]string, 0, 1+len(b.Imports))
		if b.Exports != "" {
			files = append(files, b.Exports)
		}
		return append(files, b.Imports...)
	default:
		return nil
	}
}

// Error implements the error interface.
func (e *InvalidBindingsError) Error() string {
	return fmt.Sprintf("invalid bindings: %s", e.Reason)
}

// Unwrap returns ErrInvalidBindings for errors.Is() compatibility.
func (e *InvalidBindingsError) Unwrap() error { return ErrInvalidBindings }
