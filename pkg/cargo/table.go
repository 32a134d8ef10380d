// SPDX-License-Identifier: MPL-2.0

package cargo

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"mvdan.cc/sh/v3/shell"

	"github.com/cargo-wasmer/cargo-wasmer/pkg/cueutil"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/descriptor"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/types"
)

const (
	// TableKey is the [package.metadata] key holding the packaging table.
	TableKey = "wasmer"
	// LegacyTableKey is accepted for crates configured for the old registry.
	LegacyTableKey = "wapm"
)

var (
	//go:embed table_schema.cue
	tableSchema []byte

	// ErrMetadataTableMissing is returned when a package has no
	// [package.metadata.wasmer] table.
	ErrMetadataTableMissing = errors.New("missing [package.metadata.wasmer] table")

	// ErrMetadataTableMalformed is the sentinel error wrapped by
	// MalformedTableError.
	ErrMetadataTableMalformed = errors.New("malformed [package.metadata.wasmer] table")
)

type (
	// ToolTable is the decoded packaging table of one package. Exactly one of
	// Config and Err is set.
	ToolTable struct {
		// Present reports whether the table exists, even if malformed.
		Present bool
		// Key is the metadata key the table was found under.
		Key    string
		Config *Config
		Err    error
	}

	// Config is the content of a [package.metadata.wasmer] table.
	Config struct {
		Namespace        string               `json:"namespace"`
		Package          string               `json:"package,omitempty"`
		WasmerExtraFlags string               `json:"wasmer-extra-flags,omitempty"`
		Abi              descriptor.Abi       `json:"abi"`
		FS               map[string]string    `json:"fs,omitempty"`
		Bindings         *descriptor.Bindings `json:"bindings,omitempty"`
	}

	// MalformedTableError is returned when the packaging table does not match
	// its schema.
	MalformedTableError struct {
		Package string
		Key     string
		Err     error
	}
)

// Error implements the error interface.
func (e *MalformedTableError) Error() string {
	return fmt.Sprintf("unable to deserialize the [package.metadata.%s] table of %q: %v", e.Key, e.Package, e.Err)
}

// Unwrap returns ErrMetadataTableMalformed and the decoding cause.
func (e *MalformedTableError) Unwrap() []error { return []error{ErrMetadataTableMalformed, e.Err} }

// Config returns the package's packaging table, or ErrMetadataTableMissing /
// a *MalformedTableError.
func (p *Package) Config() (*Config, error) {
	if p.Table.Err != nil {
		return nil, p.Table.Err
	}
	return p.Table.Config, nil
}

// HasTable reports whether the package declares a packaging table.
func (p *Package) HasTable() bool { return p.Table.Present }

// PackageName is "namespace/name" where name is the table's package override
// or the crate name.
func (c *Config) PackageName(crate string) types.PackageName {
	name := c.Package
	if name == "" {
		name = crate
	}
	return types.NewPackageName(c.Namespace, name)
}

// ExtraFlags splits wasmer-extra-flags into shell words.
func (c *Config) ExtraFlags() ([]string, error) {
	if c.WasmerExtraFlags == "" {
		return nil, nil
	}
	return shell.Fields(c.WasmerExtraFlags, func(string) string { return "" })
}

func decodeToolTable(pkgName string, metadata json.RawMessage) ToolTable {
	missing := ToolTable{Err: fmt.Errorf("%w in package %q", ErrMetadataTableMissing, pkgName)}
	if len(metadata) == 0 {
		return missing
	}

	var tables map[string]json.RawMessage
	if err := json.Unmarshal(metadata, &tables); err != nil {
		// metadata is null or not an object
		return missing
	}

	for _, key := range []string{TableKey, LegacyTableKey} {
		raw, ok := tables[key]
		if !ok || string(raw) == "null" {
			continue
		}
		table := ToolTable{Present: true, Key: key}
		cfg, err := parseConfig(raw, key)
		if err != nil {
			table.Err = &MalformedTableError{Package: pkgName, Key: key, Err: err}
			return table
		}
		table.Config = cfg
		return table
	}
	return missing
}

func parseConfig(raw json.RawMessage, key string) (*Config, error) {
	result, err := cueutil.ParseAndDecode[Config](tableSchema, raw, "#Wasmer",
		cueutil.WithFilename("package.metadata."+key))
	if err != nil {
		return nil, err
	}
	cfg := result.Value

	if _, err := cfg.ExtraFlags(); err != nil {
		return nil, fmt.Errorf("wasmer-extra-flags: %w", err)
	}
	if cfg.Bindings != nil {
		if err := cfg.Bindings.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
