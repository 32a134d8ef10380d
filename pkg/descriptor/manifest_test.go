// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"errors"
	"strings"
	"testing"

	"github.com/cargo-wasmer/cargo-wasmer/pkg/types"
)

func validManifest() *Manifest {
	return &Manifest{
		Package: Package{
			Name:        types.NewPackageName("wasmer", "hello-world"),
			Version:     "0.1.0",
			Description: "Say hello",
		},
		Modules:  []Module{{Name: "hello-world", Source: "hello-world.wasm", Abi: AbiWasi}},
		Commands: []Command{{Name: "hello-world", Module: "hello-world", Package: "wasmer/hello-world"}},
	}
}

func TestManifest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Manifest)
		wantMsg string
	}{
		{"valid", func(*Manifest) {}, ""},
		{"bad name", func(m *Manifest) { m.Package.Name = "hello" }, "invalid package name"},
		{"non-semver version", func(m *Manifest) { m.Package.Version = "1.0" }, "package.version"},
		{"blank description", func(m *Manifest) { m.Package.Description = " " }, "description"},
		{"bad abi", func(m *Manifest) { m.Modules[0].Abi = "wasix" }, "invalid abi"},
		{"dangling command", func(m *Manifest) { m.Commands[0].Module = "other" }, "unknown module"},
		{"duplicate module", func(m *Manifest) { m.Modules = append(m.Modules, m.Modules[0]) }, "duplicate module"},
		{"bad bindings", func(m *Manifest) { m.Modules[0].Bindings = &Bindings{WitBindgen: "0.1.0"} }, "wit-exports"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := validManifest()
			tt.mutate(m)
			err := m.Validate()
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidManifest) {
				t.Fatalf("Validate() = %v, want ErrInvalidManifest", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Validate() = %q, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestManifest_Module(t *testing.T) {
	t.Parallel()

	m := validManifest()
	if got := m.Module("hello-world"); got == nil || got.Source != "hello-world.wasm" {
		t.Errorf("Module(hello-world) = %+v", got)
	}
	if got := m.Module("missing"); got != nil {
		t.Errorf("Module(missing) = %+v, want nil", got)
	}
}
