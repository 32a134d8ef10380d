// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"reflect"
	"strings"
	"testing"
)

func TestMarshal_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		manifest *Manifest
	}{
		{"minimal library", &Manifest{
			Package: Package{Name: "wasmer/my-lib", Version: "1.2.3", Description: "A library"},
			Modules: []Module{{Name: "my-lib", Source: "my_lib.wasm", Abi: AbiNone}},
		}},
		{"every optional field", &Manifest{
			Package: Package{
				Name:             "wasmer/hello-world",
				Version:          "0.1.0-alpha.1",
				Description:      "Say \"hello\"",
				License:          "MIT OR Apache-2.0",
				LicenseFile:      "LICENSE-MIT",
				Readme:           "README.md",
				Repository:       "https://github.com/wasmerio/hello",
				Homepage:         "https://wasmer.io",
				WasmerExtraFlags: "--enable-threads --dir=.",
			},
			Modules: []Module{{
				Name:   "hello-world",
				Source: "hello-world.wasm",
				Abi:    AbiWasi,
				Bindings: &Bindings{
					WaiVersion: "0.2.0",
					Exports:    "hello.wai",
					Imports:    []string{"wai/host.wai", "wai/log.wai"},
				},
			}},
			Commands: []Command{{Name: "hello-world", Module: "hello-world", Package: "wasmer/hello-world"}},
			FS:       map[string]string{"/data": "data", "/etc/app": "config"},
		}},
		{"wit bindings", &Manifest{
			Package: Package{Name: "ns/wit", Version: "0.0.1", Description: "wit"},
			Modules: []Module{{Name: "wit", Source: "wit.wasm", Abi: AbiEmscripten, Bindings: &Bindings{WitBindgen: "0.1.0", WitExports: "exports.wit"}}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := Marshal(tt.manifest)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			got, err := Unmarshal(data)
			if err != nil {
				t.Fatalf("Unmarshal() error = %v\n%s", err, data)
			}
			if !reflect.DeepEqual(got, tt.manifest) {
				t.Errorf("round trip mismatch\n got: %#v\nwant: %#v\ntoml:\n%s", got, tt.manifest, data)
			}
		})
	}
}

func TestMarshal_Layout(t *testing.T) {
	t.Parallel()

	data, err := Marshal(validManifest())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	text := string(data)
	for _, want := range []string{"[package]", "[[module]]", "[[command]]", "wasmer/hello-world", "wasi"} {
		if !strings.Contains(text, want) {
			t.Errorf("wasmer.toml missing %q:\n%s", want, text)
		}
	}
	for _, unwanted := range []string{"license", "readme", "[fs]", "bindings"} {
		if strings.Contains(text, unwanted) {
			t.Errorf("wasmer.toml should omit empty %q:\n%s", unwanted, text)
		}
	}
}

func TestUnmarshal_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := Unmarshal([]byte("[package\nname = ")); err == nil {
		t.Error("Unmarshal() of broken TOML returned nil error")
	}
}
