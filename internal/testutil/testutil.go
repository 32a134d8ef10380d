// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// ToolEnvVars lists the environment variables cargo-wasmer reads. Tests that
// load configuration or parse flags clear them so the host shell cannot leak in.
var ToolEnvVars = []string{
	"CARGO",
	"DRY_RUN",
	"CARGO_WASMER_CARGO_BINARY",
	"CARGO_WASMER_WASMER_BINARY",
	"CARGO_WASMER_OUT_DIR",
	"CARGO_WASMER_LOG",
	"CARGO_WASMER_LOG_LEVEL",
	"CARGO_WASMER_VERBOSE",
}

// MustChdir changes the current working directory to dir.
// It returns a cleanup function that restores the original directory.
// The test fails immediately if the directory change fails.
func MustChdir(t testing.TB, dir string) func() {
	t.Helper()
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get current directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory to %s: %v", dir, err)
	}
	return func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Errorf("failed to restore directory to %s: %v", originalWd, err)
		}
	}
}

// MustSetenv sets the environment variable key to value.
// It returns a cleanup function that restores the original value (or unsets it).
func MustSetenv(t testing.TB, key, value string) func() {
	t.Helper()
	originalValue, hadValue := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	return restoreEnv(t, key, originalValue, hadValue)
}

// MustUnsetenv unsets the environment variable key.
// It returns a cleanup function that restores the original value (if any).
func MustUnsetenv(t testing.TB, key string) func() {
	t.Helper()
	originalValue, hadValue := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset env %s: %v", key, err)
	}
	return restoreEnv(t, key, originalValue, hadValue)
}

func restoreEnv(t testing.TB, key, value string, had bool) func() {
	return func() {
		if had {
			if err := os.Setenv(key, value); err != nil {
				t.Errorf("failed to restore env %s: %v", key, err)
			}
			return
		}
		if err := os.Unsetenv(key); err != nil {
			t.Errorf("failed to unset env %s: %v", key, err)
		}
	}
}

// ClearToolEnv unsets every variable in ToolEnvVars until the test ends.
func ClearToolEnv(t testing.TB) {
	t.Helper()
	for _, key := range ToolEnvVars {
		t.Cleanup(MustUnsetenv(t, key))
	}
}

// MustWriteFile writes data to path, creating parent directories.
func MustWriteFile(t testing.TB, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// WriteCrate lays out a crate with a Cargo.toml, src/main.rs and any extra
// files (relative path to content) under dir, and returns the manifest path.
func WriteCrate(t testing.TB, dir, name string, extra map[string]string) string {
	t.Helper()
	manifest := filepath.Join(dir, "Cargo.toml")
	MustWriteFile(t, manifest, "[package]\nname = \""+name+"\"\nversion = \"0.1.0\"\n")
	MustWriteFile(t, filepath.Join(dir, "src", "main.rs"), "fn main() {}\n")
	for rel, content := range extra {
		MustWriteFile(t, filepath.Join(dir, filepath.FromSlash(rel)), content)
	}
	return manifest
}
