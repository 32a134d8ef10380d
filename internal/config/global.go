// SPDX-License-Identifier: MPL-2.0

package config

import "github.com/cargo-wasmer/cargo-wasmer/pkg/types"

// configDirOverride allows tests to override the config directory.
// os.UserHomeDir() doesn't reliably respect HOME on all platforms
// (e.g., macOS in CI).
var configDirOverride types.FilesystemPath

// Reset clears test overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
}

// SetConfigDirOverride sets a custom config directory path.
// This is intended for tests that must not touch the real user config.
func SetConfigDirOverride(dir types.FilesystemPath) {
	configDirOverride = dir
}
