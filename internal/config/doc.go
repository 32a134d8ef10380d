// SPDX-License-Identifier: MPL-2.0

// Package config handles cargo-wasmer's own settings using Viper with CUE as
// the file format.
//
// Configuration is loaded from $XDG_CONFIG_HOME/cargo-wasmer/config.cue
// (~/.config on Linux when unset, ~/Library/Application Support on macOS,
// %APPDATA% on Windows), falling back to ./config.cue. Every key can be
// overridden with a CARGO_WASMER_* environment variable; when Cargo runs the
// tool as a subcommand the CARGO variable selects the cargo binary.
//
// Files are validated against the embedded config_schema.cue before they are
// merged, so unknown keys and wrongly typed values are reported with their
// position.
package config
