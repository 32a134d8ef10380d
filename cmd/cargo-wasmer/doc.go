// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the cargo-wasmer CLI commands.
//
// The CLI is a thin layer over internal/pack and internal/publish: handlers
// parse flags into a runRequest, load configuration through the App's
// config.Provider, and render failures with the issue catalog.
package cmd
