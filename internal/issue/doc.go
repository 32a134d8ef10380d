// SPDX-License-Identifier: MPL-2.0

// Package issue holds cargo-wasmer's user-facing error help.
//
// The catalog maps each failure class (no package selected, ambiguous target,
// compiler failure, publish failure and so on) to a Markdown help page
// rendered with glamour. ActionableError adds an operation, a resource and
// suggestions to an error returned from deeper layers.
package issue
