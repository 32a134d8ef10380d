// SPDX-License-Identifier: MPL-2.0

// Package types defines small value types shared by the descriptor, cargo and
// pack packages. Each type validates itself and reports failures through a
// typed error that wraps a package-level sentinel.
//
// This package is a leaf dependency: it imports only the standard library.
package types
