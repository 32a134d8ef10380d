// SPDX-License-Identifier: MPL-2.0

// Package publish hands assembled bundles to the wasmer CLI.
package publish
