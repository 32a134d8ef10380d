// SPDX-License-Identifier: MPL-2.0

// Package pack turns Cargo packages into Wasmer package bundles.
//
// The pipeline for one package is: select packages (SelectPackages), pick the
// packageable target (ResolveTarget), derive the wasmer.toml descriptor
// (GenerateManifest), compile with cargo (Compiler), and stage the bundle on
// disk (Assemble). Packer runs these steps in order and stops at the first
// failure; it never retries.
//
// Every error returned by this package wraps one of the category sentinels
// ErrConfiguration, ErrResolution, ErrBuild or ErrIO.
package pack
