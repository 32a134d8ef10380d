// SPDX-License-Identifier: MPL-2.0

// Package cargo reads workspace information from `cargo metadata` and exposes
// a normalized, read-only view of the packages, their build targets and the
// [package.metadata.wasmer] table that configures packaging.
//
// The tool table is decoded once while the metadata is normalized; callers
// branch on Package.Config's error (ErrMetadataTableMissing or a
// *MalformedTableError) instead of probing the raw JSON.
package cargo
