// SPDX-License-Identifier: MPL-2.0

// Package descriptor models the wasmer.toml package descriptor written into
// every bundle: package identity, the compiled module, the commands it exposes,
// filesystem mappings and optional interface bindings.
//
// The descriptor is transient. It is built per package, serialized once into
// the bundle directory with Marshal, and discarded. Unmarshal exists so the
// written file can be read back and compared.
package descriptor
