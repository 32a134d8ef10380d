// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"errors"
	"fmt"
)

const (
	// AbiWasi targets the WebAssembly System Interface.
	AbiWasi Abi = "wasi"
	// AbiEmscripten targets the Emscripten JavaScript glue ABI.
	AbiEmscripten Abi = "emscripten"
	// AbiNone targets bare WebAssembly with no host ABI.
	AbiNone Abi = "none"
)

// ErrInvalidAbi is the sentinel error wrapped by InvalidAbiError.
var ErrInvalidAbi = errors.New("invalid abi")

type (
	// Abi is the execution-environment contract a module is compiled for.
	// It determines the compiler's target triple.
	Abi string

	// InvalidAbiError is returned when an Abi value is not recognized.
	InvalidAbiError struct {
		Value Abi
	}
)

// String returns the string representation of the Abi.
func (a Abi) String() string { return string(a) }

// Validate returns an error if the Abi is not one of wasi, emscripten or none.
func (a Abi) Validate() error {
	switch a {
	case AbiWasi, AbiEmscripten, AbiNone:
		return nil
	default:
		return &InvalidAbiError{Value: a}
	}
}

// TargetTriple returns the rustc target triple used to compile for this ABI.
// It returns "" for an invalid Abi.
func (a Abi) TargetTriple() string {
	switch a {
	case AbiWasi:
		return "wasm32-wasi"
	case AbiEmscripten:
		return "wasm32-unknown-emscripten"
	case AbiNone:
		return "wasm32-unknown-unknown"
	default:
		return ""
	}
}

// Error implements the error interface.
func (e *InvalidAbiError) Error() string {
	return fmt.Sprintf("invalid abi %q (expected one of: wasi, emscripten, none)", e.Value)
}

// Unwrap returns ErrInvalidAbi for errors.Is() compatibility.
func (e *InvalidAbiError) Unwrap() error { return ErrInvalidAbi }
