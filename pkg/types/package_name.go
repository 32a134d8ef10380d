// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPackageName is the sentinel error wrapped by InvalidPackageNameError.
var ErrInvalidPackageName = errors.New("invalid package name")

type (
	// PackageName is a fully qualified registry package name of the form
	// "namespace/name" (e.g., "wasmer/hello-world").
	PackageName string

	// InvalidPackageNameError is returned when a PackageName is not made of
	// exactly two non-empty, whitespace-free segments separated by "/".
	InvalidPackageNameError struct {
		Value PackageName
	}
)

// NewPackageName joins a namespace and a name into a PackageName.
// The result is not validated; call Validate before relying on it.
func NewPackageName(namespace, name string) PackageName {
	return PackageName(namespace + "/" + name)
}

// String returns the string representation of the PackageName.
func (n PackageName) String() string { return string(n) }

// Namespace returns the part before the "/" (or "" when there is none).
func (n PackageName) Namespace() string {
	ns, _, ok := strings.Cut(string(n), "/")
	if !ok {
		return ""
	}
	return ns
}

// Name returns the part after the "/" (or the whole value when there is none).
func (n PackageName) Name() string {
	_, name, ok := strings.Cut(string(n), "/")
	if !ok {
		return string(n)
	}
	return name
}

// Validate returns an error if the name is not "namespace/name".
func (n PackageName) Validate() error {
	parts := strings.Split(string(n), "/")
	if len(parts) != 2 {
		return &InvalidPackageNameError{Value: n}
	}
	for _, p := range parts {
		if p == "" || strings.ContainsAny(p, " \t\r\n") {
			return &InvalidPackageNameError{Value: n}
		}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidPackageNameError) Error() string {
	return fmt.Sprintf("invalid package name %q: expected \"namespace/name\"", e.Value)
}

// Unwrap returns ErrInvalidPackageName for errors.Is() compatibility.
func (e *InvalidPackageNameError) Unwrap() error { return ErrInvalidPackageName }
