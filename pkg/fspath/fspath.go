// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath functions that
// accept and return types.FilesystemPath, plus the containment checks used when
// files are rehomed into a bundle (a file may only be copied relative to a base
// directory it actually lives under).
package fspath

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cargo-wasmer/cargo-wasmer/pkg/types"
)

// ErrPathEscapesBaseDirectory is the sentinel error wrapped by EscapeError.
var ErrPathEscapesBaseDirectory = errors.New("path escapes base directory")

// EscapeError is returned when a path resolves outside of the base directory
// it was expected to live in.
type EscapeError struct {
	Path types.FilesystemPath
	Base types.FilesystemPath
}

// Error implements the error interface.
func (e *EscapeError) Error() string {
	return fmt.Sprintf("%q should be inside %q", e.Path, e.Base)
}

// Unwrap returns ErrPathEscapesBaseDirectory for errors.Is() compatibility.
func (e *EscapeError) Unwrap() error { return ErrPathEscapesBaseDirectory }

// JoinStr wraps filepath.Join, accepting a typed base path and raw string
// segments (e.g., "wasmer.toml" or a target triple).
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Dir wraps filepath.Dir for FilesystemPath.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Dir(string(p)))
}

// Base wraps filepath.Base for FilesystemPath. The result is a bare file name.
func Base(p types.FilesystemPath) string {
	return filepath.Base(string(p))
}

// Abs wraps filepath.Abs for FilesystemPath. Returns an error if the
// underlying OS call fails.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return types.FilesystemPath(abs), nil
}

// IsAbs wraps filepath.IsAbs for FilesystemPath.
func IsAbs(p types.FilesystemPath) bool {
	return filepath.IsAbs(string(p))
}

// Clean wraps filepath.Clean for FilesystemPath.
func Clean(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Clean(string(p)))
}

// Depth returns the number of components in a cleaned path. The root of an
// absolute path counts as one component, so "/ws/a" has depth 3.
func Depth(p types.FilesystemPath) int {
	cleaned := filepath.Clean(string(p))
	depth := 0
	if vol := filepath.VolumeName(cleaned); vol != "" {
		depth++
		cleaned = cleaned[len(vol):]
	}
	if strings.HasPrefix(cleaned, string(filepath.Separator)) {
		depth++
	}
	for _, part := range strings.Split(cleaned, string(filepath.Separator)) {
		if part != "" && part != "." {
			depth++
		}
	}
	return depth
}

// Contains reports whether p is dir itself or lives somewhere below it.
// The comparison is component-wise: "/ws/ab" is not inside "/ws/a".
func Contains(dir, p types.FilesystemPath) bool {
	_, err := RelWithin(dir, p)
	return err == nil
}

// RelWithin returns p relative to base. Relative inputs for p are resolved
// against base first. It returns an *EscapeError when the cleaned result
// would climb out of base.
func RelWithin(base, p types.FilesystemPath) (string, error) {
	cleanBase := filepath.Clean(string(base))
	target := string(p)
	if !filepath.IsAbs(target) && filepath.IsAbs(cleanBase) {
		target = filepath.Join(cleanBase, target)
	}
	rel, err := filepath.Rel(cleanBase, filepath.Clean(target))
	if err != nil {
		return "", &EscapeError{Path: p, Base: base}
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &EscapeError{Path: p, Base: base}
	}
	return rel, nil
}
