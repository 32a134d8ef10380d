// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/cargo-wasmer/cargo-wasmer/pkg/fspath"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/types"
)

// ErrBindingFileNotFound is the sentinel error wrapped by BindingFileNotFoundError.
var ErrBindingFileNotFound = errors.New("binding file not found")

// BindingFileNotFoundError is returned when a bindings file, or a file it
// includes, does not exist.
type BindingFileNotFoundError struct {
	Path       string
	IncludedBy string
}

// Error implements the error interface.
func (e *BindingFileNotFoundError) Error() string {
	if e.IncludedBy != "" {
		return fmt.Sprintf("%q (included by %q) does not exist", e.Path, e.IncludedBy)
	}
	return fmt.Sprintf("%q does not exist", e.Path)
}

// Unwrap returns ErrBindingFileNotFound for errors.Is() compatibility.
func (e *BindingFileNotFoundError) Unwrap() error { return ErrBindingFileNotFound }

// useStatement matches include statements of the form
//
//	use { a, b } from types
//	use * from "deps/shared.wit"
//
// Group 1 holds a quoted path, group 2 a bare interface name.
var useStatement = regexp.MustCompile(`(?m)^\s*use\s+(?:\*|\{[^}]*\})\s+from\s+(?:"([^"]+)"|([A-Za-z0-9_.\-/]+))`)

// ReferencedFiles returns the absolute paths of every file the bindings need:
// the root files plus everything they transitively include. Includes are
// resolved relative to the including file; a bare name gets the format's
// extension. Every file must exist and live under baseDir.
//
// The result is sorted and free of duplicates.
func (b *Bindings) ReferencedFiles(baseDir string) ([]string, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	base := filepath.Clean(baseDir)
	ext := b.Kind().Extension()

	type pending struct {
		path       string
		includedBy string
	}
	var queue []pending
	for _, root := range b.RootFiles() {
		queue = append(queue, pending{path: resolveAgainst(base, root)})
	}

	visited := make(map[string]bool)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if visited[next.path] {
			continue
		}

		if _, err := fspath.RelWithin(types.FilesystemPath(base), types.FilesystemPath(next.path)); err != nil {
			return nil, err
		}
		src, err := os.ReadFile(next.path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, &BindingFileNotFoundError{Path: next.path, IncludedBy: next.includedBy}
			}
			return nil, fmt.Errorf("unable to read %q: %w", next.path, err)
		}
		visited[next.path] = true

		dir := filepath.Dir(next.path)
		for _, include := range parseIncludes(src) {
			if filepath.Ext(include) == "" {
				include += ext
			}
			queue = append(queue, pending{path: resolveAgainst(dir, include), includedBy: next.path})
		}
	}

	files := make([]string, 0, len(visited))
	for p := range visited {
		files = append(files, p)
	}
	sort.Strings(files)
	return files, nil
}

func parseIncludes(src []byte) []string {
	var includes []string
	for _, m := range useStatement.FindAllSubmatch(src, -1) {
		if len(m[1]) > 0 {
			includes = append(includes, string(m[1]))
		} else {
			includes = append(includes, string(m[2]))
		}
	}
	return includes
}

func resolveAgainst(dir, p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}
