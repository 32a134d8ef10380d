// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/cargo-wasmer/cargo-wasmer/pkg/fspath"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParseIncludes(t *testing.T) {
	t.Parallel()

	src := `// use { nope } from commented
use { point, size } from types
use * from "deps/shared.wit"
  use {
    a,
    b,
  } from nested/more

record thing { x: u32 }
`
	got := parseIncludes([]byte(src))
	want := []string{"types", "deps/shared.wit", "nested/more"}
	if !slices.Equal(got, want) {
		t.Errorf("parseIncludes() = %v, want %v", got, want)
	}
}

func TestReferencedFiles_FollowsIncludes(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeFile(t, filepath.Join(base, "wit", "exports.wit"), "use { a } from types\nuse * from \"deps/shared.wit\"\n")
	writeFile(t, filepath.Join(base, "wit", "types.wit"), "record a { x: u32 }\n")
	writeFile(t, filepath.Join(base, "wit", "deps", "shared.wit"), "use { a } from ../types\n")

	b := &Bindings{WitBindgen: "0.1.0", WitExports: "wit/exports.wit"}
	got, err := b.ReferencedFiles(base)
	if err != nil {
		t.Fatalf("ReferencedFiles() error = %v", err)
	}
	want := []string{
		filepath.Join(base, "wit", "deps", "shared.wit"),
		filepath.Join(base, "wit", "exports.wit"),
		filepath.Join(base, "wit", "types.wit"),
	}
	if !slices.Equal(got, want) {
		t.Errorf("ReferencedFiles() = %v, want %v", got, want)
	}
}

func TestReferencedFiles_WaiImports(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeFile(t, filepath.Join(base, "exports.wai"), "")
	writeFile(t, filepath.Join(base, "host.wai"), "")

	b := &Bindings{WaiVersion: "0.2.0", Exports: "exports.wai", Imports: []string{"host.wai", "exports.wai"}}
	got, err := b.ReferencedFiles(base)
	if err != nil {
		t.Fatalf("ReferencedFiles() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ReferencedFiles() = %v, want 2 de-duplicated files", got)
	}
}

func TestReferencedFiles_EscapesBase(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	base := filepath.Join(root, "crate")
	writeFile(t, filepath.Join(base, "exports.wit"), "use * from \"../outside.wit\"\n")
	writeFile(t, filepath.Join(root, "outside.wit"), "")

	b := &Bindings{WitBindgen: "0.1.0", WitExports: "exports.wit"}
	_, err := b.ReferencedFiles(base)
	if !errors.Is(err, fspath.ErrPathEscapesBaseDirectory) {
		t.Fatalf("ReferencedFiles() error = %v, want ErrPathEscapesBaseDirectory", err)
	}
}

func TestReferencedFiles_Missing(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeFile(t, filepath.Join(base, "exports.wit"), "use { a } from missing\n")

	b := &Bindings{WitBindgen: "0.1.0", WitExports: "exports.wit"}
	_, err := b.ReferencedFiles(base)
	var notFound *BindingFileNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("ReferencedFiles() error = %v, want *BindingFileNotFoundError", err)
	}
	if notFound.Path != filepath.Join(base, "missing.wit") || notFound.IncludedBy != filepath.Join(base, "exports.wit") {
		t.Errorf("unexpected error details: %+v", notFound)
	}
}
